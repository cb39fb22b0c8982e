package printer

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"
	"periph.io/x/conn/v3/uart/uartreg"
	"periph.io/x/host/v3"
)

const dialTimeout = 5 * time.Second

// DialNetwork connects to a network-attached ESC/POS printer. The usual
// raw printing port is 9100.
func DialNetwork(address string) (io.WriteCloser, error) {
	if address == "" {
		return nil, fmt.Errorf("printer: network address is empty")
	}
	c, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("printer: dial %s: %w", address, err)
	}
	return c, nil
}

// OpenDeviceFile opens a printer exposed as a character device, e.g.
// /dev/usb/lp0.
func OpenDeviceFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, fmt.Errorf("printer: device path is empty")
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("printer: open %s: %w", path, err)
	}
	return f, nil
}

// serialPort adapts a periph UART connection to io.WriteCloser.
type serialPort struct {
	port uart.PortCloser
	conn conn.Conn
}

func (s *serialPort) Write(p []byte) (int, error) {
	if err := s.conn.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *serialPort) Close() error {
	return s.port.Close()
}

// OpenSerial opens a TTL serial printer via periph. name may be empty
// to pick the first available port. Thermal printers commonly ship
// configured for 9600 or 19200 baud, 8N1.
func OpenSerial(name string, baud int) (io.WriteCloser, error) {
	if baud <= 0 {
		baud = 19200
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("printer: periph host init failed: %w", err)
	}

	port, err := uartreg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("printer: open serial port %q: %w", name, err)
	}

	c, err := port.Connect(physic.Frequency(baud)*physic.Hertz, uart.One, uart.NoParity, uart.NoFlow, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("printer: connect serial port %q: %w", name, err)
	}

	return &serialPort{port: port, conn: c}, nil
}
