package printer

import (
	"fmt"
	"io"
	"strings"
)

// Device drives an ESC/POS printer over an opaque byte transport. The
// protocol has no way to toggle a single attribute while keeping the
// rest, so every state change writes the complete attribute sequence
// derived from the shadow state.
type Device struct {
	w     io.WriteCloser
	width int
	state attrs
}

// NewDevice initializes the printer behind the transport and pushes the
// neutral attribute state so the device and the shadow copy agree. A
// non-positive width falls back to DefaultWidth.
func NewDevice(transport io.WriteCloser, width int) (*Device, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	d := &Device{w: transport, width: width}

	// ESC @: reset the printer to its power-on state.
	if err := d.raw([]byte{0x1B, '@'}); err != nil {
		return nil, fmt.Errorf("printer: init failed: %w", err)
	}
	if err := d.pushState(); err != nil {
		return nil, fmt.Errorf("printer: init failed: %w", err)
	}
	return d, nil
}

func (d *Device) raw(p []byte) error {
	_, err := d.w.Write(p)
	return err
}

// pushState writes the full attribute replacement for the current
// shadow state in one transport write.
func (d *Device) pushState() error {
	onOff := func(b bool) byte {
		if b {
			return 1
		}
		return 0
	}

	var size byte
	if d.state.doubleWidth {
		size |= 0x10
	}
	if d.state.doubleHeight {
		size |= 0x01
	}

	seq := []byte{
		0x1B, 'a', onOff(d.state.center), // ESC a: justification
		0x1B, 'E', onOff(d.state.bold), // ESC E: emphasis
		0x1B, '-', onOff(d.state.underline), // ESC -: underline
		0x1D, 'B', onOff(d.state.invert), // GS B: white/black reverse
		0x1D, '!', size, // GS !: character size
	}
	return d.raw(seq)
}

// scoped runs body with the attributes produced by merge. The previous
// shadow state is restored and re-pushed on every exit path; a failed
// restore push surfaces only when the body itself succeeded, so the
// original error always wins.
func (d *Device) scoped(merge func(*attrs), body func() error) (err error) {
	saved := d.state
	merge(&d.state)

	defer func() {
		d.state = saved
		if rerr := d.pushState(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err = d.pushState(); err != nil {
		return err
	}
	return body()
}

func (d *Device) Center(body func() error) error {
	return d.scoped(func(a *attrs) { a.center = true }, body)
}

func (d *Device) Bold(body func() error) error {
	return d.scoped(func(a *attrs) { a.bold = true }, body)
}

func (d *Device) Underline(body func() error) error {
	return d.scoped(func(a *attrs) { a.underline = true }, body)
}

func (d *Device) Highlight(body func() error) error {
	return d.scoped(func(a *attrs) { a.invert = true }, body)
}

// Text word-wraps s and prints it. Double-width glyphs occupy two
// columns, halving the usable width while that attribute is active.
func (d *Device) Text(s, prefix string) error {
	width := d.width
	if d.state.doubleWidth {
		width /= 2
	}

	lines := wrapLines(s, width-len(prefix))

	if prefix != "" {
		if err := d.raw([]byte(prefix)); err != nil {
			return err
		}
	}
	if err := d.raw([]byte(lines[0] + "\n")); err != nil {
		return err
	}

	indent := strings.Repeat(" ", len(prefix))
	for _, line := range lines[1:] {
		if indent != "" {
			if err := d.raw([]byte(indent)); err != nil {
				return err
			}
		}
		if err := d.raw([]byte(line + "\n")); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) Blank() error {
	return d.raw([]byte{'\n'})
}

// Heading prints s in bold; a large heading additionally doubles the
// character size and is followed by one blank line. The blank line is
// emitted after the size scope has closed, otherwise the height
// multiplier would double it as well.
func (d *Device) Heading(s string, large bool) error {
	err := d.Bold(func() error {
		if !large {
			return d.Text(s, "")
		}
		return d.scoped(func(a *attrs) {
			a.doubleWidth = true
			a.doubleHeight = true
		}, func() error {
			return d.Text(s, "")
		})
	})
	if err != nil {
		return err
	}
	if large {
		return d.Blank()
	}
	return nil
}

func (d *Device) ListItem(s string, checkbox bool) error {
	return d.Text(s, listPrefix(checkbox))
}

// Close feeds the remaining text past the tear bar, cuts the paper and
// closes the transport.
func (d *Device) Close() error {
	werr := d.raw([]byte{
		0x1B, 'd', 4, // ESC d: feed 4 lines
		0x1D, 'V', 0, // GS V: full cut
	})
	cerr := d.w.Close()
	if werr != nil {
		return fmt.Errorf("printer: cut failed: %w", werr)
	}
	return cerr
}
