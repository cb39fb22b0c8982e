package printer

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Console renders the agenda to a terminal instead of printer hardware,
// for dry runs and development. Bold, underline and highlight map to
// the matching ANSI attributes; centering is done by padding, and the
// character size attributes are ignored since terminal glyphs always
// occupy one cell.
type Console struct {
	w     io.Writer
	width int
	state attrs
}

// NewConsole builds a console printer writing to w. A non-positive
// width falls back to DefaultWidth.
func NewConsole(w io.Writer, width int) *Console {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Console{w: w, width: width}
}

// scoped runs body with the attributes produced by merge and restores
// the previous state on every exit path. The console has no device-side
// state, so no push is needed; attributes are applied per line.
func (c *Console) scoped(merge func(*attrs), body func() error) error {
	saved := c.state
	merge(&c.state)
	defer func() { c.state = saved }()
	return body()
}

func (c *Console) Center(body func() error) error {
	return c.scoped(func(a *attrs) { a.center = true }, body)
}

func (c *Console) Bold(body func() error) error {
	return c.scoped(func(a *attrs) { a.bold = true }, body)
}

func (c *Console) Underline(body func() error) error {
	return c.scoped(func(a *attrs) { a.underline = true }, body)
}

func (c *Console) Highlight(body func() error) error {
	return c.scoped(func(a *attrs) { a.invert = true }, body)
}

func (c *Console) writeLine(s string) error {
	if c.state.center && len(s) < c.width {
		s = strings.Repeat(" ", (c.width-len(s))/2) + s
	}

	col := color.New()
	if c.state.bold {
		col.Add(color.Bold)
	}
	if c.state.underline {
		col.Add(color.Underline)
	}
	if c.state.invert {
		col.Add(color.ReverseVideo)
	}

	_, err := col.Fprintln(c.w, s)
	return err
}

func (c *Console) Text(s, prefix string) error {
	lines := wrapLines(s, c.width-len(prefix))

	if err := c.writeLine(prefix + lines[0]); err != nil {
		return err
	}
	indent := strings.Repeat(" ", len(prefix))
	for _, line := range lines[1:] {
		if err := c.writeLine(indent + line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) Blank() error {
	_, err := io.WriteString(c.w, "\n")
	return err
}

func (c *Console) Heading(s string, large bool) error {
	if err := c.Bold(func() error { return c.Text(s, "") }); err != nil {
		return err
	}
	if large {
		return c.Blank()
	}
	return nil
}

func (c *Console) ListItem(s string, checkbox bool) error {
	return c.Text(s, listPrefix(checkbox))
}

// Close draws a tear-off line, the console stand-in for the paper cut.
func (c *Console) Close() error {
	_, err := io.WriteString(c.w, strings.Repeat("-", c.width)+"\n")
	return err
}
