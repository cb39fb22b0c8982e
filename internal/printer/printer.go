// Package printer provides the output capability templates render
// against, plus the ESC/POS and console implementations of it. The
// devices behind it only accept a complete replacement of their
// attribute set, so each implementation keeps a shadow copy of the
// currently active attributes and re-pushes the full set whenever a
// formatting scope is entered or left.
package printer

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// DefaultWidth is the number of characters per line on 80mm paper.
const DefaultWidth = 42

// Printer is the capability set any rendering backend implements.
//
// Text wraps s to the device width minus the prefix length; the prefix
// is printed before the first line and continuation lines are indented
// by its length so they align under the first line's text. The scoped
// modifiers (Center, Bold, Underline, Highlight) apply an attribute for
// the duration of the body and restore the previous attribute state on
// every exit path, including when the body or a device write fails.
// Write errors are never masked.
//
// Close finalizes the output stream (paper cut, flush) and must be
// called exactly once, on every exit path from a render pass.
type Printer interface {
	Text(s, prefix string) error
	Blank() error
	Heading(s string, large bool) error
	ListItem(s string, checkbox bool) error

	Center(body func() error) error
	Bold(body func() error) error
	Underline(body func() error) error
	Highlight(body func() error) error

	Close() error
}

// attrs is the shadow attribute state. Copying the struct is the
// snapshot operation the scoped modifiers rely on.
type attrs struct {
	center       bool
	bold         bool
	underline    bool
	invert       bool
	doubleWidth  bool
	doubleHeight bool
}

// wrapLines greedily word-wraps s to the given column width. Words
// longer than the width stay on a single overlong line.
func wrapLines(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	return strings.Split(wordwrap.WrapString(s, uint(width)), "\n")
}

// listPrefix returns the marker for ListItem; continuation lines indent
// to the marker width.
func listPrefix(checkbox bool) string {
	if checkbox {
		return "[ ] "
	}
	return "- "
}
