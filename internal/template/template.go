// Package template turns a bucket of items into printer calls. A
// template is the only extension point for alternative agenda layouts:
// any routine with the Func signature can be registered and selected by
// name from the configuration.
package template

import (
	"time"

	"zettel/internal/item"
	"zettel/internal/printer"
)

// Options carries the render parameters shared by all templates.
type Options struct {
	// Now is the reference instant the agenda is rendered for; zero
	// means the current wall clock. Its location is the display zone.
	Now time.Time

	// Locale is the BCP 47 key for translated strings and formats.
	Locale string

	// HighlightTags lists tags whose items render highlighted.
	HighlightTags []string
}

// Func renders the items in the bucket onto the printer. Templates
// consume the bucket destructively; rendering and write errors
// propagate unmodified.
type Func func(bucket *item.Bucket[*item.Item], p printer.Printer, opts Options) error

var registry = map[string]Func{
	"default": Default,
}

// Lookup resolves a template by name; the empty name means "default".
func Lookup(name string) (Func, bool) {
	if name == "" {
		name = "default"
	}
	f, ok := registry[name]
	return f, ok
}
