// Package item defines the uniform model that all provider backends map
// their records onto: events with a time-of-day component, tasks with an
// optional due date, and the Bucket collection templates consume.
package item

import (
	"strings"
	"time"
)

// Priority is the abstract five-level priority scale. Backends carry their
// own priority representations (names, numbers, flags); providers map them
// onto this scale so that sorting stays backend-agnostic. The zero value
// means the backend supplied no usable priority.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityVeryLow
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityVeryHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityVeryLow:
		return "verylow"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityVeryHigh:
		return "veryhigh"
	default:
		return "none"
	}
}

// ParsePriority maps a priority name (as used in config files) onto the
// abstract scale. Unknown names resolve to PriorityNone, never an error.
func ParsePriority(name string) Priority {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verylow", "very-low", "lowest":
		return PriorityVeryLow
	case "low":
		return PriorityLow
	case "medium", "normal":
		return PriorityMedium
	case "high":
		return PriorityHigh
	case "veryhigh", "very-high", "highest":
		return PriorityVeryHigh
	default:
		return PriorityNone
	}
}

// Kind discriminates the item variants.
type Kind int

const (
	KindEvent Kind = iota + 1
	KindTask
)

// Item is a single agenda entry. The variant-specific fields are only
// meaningful for the matching Kind; everything else is shared. Items are
// constructed once per fetch cycle via NewEvent/NewTask and not mutated
// afterwards. They are passed around by pointer, so two items with equal
// fields remain distinct entries in a Bucket.
type Item struct {
	Kind     Kind
	Name     string
	Priority Priority
	Tags     []string

	// Event fields (KindEvent). Start and End are always expressed
	// relative to the reference day, see NewEventAt.
	Start  time.Time
	End    time.Time
	AllDay bool

	// Task fields (KindTask). A zero Due means the task has no due date.
	Due time.Time
}

func (i *Item) IsEvent() bool { return i.Kind == KindEvent }

func (i *Item) IsTask() bool { return i.Kind == KindTask }

// HasTag reports whether the item carries the given tag.
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NewTask builds a task item. due may be the zero time for tasks without
// a deadline; only its calendar date is meaningful.
func NewTask(name string, priority Priority, tags []string, due time.Time) *Item {
	return &Item{
		Kind:     KindTask,
		Name:     name,
		Priority: priority,
		Tags:     tags,
		Due:      due,
	}
}
