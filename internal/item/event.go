package item

import "time"

// StartOfDay combines the calendar date of d with midnight in loc. It is
// the normalization entry point providers use to turn date-only backend
// values into comparable timestamps. A nil loc means the local zone.
func StartOfDay(d time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	d = d.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay combines the calendar date of d with the last representable
// instant of that day in loc. A nil loc means the local zone.
func EndOfDay(d time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	d = d.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// SameDate reports whether a and b fall on the same calendar date, as
// seen from b's time zone.
func SameDate(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NewEvent builds an event item from raw, unclamped backend timestamps,
// normalized against the current wall clock. See NewEventAt.
func NewEvent(name string, start, end time.Time, allDay bool, priority Priority, tags []string) *Item {
	return NewEventAt(time.Now(), name, start, end, allDay, priority, tags)
}

// NewEventAt builds an event item as seen from the day containing now.
// The renderer only ever displays a single day, so endpoints falling
// outside that day are clamped to its bounds: a start before the day
// becomes midnight, an end after it becomes the end of the day. An event
// whose raw start and end both miss the day entirely spans it, which
// makes it all-day from that day's perspective regardless of the allDay
// argument.
func NewEventAt(now time.Time, name string, start, end time.Time, allDay bool, priority Priority, tags []string) *Item {
	loc := now.Location()

	startToday := SameDate(start, now)
	endToday := SameDate(end, now)

	it := &Item{
		Kind:     KindEvent,
		Name:     name,
		Priority: priority,
		Tags:     tags,
		AllDay:   allDay || (!startToday && !endToday),
	}

	if startToday {
		it.Start = start.In(loc)
	} else {
		it.Start = StartOfDay(now, loc)
	}
	if endToday {
		it.End = end.In(loc)
	} else {
		it.End = EndOfDay(now, loc)
	}

	return it
}
