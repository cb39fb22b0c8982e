package template

import (
	"time"

	"zettel/internal/i18n"
	"zettel/internal/item"
	"zettel/internal/printer"
)

// Default is the standard agenda layout: a centered date header, the
// all-day and timed events of the day, and the open tasks grouped into
// overdue, due today and everything else.
func Default(bucket *item.Bucket[*item.Item], p printer.Printer, opts Options) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	loc := i18n.Resolve(opts.Locale)

	if err := p.Center(func() error {
		if err := p.Text(loc.FormatDateTime(now), ""); err != nil {
			return err
		}
		return p.Blank()
	}); err != nil {
		return err
	}

	if err := renderEvents(bucket, p, loc, opts); err != nil {
		return err
	}
	return renderTasks(bucket, p, loc, opts, now)
}

func renderEvents(bucket *item.Bucket[*item.Item], p printer.Printer, loc *i18n.Locale, opts Options) error {
	allDay := bucket.Fetch(func(i *item.Item) bool { return i.IsEvent() && i.AllDay })
	timed := bucket.Fetch((*item.Item).IsEvent)

	if !allDay.Empty() {
		if err := p.Heading(loc.T("all_day"), false); err != nil {
			return err
		}
		for _, ev := range allDay.Items() {
			if err := emphasized(p, ev, opts, func() error {
				return p.ListItem(ev.Name, false)
			}); err != nil {
				return err
			}
		}
		if err := p.Blank(); err != nil {
			return err
		}
	}

	if timed.Empty() {
		return nil
	}
	timed.SortStable(func(a, b *item.Item) bool { return a.Start.Before(b.Start) })
	for _, ev := range timed.Items() {
		// The time column doubles as the hanging indent for wrapped
		// event names.
		prefix := loc.FormatTime(ev.Start) + "-" + loc.FormatTime(ev.End) + " "
		if err := emphasized(p, ev, opts, func() error {
			return p.Text(ev.Name, prefix)
		}); err != nil {
			return err
		}
	}
	return p.Blank()
}

func renderTasks(bucket *item.Bucket[*item.Item], p printer.Printer, loc *i18n.Locale, opts Options, now time.Time) error {
	tasks := bucket.Fetch((*item.Item).IsTask)
	if tasks.Empty() {
		return nil
	}

	if err := p.Center(func() error {
		return p.Heading(loc.T("todo"), true)
	}); err != nil {
		return err
	}

	// Secondary key first: due date ascending, tasks without a due
	// date last. The stable priority pass afterwards keeps this order
	// within equal priorities.
	tasks.SortStable(func(a, b *item.Item) bool {
		switch {
		case a.Due.IsZero():
			return false
		case b.Due.IsZero():
			return true
		default:
			return a.Due.Before(b.Due)
		}
	})
	tasks.SortStable(func(a, b *item.Item) bool {
		return effectivePriority(a) > effectivePriority(b)
	})

	today := item.StartOfDay(now, now.Location())
	overdue := tasks.Fetch(func(i *item.Item) bool {
		return !i.Due.IsZero() && i.Due.Before(today)
	})
	dueToday := tasks.Fetch(func(i *item.Item) bool {
		return !i.Due.IsZero() && item.SameDate(i.Due, now)
	})

	if err := renderTaskSection(p, opts, overdue, loc.T("overdue")); err != nil {
		return err
	}
	if err := renderTaskSection(p, opts, dueToday, loc.T("due_today")); err != nil {
		return err
	}
	return renderTaskSection(p, opts, tasks, "")
}

// renderTaskSection prints one task group; an empty group omits itself,
// heading included.
func renderTaskSection(p printer.Printer, opts Options, tasks *item.Bucket[*item.Item], heading string) error {
	if tasks.Empty() {
		return nil
	}
	if heading != "" {
		if err := p.Heading(heading, false); err != nil {
			return err
		}
	}
	for _, t := range tasks.Items() {
		if err := emphasized(p, t, opts, func() error {
			return p.ListItem(t.Name, false)
		}); err != nil {
			return err
		}
	}
	return nil
}

// effectivePriority treats missing priorities as medium for ordering,
// so unprioritized work neither sinks nor floats.
func effectivePriority(i *item.Item) item.Priority {
	if i.Priority == item.PriorityNone {
		return item.PriorityMedium
	}
	return i.Priority
}

// emphasized runs body inside a highlight scope when the item carries
// one of the configured highlight tags.
func emphasized(p printer.Printer, it *item.Item, opts Options, body func() error) error {
	for _, tag := range opts.HighlightTags {
		if it.HasTag(tag) {
			return p.Highlight(body)
		}
	}
	return body()
}
