package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"zettel/internal/item"
	appLog "zettel/internal/log"
)

// ICS fetches an iCalendar feed and yields today's events. Timestamps
// are handed to the item layer raw; only date-only values are combined
// with day bounds here, since the wire format has no time to preserve.
type ICS struct {
	name    string
	url     string
	fetcher *feedFetcher
	loc     *time.Location
	now     func() time.Time
}

// NewICS builds an ICS provider. cacheDir may be empty for the default
// cache location; loc nil means the local zone.
func NewICS(name, url, cacheDir string, loc *time.Location) (*ICS, error) {
	if url == "" {
		return nil, errors.New("provider: ics feed URL is required")
	}
	if name == "" {
		name = "ics"
	}
	if loc == nil {
		loc = time.Local
	}
	return &ICS{
		name:    name,
		url:     url,
		fetcher: newFeedFetcher(cacheDir),
		loc:     loc,
		now:     time.Now,
	}, nil
}

func (p *ICS) Name() string { return p.name }

func (p *ICS) Fetch(ctx context.Context) ([]*item.Item, error) {
	body, fromCache, err := p.fetcher.fetch(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", p.name, err)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("provider %s: parse calendar: %w", p.name, err)
	}

	now := p.now().In(p.loc)
	dayStart := item.StartOfDay(now, p.loc)
	dayEnd := item.EndOfDay(now, p.loc)

	var items []*item.Item
	for _, ve := range cal.Events() {
		ev, perr := p.parseVEvent(ve)
		if perr != nil {
			// Skip the broken event but keep the rest of the feed.
			appLog.Error("ics vevent parse failed", perr, "provider", p.name, "url", redactURL(p.url))
			continue
		}
		// The agenda shows a single day; drop everything else.
		if ev.end.Before(dayStart) || ev.start.After(dayEnd) {
			continue
		}
		items = append(items, item.NewEventAt(now, ev.summary, ev.start, ev.end, ev.allDay, ev.priority, ev.tags))
	}

	appLog.Debug("ics feed parsed", "provider", p.name, "from_cache", fromCache, "event_count", len(items))
	return items, nil
}

type parsedEvent struct {
	summary  string
	start    time.Time
	end      time.Time
	allDay   bool
	priority item.Priority
	tags     []string
}

func (p *ICS) parseVEvent(ve *ical.VEvent) (parsedEvent, error) {
	var out parsedEvent

	sum := ve.GetProperty(ical.ComponentPropertySummary)
	if sum == nil || sum.Value == "" {
		return out, errors.New("missing SUMMARY")
	}
	out.summary = sum.Value
	out.allDay = isAllDay(ve)

	if out.allDay {
		dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
		if dtStart == nil {
			return out, errors.New("missing DTSTART")
		}
		start, err := parseDate(dtStart.Value, p.loc)
		if err != nil {
			return out, fmt.Errorf("invalid DTSTART: %w", err)
		}
		out.start = start
		out.end = item.EndOfDay(start, p.loc)

		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			end, err := parseDate(dtEnd.Value, p.loc)
			if err != nil {
				return out, fmt.Errorf("invalid DTEND: %w", err)
			}
			// DTEND is exclusive for date-only events: a one-day event
			// ends on the following date.
			out.end = item.EndOfDay(end.AddDate(0, 0, -1), p.loc)
		}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return out, fmt.Errorf("invalid DTSTART: %w", err)
		}
		out.start = start

		if end, err := ve.GetEndAt(); err == nil {
			out.end = end
		} else {
			out.end = start
		}
	}

	// RFC 5545 PRIORITY: 1 is highest. Values past 3 carry no useful
	// signal across calendar servers and map to no priority.
	if prop := ve.GetProperty(ical.ComponentProperty("PRIORITY")); prop != nil {
		switch strings.TrimSpace(prop.Value) {
		case "1":
			out.priority = item.PriorityHigh
		case "2":
			out.priority = item.PriorityMedium
		case "3":
			out.priority = item.PriorityLow
		}
	}

	if prop := ve.GetProperty(ical.ComponentProperty("CATEGORIES")); prop != nil {
		for _, tag := range strings.Split(prop.Value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				out.tags = append(out.tags, tag)
			}
		}
	}

	return out, nil
}

// isAllDay detects date-only events via VALUE=DATE or a value without a
// time component.
func isAllDay(ve *ical.VEvent) bool {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return false
	}
	if params := dtStart.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(dtStart.Value, "T")
}

// parseDate parses a date-only ICS value (20060102) as midnight in loc.
func parseDate(v string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("20060102", strings.TrimSpace(v), loc)
}
