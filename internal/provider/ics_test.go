package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zettel/internal/item"
)

func icsBody(lines ...string) string {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//zettel//test//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR")
	return strings.Join(all, "\r\n") + "\r\n"
}

func serveICS(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestICS(t *testing.T, body string, now time.Time) *ICS {
	t.Helper()
	srv := serveICS(t, body)
	p, err := NewICS("test", srv.URL, t.TempDir(), time.UTC)
	if err != nil {
		t.Fatalf("NewICS: %v", err)
	}
	p.now = func() time.Time { return now }
	return p
}

func TestICSFetchFiltersAndNormalizes(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:standup@test",
		"DTSTAMP:20260828T000000Z",
		"DTSTART:20260828T090000Z",
		"DTEND:20260828T093000Z",
		"SUMMARY:Standup",
		"PRIORITY:1",
		"CATEGORIES:work,daily",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:holiday@test",
		"DTSTAMP:20260828T000000Z",
		"DTSTART;VALUE=DATE:20260828",
		"DTEND;VALUE=DATE:20260829",
		"SUMMARY:Holiday",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:conf@test",
		"DTSTAMP:20260828T000000Z",
		"DTSTART:20260826T080000Z",
		"DTEND:20260830T180000Z",
		"SUMMARY:Conference",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:gone@test",
		"DTSTAMP:20260828T000000Z",
		"DTSTART:20260827T090000Z",
		"DTEND:20260827T100000Z",
		"SUMMARY:Yesterday only",
		"END:VEVENT",
	)

	p := newTestICS(t, body, now)
	items, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 events, got %d", len(items))
	}

	byName := map[string]*item.Item{}
	for _, it := range items {
		if !it.IsEvent() {
			t.Errorf("%q is not an event", it.Name)
		}
		byName[it.Name] = it
	}
	if byName["Yesterday only"] != nil {
		t.Fatalf("event outside today not filtered")
	}

	standup := byName["Standup"]
	if standup == nil {
		t.Fatalf("Standup missing")
	}
	if standup.AllDay {
		t.Errorf("timed event flagged all-day")
	}
	if standup.Start.Hour() != 9 || standup.End.Minute() != 30 {
		t.Errorf("timestamps wrong: %v - %v", standup.Start, standup.End)
	}
	if standup.Priority != item.PriorityHigh {
		t.Errorf("PRIORITY:1 must map to high, got %v", standup.Priority)
	}
	if !standup.HasTag("work") || !standup.HasTag("daily") {
		t.Errorf("categories not mapped to tags: %v", standup.Tags)
	}

	holiday := byName["Holiday"]
	if holiday == nil || !holiday.AllDay {
		t.Fatalf("date-only event must be all-day: %+v", holiday)
	}
	if !holiday.Start.Equal(item.StartOfDay(now, time.UTC)) {
		t.Errorf("all-day start not at midnight: %v", holiday.Start)
	}
	if !holiday.End.Equal(item.EndOfDay(now, time.UTC)) {
		t.Errorf("exclusive DTEND not pulled back to today: %v", holiday.End)
	}

	conf := byName["Conference"]
	if conf == nil || !conf.AllDay {
		t.Fatalf("event spanning today must read as all-day: %+v", conf)
	}
	if !conf.Start.Equal(item.StartOfDay(now, time.UTC)) || !conf.End.Equal(item.EndOfDay(now, time.UTC)) {
		t.Errorf("spanning event not clamped: %v - %v", conf.Start, conf.End)
	}
}

func TestICSFetchSkipsBrokenEvents(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:broken@test",
		"DTSTAMP:20260828T000000Z",
		"DTSTART:20260828T090000Z",
		"END:VEVENT", // no SUMMARY
		"BEGIN:VEVENT",
		"UID:fine@test",
		"DTSTAMP:20260828T000000Z",
		"DTSTART:20260828T100000Z",
		"DTEND:20260828T110000Z",
		"SUMMARY:Fine",
		"END:VEVENT",
	)

	p := newTestICS(t, body, now)
	items, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Fine" {
		t.Fatalf("expected only the valid event, got %d items", len(items))
	}
}

func TestNewICSRequiresURL(t *testing.T) {
	if _, err := NewICS("x", "", "", nil); err == nil {
		t.Fatalf("expected error for missing URL")
	}
}
