package template

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"zettel/internal/item"
)

// recorder captures printer calls as readable strings so tests can
// assert on section order without a real device.
type recorder struct {
	calls  []string
	failOn string
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	if r.failOn != "" && strings.HasPrefix(call, r.failOn) {
		return errors.New("device gone")
	}
	return nil
}

func (r *recorder) Text(s, prefix string) error {
	return r.record(fmt.Sprintf("text(%q, %q)", s, prefix))
}

func (r *recorder) Blank() error { return r.record("blank") }

func (r *recorder) Heading(s string, large bool) error {
	size := "small"
	if large {
		size = "large"
	}
	return r.record(fmt.Sprintf("heading(%q, %s)", s, size))
}

func (r *recorder) ListItem(s string, checkbox bool) error {
	marker := "plain"
	if checkbox {
		marker = "checkbox"
	}
	return r.record(fmt.Sprintf("item(%q, %s)", s, marker))
}

func (r *recorder) scope(name string, body func() error) error {
	if err := r.record(name + "{"); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return r.record("}" + name)
}

func (r *recorder) Center(body func() error) error    { return r.scope("center", body) }
func (r *recorder) Bold(body func() error) error      { return r.scope("bold", body) }
func (r *recorder) Underline(body func() error) error { return r.scope("underline", body) }
func (r *recorder) Highlight(body func() error) error { return r.scope("highlight", body) }
func (r *recorder) Close() error                      { return r.record("close") }

func (r *recorder) index(t *testing.T, call string) int {
	t.Helper()
	for i, c := range r.calls {
		if c == call {
			return i
		}
	}
	t.Fatalf("call %q not rendered, got:\n%s", call, strings.Join(r.calls, "\n"))
	return -1
}

func (r *recorder) contains(call string) bool {
	for _, c := range r.calls {
		if c == call {
			return true
		}
	}
	return false
}

var renderNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

func task(name string, p item.Priority, due time.Time) *item.Item {
	return item.NewTask(name, p, nil, due)
}

func TestDefaultTaskOrdering(t *testing.T) {
	yesterday := renderNow.AddDate(0, 0, -1)
	tomorrow := renderNow.AddDate(0, 0, 1)

	bucket := &item.Bucket[*item.Item]{}
	bucket.Add(task("walk the dog", item.PriorityLow, tomorrow))
	bucket.Add(task("pay rent", item.PriorityHigh, yesterday))
	bucket.Add(task("file report", item.PriorityHigh, renderNow))

	r := &recorder{}
	if err := Default(bucket, r, Options{Now: renderNow}); err != nil {
		t.Fatalf("render: %v", err)
	}

	rent := r.index(t, `item("pay rent", plain)`)
	report := r.index(t, `item("file report", plain)`)
	dog := r.index(t, `item("walk the dog", plain)`)
	if !(rent < report && report < dog) {
		t.Errorf("wrong task order:\n%s", strings.Join(r.calls, "\n"))
	}
}

func TestDefaultRendersSectionsInOrder(t *testing.T) {
	bucket := &item.Bucket[*item.Item]{}
	bucket.Add(task("overdue one", item.PriorityNone, renderNow.AddDate(0, 0, -3)))
	bucket.Add(task("today one", item.PriorityNone, renderNow))
	bucket.Add(task("next week", item.PriorityNone, renderNow.AddDate(0, 0, 7)))

	r := &recorder{}
	if err := Default(bucket, r, Options{Now: renderNow}); err != nil {
		t.Fatalf("render: %v", err)
	}

	todo := r.index(t, `heading("ToDo", large)`)
	overdueHead := r.index(t, `heading("Overdue", small)`)
	overdue := r.index(t, `item("overdue one", plain)`)
	todayHead := r.index(t, `heading("Due today", small)`)
	today := r.index(t, `item("today one", plain)`)
	future := r.index(t, `item("next week", plain)`)

	if !(todo < overdueHead && overdueHead < overdue &&
		overdue < todayHead && todayHead < today && today < future) {
		t.Errorf("sections out of order:\n%s", strings.Join(r.calls, "\n"))
	}
	if !bucket.Empty() {
		t.Errorf("bucket must be drained after rendering, %d left", bucket.Len())
	}
}

func TestDefaultOmitsEmptySections(t *testing.T) {
	bucket := &item.Bucket[*item.Item]{}
	bucket.Add(task("someday", item.PriorityNone, time.Time{}))

	r := &recorder{}
	if err := Default(bucket, r, Options{Now: renderNow}); err != nil {
		t.Fatalf("render: %v", err)
	}

	if r.contains(`heading("Overdue", small)`) || r.contains(`heading("Due today", small)`) {
		t.Errorf("empty sections must be omitted:\n%s", strings.Join(r.calls, "\n"))
	}
	r.index(t, `item("someday", plain)`)
}

func TestDefaultOmitsTodoForEventOnlyBucket(t *testing.T) {
	bucket := &item.Bucket[*item.Item]{}
	bucket.Add(item.NewEventAt(renderNow, "standup",
		renderNow, renderNow.Add(15*time.Minute), false, item.PriorityNone, nil))

	r := &recorder{}
	if err := Default(bucket, r, Options{Now: renderNow}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if r.contains(`heading("ToDo", large)`) {
		t.Errorf("ToDo heading must not appear without tasks:\n%s", strings.Join(r.calls, "\n"))
	}
}

func TestDefaultEventLayout(t *testing.T) {
	later := item.NewEventAt(renderNow, "retro",
		renderNow.Add(2*time.Hour), renderNow.Add(3*time.Hour), false, item.PriorityNone, nil)
	earlier := item.NewEventAt(renderNow, "standup",
		renderNow.Add(-3*time.Hour), renderNow.Add(-2*time.Hour), false, item.PriorityNone, nil)
	holiday := item.NewEventAt(renderNow, "holiday",
		renderNow, renderNow, true, item.PriorityNone, nil)

	bucket := &item.Bucket[*item.Item]{}
	bucket.Add(later)
	bucket.Add(earlier)
	bucket.Add(holiday)

	r := &recorder{}
	if err := Default(bucket, r, Options{Now: renderNow}); err != nil {
		t.Fatalf("render: %v", err)
	}

	allDayHead := r.index(t, `heading("All day", small)`)
	allDay := r.index(t, `item("holiday", plain)`)
	standup := r.index(t, `text("standup", "09:00-10:00 ")`)
	retro := r.index(t, `text("retro", "14:00-15:00 ")`)
	if !(allDayHead < allDay && allDay < standup && standup < retro) {
		t.Errorf("event layout wrong:\n%s", strings.Join(r.calls, "\n"))
	}
}

func TestDefaultHeaderIsCenteredAndLocalized(t *testing.T) {
	bucket := &item.Bucket[*item.Item]{}
	bucket.Add(task("Steuererklärung", item.PriorityNone, time.Time{}))

	r := &recorder{}
	if err := Default(bucket, r, Options{Now: renderNow, Locale: "de-AT"}); err != nil {
		t.Fatalf("render: %v", err)
	}

	if r.calls[0] != "center{" {
		t.Errorf("header must open a center scope, got %q", r.calls[0])
	}
	r.index(t, `text("28.08.2026 12:00", "")`)
	r.index(t, `heading("Aufgaben", large)`)
}

func TestDefaultHighlightsTaggedItems(t *testing.T) {
	bucket := &item.Bucket[*item.Item]{}
	bucket.Add(item.NewTask("release", item.PriorityHigh, []string{"work"}, renderNow))
	bucket.Add(task("groceries", item.PriorityLow, renderNow))

	r := &recorder{}
	opts := Options{Now: renderNow, HighlightTags: []string{"work"}}
	if err := Default(bucket, r, opts); err != nil {
		t.Fatalf("render: %v", err)
	}

	release := r.index(t, `item("release", plain)`)
	if release == 0 || r.calls[release-1] != "highlight{" || r.calls[release+1] != "}highlight" {
		t.Errorf("tagged item must render inside a highlight scope:\n%s",
			strings.Join(r.calls, "\n"))
	}
	groceries := r.index(t, `item("groceries", plain)`)
	if r.calls[groceries-1] == "highlight{" {
		t.Errorf("untagged item must not be highlighted")
	}
}

func TestDefaultPropagatesWriteErrors(t *testing.T) {
	bucket := &item.Bucket[*item.Item]{}
	bucket.Add(task("doomed", item.PriorityNone, time.Time{}))

	r := &recorder{failOn: `heading("ToDo"`}
	if err := Default(bucket, r, Options{Now: renderNow}); err == nil {
		t.Fatalf("write error must propagate")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup(""); !ok {
		t.Errorf("empty name must resolve to the default template")
	}
	if _, ok := Lookup("default"); !ok {
		t.Errorf("default template missing")
	}
	if _, ok := Lookup("nope"); ok {
		t.Errorf("unknown template must not resolve")
	}
}
