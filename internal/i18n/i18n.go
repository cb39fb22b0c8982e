// Package i18n resolves a locale key to the translated strings and
// date/time layouts used by the agenda templates. Unknown or malformed
// keys fall back to English.
package i18n

import (
	"time"

	"golang.org/x/text/language"
)

// Locale bundles everything a template needs to render for one
// language.
type Locale struct {
	tag        language.Tag
	messages   map[string]string
	dateLayout string
	timeLayout string
}

var english = &Locale{
	tag: language.English,
	messages: map[string]string{
		"todo":      "ToDo",
		"overdue":   "Overdue",
		"due_today": "Due today",
		"all_day":   "All day",
	},
	dateLayout: "Mon, 01/02/2006",
	timeLayout: "15:04",
}

var german = &Locale{
	tag: language.German,
	messages: map[string]string{
		"todo":      "Aufgaben",
		"overdue":   "Überfällig",
		"due_today": "Heute fällig",
		"all_day":   "Ganztägig",
	},
	dateLayout: "02.01.2006",
	timeLayout: "15:04",
}

var supported = []*Locale{english, german}

var matcher language.Matcher

func init() {
	tags := make([]language.Tag, len(supported))
	for i, l := range supported {
		tags[i] = l.tag
	}
	matcher = language.NewMatcher(tags)
}

// Resolve picks the best supported locale for a BCP 47 key, e.g. "de"
// or "de-AT". Malformed or unsupported keys resolve to English.
func Resolve(key string) *Locale {
	tag, err := language.Parse(key)
	if err != nil {
		return english
	}
	_, index, _ := matcher.Match(tag)
	return supported[index]
}

// T looks up a translated message; unknown keys come back verbatim so a
// missing translation never breaks a render pass.
func (l *Locale) T(key string) string {
	if s, ok := l.messages[key]; ok {
		return s
	}
	return key
}

// FormatDate renders the calendar date of t for this locale.
func (l *Locale) FormatDate(t time.Time) string {
	return t.Format(l.dateLayout)
}

// FormatTime renders the time of day of t for this locale.
func (l *Locale) FormatTime(t time.Time) string {
	return t.Format(l.timeLayout)
}

// FormatDateTime renders date and time, used for the agenda header.
func (l *Locale) FormatDateTime(t time.Time) string {
	return t.Format(l.dateLayout + " " + l.timeLayout)
}
