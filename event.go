package main

import (
	"fmt"
	"strings"
	"time"
)

const noName = "No Name"

// SourceEvent is one Notion row that carried a date.
type SourceEvent struct {
	Name string
	Date string
}

// SinkEvent is a calendar event as listed by a provider. Date is the raw
// start value: RFC 3339 for timed events, YYYY-MM-DD for all-day ones.
type SinkEvent struct {
	ID   string
	Name string
	Date string
}

const dateLayout = "2006-01-02"

// Layouts accepted for event dates, tried in order. Values without an offset
// are read as UTC.
var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	dateLayout,
}

func parseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &SyncError{Kind: KindMalformedDate, Op: "parse date", Err: fmt.Errorf("empty date")}
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &SyncError{Kind: KindMalformedDate, Op: "parse date", Err: fmt.Errorf("unrecognised date %q", value)}
}

// calendarDay drops the clock, keeping the day as written in t's own zone.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// beforeToday reports whether t falls on a day strictly before now's UTC day.
func beforeToday(t, now time.Time) bool {
	return calendarDay(t).Before(calendarDay(now.UTC()))
}

// hasEventNamed is the whole matching policy: exact, case-sensitive name equality.
func hasEventNamed(events []SinkEvent, name string) bool {
	for _, event := range events {
		if event.Name == name {
			return true
		}
	}
	return false
}

func sourceNames(events []SourceEvent) map[string]bool {
	names := make(map[string]bool, len(events))
	for _, event := range events {
		names[event.Name] = true
	}
	return names
}

// newMirrorEvent builds the one-hour UTC event inserted for a source row.
func newMirrorEvent(name string, start time.Time) *Event {
	start = start.UTC()
	return &Event{
		Summary:  name,
		Start:    start,
		End:      start.Add(time.Hour),
		TimeZone: "UTC",
	}
}
