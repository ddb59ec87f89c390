package main

import (
	"testing"
	"time"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2030-01-15", time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2030-01-15T09:00:00", time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC)},
		{"2030-01-15T09:00", time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC)},
		{"2030-01-15T09:00:00Z", time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC)},
		{"2030-01-15T09:00:00.000+02:00", time.Date(2030, 1, 15, 7, 0, 0, 0, time.UTC)},
		{"2030-01-15 09:30:00", time.Date(2030, 1, 15, 9, 30, 0, 0, time.UTC)},
		{" 2030-01-15 ", time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseEventDate(tt.in)
		if err != nil {
			t.Errorf("parseEventDate(%q) failed: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseEventDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseEventDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "No Date", "15/01/2030", "2030-13-01"} {
		_, err := parseEventDate(in)
		if err == nil {
			t.Errorf("parseEventDate(%q) should fail", in)
			continue
		}
		if kindOf(err) != KindMalformedDate {
			t.Errorf("parseEventDate(%q) kind = %q", in, kindOf(err))
		}
	}
}

func TestBeforeToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)
	tests := []struct {
		date string
		want bool
	}{
		{"2026-03-09T23:59:59Z", true},
		{"2026-03-09", true},
		{"2026-03-10", false},
		{"2026-03-10T00:00:00Z", false},
		{"2026-03-11", false},
		// The day as written counts, not the UTC instant.
		{"2026-03-10T01:00:00+05:00", false},
	}
	for _, tt := range tests {
		start, err := parseEventDate(tt.date)
		if err != nil {
			t.Fatalf("parseEventDate(%q): %v", tt.date, err)
		}
		if got := beforeToday(start, now); got != tt.want {
			t.Errorf("beforeToday(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestHasEventNamed(t *testing.T) {
	events := []SinkEvent{{Name: "Standup"}, {Name: "Retro "}}
	if !hasEventNamed(events, "Standup") {
		t.Error("exact match not found")
	}
	for _, name := range []string{"standup", "Retro", ""} {
		if hasEventNamed(events, name) {
			t.Errorf("%q should not match", name)
		}
	}
}
