package main

import (
	"context"
	"time"
)

type CalendarProvider interface {
	ListEvents(ctx context.Context, calendarID string, opts ListOptions) ([]SinkEvent, error)
	AddEvent(ctx context.Context, calendarID string, event *Event) (string, error)
	DeleteEvent(ctx context.Context, calendarID string, eventID string) error
}

type ListOptions struct {
	MaxResults int64
	// TimeMin bounds the listing from below when set.
	TimeMin time.Time
}

type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}
