package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type GoogleCalendarProvider struct {
	service *calendar.Service
}

func NewGoogleCalendarProvider(ctx context.Context, client *http.Client) (*GoogleCalendarProvider, error) {
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleCalendarProvider{service: service}, nil
}

func (g *GoogleCalendarProvider) AddEvent(ctx context.Context, calendarID string, event *Event) (string, error) {
	googleEvent := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.TimeZone,
		},
	}

	createdEvent, err := g.service.Events.Insert(calendarID, googleEvent).Context(ctx).Do()
	if err != nil {
		return "", sinkError("insert event", err)
	}

	return createdEvent.Id, nil
}

func (g *GoogleCalendarProvider) DeleteEvent(ctx context.Context, calendarID string, eventID string) error {
	err := g.service.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return sinkError("delete event", err)
	}
	return nil
}

func (g *GoogleCalendarProvider) ListEvents(ctx context.Context, calendarID string, opts ListOptions) ([]SinkEvent, error) {
	call := g.service.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime")
	if opts.MaxResults > 0 {
		call = call.MaxResults(opts.MaxResults)
	}
	if !opts.TimeMin.IsZero() {
		call = call.TimeMin(opts.TimeMin.Format(time.RFC3339))
	}

	events, err := call.Context(ctx).Do()
	if err != nil {
		return nil, sinkError("list events", err)
	}

	result := make([]SinkEvent, 0, len(events.Items))
	for _, item := range events.Items {
		var date string
		if item.Start != nil {
			date = item.Start.DateTime
			if date == "" {
				date = item.Start.Date
			}
		}
		result = append(result, SinkEvent{
			ID:   item.Id,
			Name: item.Summary,
			Date: date,
		})
	}

	return result, nil
}
