package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

const caldavProductID = "-//bobuk//notion2gcal//EN"

var openRangeEnd = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

type CalDAVProvider struct {
	client    *caldav.Client
	serverURL string
}

func NewCalDAVProvider(ctx context.Context, serverURL, username, password string) (*CalDAVProvider, error) {
	baseURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CalDAV server URL: %w", err)
	}

	var httpClient webdav.HTTPClient = http.DefaultClient
	if username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, username, password)
	}

	c, err := caldav.NewClient(httpClient, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	return &CalDAVProvider{
		client:    c,
		serverURL: serverURL,
	}, nil
}

// calendarPath accepts either a full calendar URL or a bare path.
func calendarPath(calendarID string) (string, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return "", &SyncError{Kind: KindConfig, Op: "parse calendar URL", Err: err}
	}
	return strings.TrimRight(calURL.Path, "/"), nil
}

func (c *CalDAVProvider) AddEvent(ctx context.Context, calendarID string, event *Event) (string, error) {
	path, err := calendarPath(calendarID)
	if err != nil {
		return "", err
	}

	eventUID := "notion2gcal-" + uuid.New().String()

	icalEvent := ical.NewEvent()
	icalEvent.Props.SetText(ical.PropUID, eventUID)
	icalEvent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	icalEvent.Props.SetText(ical.PropSummary, event.Summary)
	if event.Description != "" {
		icalEvent.Props.SetText(ical.PropDescription, event.Description)
	}
	icalEvent.Props.SetDateTime(ical.PropDateTimeStart, event.Start.UTC())
	icalEvent.Props.SetDateTime(ical.PropDateTimeEnd, event.End.UTC())
	icalEvent.Props.SetText(ical.PropStatus, "CONFIRMED")

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, caldavProductID)
	cal.Children = append(cal.Children, icalEvent.Component)

	obj, err := c.client.PutCalendarObject(ctx, path+"/"+eventUID+".ics", cal)
	if err != nil {
		return "", sinkError("insert event", err)
	}

	return obj.Path, nil
}

// DeleteEvent removes the object at eventID, which is the object path
// reported by ListEvents. A bare name is resolved inside the calendar.
func (c *CalDAVProvider) DeleteEvent(ctx context.Context, calendarID string, eventID string) error {
	objectPath := eventID
	if !strings.HasPrefix(eventID, "/") {
		path, err := calendarPath(calendarID)
		if err != nil {
			return err
		}
		objectPath = path + "/" + eventID
	}

	// caldav.Client embeds the webdav client, which owns resource removal.
	if err := c.client.Client.RemoveAll(ctx, objectPath); err != nil {
		return sinkError("delete event", err)
	}
	return nil
}

// ListEvents queries VEVENTs, then sorts by start and caps the result, since
// CalDAV has no server-side ordering or limit.
func (c *CalDAVProvider) ListEvents(ctx context.Context, calendarID string, opts ListOptions) ([]SinkEvent, error) {
	path, err := calendarPath(calendarID)
	if err != nil {
		return nil, err
	}

	eventFilter := caldav.CompFilter{Name: ical.CompEvent}
	if !opts.TimeMin.IsZero() {
		// Some servers read a zero End as an empty range.
		eventFilter.Start = opts.TimeMin
		eventFilter.End = openRangeEnd
	}
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     ical.CompCalendar,
			AllProps: true,
			AllComps: true,
		},
		CompFilter: caldav.CompFilter{
			Name:  ical.CompCalendar,
			Comps: []caldav.CompFilter{eventFilter},
		},
	}

	objects, err := c.client.QueryCalendar(ctx, path, query)
	if err != nil {
		return nil, sinkError("list events", err)
	}

	type dated struct {
		event SinkEvent
		start time.Time
	}
	var found []dated
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, comp := range obj.Data.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			start, date := caldavStart(comp)
			found = append(found, dated{
				event: SinkEvent{
					ID:   obj.Path,
					Name: getTextProp(comp.Props, ical.PropSummary),
					Date: date,
				},
				start: start,
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].start.Before(found[j].start) })
	if opts.MaxResults > 0 && int64(len(found)) > opts.MaxResults {
		found = found[:opts.MaxResults]
	}

	result := make([]SinkEvent, 0, len(found))
	for _, f := range found {
		result = append(result, f.event)
	}
	return result, nil
}

// caldavStart returns DTSTART both parsed and in the string form the
// reconciler expects. All-day values are eight digits (VALUE=DATE).
func caldavStart(comp *ical.Component) (time.Time, string) {
	prop := comp.Props.Get(ical.PropDateTimeStart)
	if prop == nil {
		return time.Time{}, ""
	}
	start, err := comp.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	if err != nil {
		return time.Time{}, prop.Value
	}
	if len(prop.Value) == len("20060102") {
		return start, start.Format(dateLayout)
	}
	return start, start.Format(time.RFC3339)
}

func getTextProp(props ical.Props, name string) string {
	prop := props.Get(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}
