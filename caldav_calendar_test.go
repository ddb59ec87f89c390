package main

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/go-cmp/cmp"
)

func TestCalDAVStart(t *testing.T) {
	allDay := ical.NewComponent(ical.CompEvent)
	allDay.Props.SetDate(ical.PropDateTimeStart, time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC))
	if _, got := caldavStart(allDay); got != "2030-02-01" {
		t.Errorf("all-day start = %q", got)
	}

	timed := ical.NewComponent(ical.CompEvent)
	timed.Props.SetDateTime(ical.PropDateTimeStart, time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC))
	start, got := caldavStart(timed)
	if got != "2030-01-15T09:00:00Z" || !start.Equal(time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("timed start = %q (%v)", got, start)
	}

	if _, got := caldavStart(ical.NewComponent(ical.CompEvent)); got != "" {
		t.Errorf("missing start = %q", got)
	}
}

func TestCalendarPath(t *testing.T) {
	tests := map[string]string{
		"https://dav.example.com/calendars/me/work/": "/calendars/me/work",
		"/calendars/me/work":                         "/calendars/me/work",
	}
	for in, want := range tests {
		got, err := calendarPath(in)
		if err != nil {
			t.Errorf("calendarPath(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("calendarPath(%q) = %q, want %q", in, got, want)
		}
	}
}

// fakeCalDAVServer serves one calendar at /cal/ whose single object lives at
// an href that differs from its UID.
type fakeCalDAVServer struct {
	reportBody string
	deleted    []string
	put        []string
}

const foreignObject = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Example//Other Client//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:some-other-uid@example.com\r\n" +
	"DTSTAMP:20260301T000000Z\r\n" +
	"SUMMARY:Dentist\r\n" +
	"DTSTART:20260301T090000Z\r\n" +
	"DTEND:20260301T100000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func (f *fakeCalDAVServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "REPORT":
		body, _ := io.ReadAll(r.Body)
		f.reportBody = string(body)
		var escaped bytes.Buffer
		xml.EscapeText(&escaped, []byte(foreignObject))
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(http.StatusMultiStatus)
		fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?>
<d:multistatus xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:response>
    <d:href>/cal/abc-123.ics</d:href>
    <d:propstat>
      <d:prop>
        <d:getetag>"1"</d:getetag>
        <c:calendar-data>%s</c:calendar-data>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`, escaped.String())
	case http.MethodDelete:
		f.deleted = append(f.deleted, r.URL.Path)
		if r.URL.Path != "/cal/abc-123.ics" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPut:
		f.put = append(f.put, r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestCalDAVProvider(t *testing.T) (*CalDAVProvider, *fakeCalDAVServer, string) {
	t.Helper()
	server := &fakeCalDAVServer{}
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	provider, err := NewCalDAVProvider(context.Background(), ts.URL, "", "")
	if err != nil {
		t.Fatalf("NewCalDAVProvider: %v", err)
	}
	return provider, server, ts.URL + "/cal/"
}

func TestCalDAVDeletesListedObjectByHref(t *testing.T) {
	provider, server, calendarID := newTestCalDAVProvider(t)
	ctx := context.Background()

	events, err := provider.ListEvents(ctx, calendarID, ListOptions{MaxResults: 50})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	want := []SinkEvent{{ID: "/cal/abc-123.ics", Name: "Dentist", Date: "2026-03-01T09:00:00Z"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	if err := provider.DeleteEvent(ctx, calendarID, events[0].ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if diff := cmp.Diff([]string{"/cal/abc-123.ics"}, server.deleted); diff != "" {
		t.Errorf("deleted paths mismatch (-want +got):\n%s", diff)
	}
}

func TestCalDAVAddEventReturnsObjectPath(t *testing.T) {
	provider, server, calendarID := newTestCalDAVProvider(t)

	id, err := provider.AddEvent(context.Background(), calendarID, newMirrorEvent("Standup", time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	if len(server.put) != 1 || server.put[0] != id {
		t.Errorf("AddEvent returned %q, object written to %v", id, server.put)
	}
	if !strings.HasPrefix(id, "/cal/notion2gcal-") || !strings.HasSuffix(id, ".ics") {
		t.Errorf("unexpected object path %q", id)
	}
}

func TestCalDAVLookbackSendsBoundedRange(t *testing.T) {
	provider, server, calendarID := newTestCalDAVProvider(t)

	_, err := provider.ListEvents(context.Background(), calendarID, ListOptions{
		TimeMin: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if !strings.Contains(server.reportBody, `start="20260303T000000Z"`) {
		t.Errorf("time-range start missing from query:\n%s", server.reportBody)
	}
	if !strings.Contains(server.reportBody, `end="99991231T235959Z"`) {
		t.Errorf("time-range end should be open-ended:\n%s", server.reportBody)
	}
	if strings.Contains(server.reportBody, "00010101") {
		t.Errorf("zero time sent on the wire:\n%s", server.reportBody)
	}
}
