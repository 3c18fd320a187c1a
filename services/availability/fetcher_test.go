package availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stayflow/models"
)

const goodFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//ota//booking//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:booking-1\r\n" +
	"DTSTAMP:20260201T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20260301\r\n" +
	"DTEND;VALUE=DATE:20260305\r\n" +
	"SUMMARY:Reserved\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:booking-2\r\n" +
	"DTSTAMP:20260201T000000Z\r\n" +
	"DTSTART:20260410T140000Z\r\n" +
	"DTEND:20260412T100000Z\r\n" +
	"SUMMARY:Reserved\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

// one event lacks DTEND: it must be skipped without poisoning the feed
const partlyMalformedFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//ota//booking//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:broken\r\n" +
	"DTSTAMP:20260201T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20260601\r\n" +
	"SUMMARY:Missing end\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:ok\r\n" +
	"DTSTAMP:20260201T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20260710\r\n" +
	"DTEND;VALUE=DATE:20260712\r\n" +
	"SUMMARY:Reserved\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func icsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dateOf(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestFetchAllParsesEvents(t *testing.T) {
	srv := icsServer(t, goodFeed)
	f := NewFetcher(5 * time.Second)

	out := f.FetchAll(context.Background(), []string{srv.URL})
	if out.SourcesChecked != 1 || out.SourcesFailed != 0 {
		t.Fatalf("checked=%d failed=%d, want 1/0", out.SourcesChecked, out.SourcesFailed)
	}
	if len(out.Intervals) != 2 {
		t.Fatalf("got %d intervals, want 2: %v", len(out.Intervals), out.Intervals)
	}

	// First event is date-valued.
	if !out.Intervals[0].Start.Equal(dateOf(t, "2026-03-01")) || !out.Intervals[0].End.Equal(dateOf(t, "2026-03-05")) {
		t.Errorf("first interval = %v", out.Intervals[0])
	}
	// Second event carries times of day which must be discarded.
	if !out.Intervals[1].Start.Equal(dateOf(t, "2026-04-10")) || !out.Intervals[1].End.Equal(dateOf(t, "2026-04-12")) {
		t.Errorf("second interval = %v, time of day not discarded", out.Intervals[1])
	}
}

func TestFetchAllIsolatesFailingSource(t *testing.T) {
	good := icsServer(t, goodFeed)
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)

	f := NewFetcher(5 * time.Second)
	out := f.FetchAll(context.Background(), []string{good.URL, bad.URL, "http://127.0.0.1:1/unreachable.ics"})

	if out.SourcesChecked != 3 {
		t.Errorf("SourcesChecked = %d, want 3", out.SourcesChecked)
	}
	if out.SourcesFailed != 2 {
		t.Errorf("SourcesFailed = %d, want 2", out.SourcesFailed)
	}
	if len(out.Intervals) != 2 {
		t.Errorf("got %d intervals from surviving source, want 2", len(out.Intervals))
	}
}

func TestFetchAllSkipsMalformedEvents(t *testing.T) {
	srv := icsServer(t, partlyMalformedFeed)
	f := NewFetcher(5 * time.Second)

	out := f.FetchAll(context.Background(), []string{srv.URL})
	if out.SourcesFailed != 0 {
		t.Fatalf("SourcesFailed = %d, want 0", out.SourcesFailed)
	}
	if len(out.Intervals) != 1 {
		t.Fatalf("got %d intervals, want 1 (malformed event dropped)", len(out.Intervals))
	}
	if !out.Intervals[0].Start.Equal(dateOf(t, "2026-07-10")) {
		t.Errorf("surviving interval = %v", out.Intervals[0])
	}
}

func TestFetchAllWithNoSources(t *testing.T) {
	f := NewFetcher(time.Second)
	out := f.FetchAll(context.Background(), nil)
	if out.SourcesChecked != 0 || out.SourcesFailed != 0 || len(out.Intervals) != 0 {
		t.Errorf("empty fetch produced %+v", out)
	}
}
