package availability

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"stayflow/models"
	"stayflow/utils"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// Fetcher retrieves remote calendar feeds and reduces them to occupied date
// intervals. Each source is independent: one unreachable or malformed feed
// never fails the whole query, it is logged and excluded (which means a
// down source silently hides its bookings until it recovers).
type Fetcher struct {
	client *http.Client
}

// FetchOutcome aggregates one availability query's worth of remote sources.
type FetchOutcome struct {
	Intervals      []models.Interval
	SourcesChecked int
	SourcesFailed  int
}

// NewFetcher creates a Fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchAll retrieves every source concurrently and returns once each one
// has either produced intervals or failed.
func (f *Fetcher) FetchAll(ctx context.Context, sources []string) FetchOutcome {
	logger := utils.GetLogger()

	type sourceResult struct {
		intervals []models.Interval
		err       error
	}

	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, url := range sources {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			body, err := f.fetchOne(ctx, url)
			if err != nil {
				results[i] = sourceResult{err: err}
				return
			}
			results[i] = sourceResult{intervals: parseIntervals(url, body)}
		}(i, url)
	}
	wg.Wait()

	out := FetchOutcome{SourcesChecked: len(sources)}
	for i, res := range results {
		if res.err != nil {
			out.SourcesFailed++
			logger.Warn("calendar source unreachable, excluding from query",
				zap.String("url", redactURL(sources[i])),
				zap.Error(res.err))
			continue
		}
		out.Intervals = append(out.Intervals, res.intervals...)
	}
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// parseIntervals extracts one interval per well-formed VEVENT. A malformed
// event is dropped with a warning; the rest of the feed still counts.
func parseIntervals(url string, body []byte) []models.Interval {
	logger := utils.GetLogger()

	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		logger.Warn("calendar feed failed to parse, excluding from query",
			zap.String("url", redactURL(url)), zap.Error(err))
		return nil
	}

	var intervals []models.Interval
	for _, ev := range cal.Events() {
		iv, err := eventInterval(ev)
		if err != nil {
			logger.Warn("skipping malformed calendar event",
				zap.String("url", redactURL(url)), zap.Error(err))
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

func eventInterval(ev *ics.VEvent) (models.Interval, error) {
	start, err := eventDate(ev, ics.ComponentPropertyDtStart)
	if err != nil {
		return models.Interval{}, err
	}
	end, err := eventDate(ev, ics.ComponentPropertyDtEnd)
	if err != nil {
		return models.Interval{}, err
	}
	return models.Interval{Start: start, End: end}, nil
}

func eventDate(ev *ics.VEvent, prop ics.ComponentProperty) (time.Time, error) {
	p := ev.GetProperty(prop)
	if p == nil || p.Value == "" {
		return time.Time{}, errors.New("event missing " + string(prop))
	}
	t, err := parseICSTime(p.Value)
	if err != nil {
		return time.Time{}, err
	}
	// Only the calendar date matters for whole-day occupancy.
	return models.DateOnly(t), nil
}

// parseICSTime parses a basic ICS date/date-time string.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20260301T090000Z
	if strings.HasSuffix(v, "Z") {
		const layout = "20060102T150405Z"
		return time.Parse(layout, v)
	}

	// Floating date-time, e.g., 20260301T090000
	if strings.Contains(v, "T") {
		const layout = "20060102T150405"
		return time.ParseInLocation(layout, v, time.UTC)
	}

	// Date-only (all-day), e.g., 20260301
	const layoutDate = "20060102"
	return time.ParseInLocation(layoutDate, v, time.UTC)
}

// redactURL hides path and query when logging feed URLs; OTA calendar links
// embed per-listing secrets.
func redactURL(u string) string {
	i := strings.Index(u, "://")
	if i < 0 {
		return "calendar://...(redacted)"
	}
	rest := u[i+3:]
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		return u[:i+3] + rest[:j] + "/...(redacted)"
	}
	return u
}
