package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for all calendar dates handled by the service.
const DateLayout = "2006-01-02"

// Interval is a half-open date range [Start, End). End is the checkout day
// and is excluded, so a checkout day and the next check-in day may coincide
// without conflict.
type Interval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Overlaps reports whether iv and other occupy at least one night in common.
// Touching boundaries (iv.End == other.Start) never overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s to %s", iv.Start.Format(DateLayout), iv.End.Format(DateLayout))
}

// MarshalJSON renders both bounds as plain YYYY-MM-DD dates.
func (iv Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{
		Start: iv.Start.Format(DateLayout),
		End:   iv.End.Format(DateLayout),
	})
}

// UnmarshalJSON accepts the same YYYY-MM-DD form produced by MarshalJSON.
func (iv *Interval) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := ParseDate(raw.Start)
	if err != nil {
		return err
	}
	end, err := ParseDate(raw.End)
	if err != nil {
		return err
	}
	iv.Start, iv.End = start, end
	return nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight timestamp.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// DateOnly truncates any timestamp to its UTC calendar date. Remote calendar
// feeds may carry times of day; only the date component is significant here.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
