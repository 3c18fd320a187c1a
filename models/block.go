package models

import "time"

// ManualBlock is one manually-created unavailability entry in a unit's
// ledger. The UID is generated once at creation and never changes; feed
// regeneration reuses it so external calendar consumers recognize unchanged
// blocks instead of treating every regeneration as a new event.
type ManualBlock struct {
	UnitID    string    `bson:"unit_id" json:"unit_id"`
	Start     string    `bson:"start" json:"start"` // check-in date, YYYY-MM-DD
	End       string    `bson:"end" json:"end"`     // checkout date (exclusive), YYYY-MM-DD
	UID       string    `bson:"uid" json:"uid"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Interval returns the block's date range. Blocks are validated at creation,
// so a stored block always parses.
func (b ManualBlock) Interval() (Interval, error) {
	start, err := ParseDate(b.Start)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseDate(b.End)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}
