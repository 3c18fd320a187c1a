package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stayflow/models"
	"stayflow/utils"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// Generator rebuilds a unit's public calendar feed from its ledger blocks.
// Every call is a full rebuild, never an incremental patch: the ledger is
// the single source of truth and the feed is a pure projection of it.
type Generator interface {
	Regenerate(unit models.Unit, blocks []models.ManualBlock) error
}

// DefaultGenerator writes one ICS file per unit under PublicDir.
type DefaultGenerator struct {
	PublicDir string
}

// Regenerate renders the unit's feed and atomically replaces the public
// file. Each block becomes one all-day VEVENT spanning [start, end) with
// the block's persisted uid, so an unchanged block renders as an unchanged
// calendar entry across regenerations.
func (g *DefaultGenerator) Regenerate(unit models.Unit, blocks []models.ManualBlock) error {
	logger := utils.GetLogger()

	body, err := Render(unit, blocks, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(g.PublicDir, 0o755); err != nil {
		return fmt.Errorf("create public dir: %w", err)
	}

	target := filepath.Join(g.PublicDir, FileName(unit.ID))
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("publish feed: %w", err)
	}

	logger.Debug("regenerated public feed",
		zap.String("unitID", unit.ID),
		zap.Int("blocks", len(blocks)),
		zap.String("file", target))
	return nil
}

// FileName is the public file name for a unit's block feed.
func FileName(unitID string) string {
	return unitID + "_blocks.ics"
}

// Render produces the ICS body for a unit's blocks. dtstamp is passed in so
// tests can pin it; uid and span come from the persisted block and are the
// only identity downstream calendar consumers care about.
func Render(unit models.Unit, blocks []models.ManualBlock, stamp time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetProductId("-//stayflow//block ledger//EN")
	cal.SetVersion("2.0")
	cal.SetXWRCalName("Manual blocks - " + unit.Name)

	for _, block := range blocks {
		iv, err := block.Interval()
		if err != nil {
			return "", fmt.Errorf("block %s has unparseable dates: %w", block.UID, err)
		}
		ev := cal.AddEvent(block.UID)
		ev.SetSummary("Blocked - " + unit.Name)
		ev.SetAllDayStartAt(iv.Start)
		ev.SetAllDayEndAt(iv.End)
		ev.SetDtStampTime(stamp)
	}

	return cal.Serialize(), nil
}
