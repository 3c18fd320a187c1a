package availability

import (
	"context"
	"fmt"

	"stayflow/config"
	ledgerRepo "stayflow/database/repository/ledger"
	"stayflow/models"
	"stayflow/utils"

	"go.uber.org/zap"
)

// Service answers availability queries for configured units. A query is
// read-only and side-effect-free; it may be repeated without consequence.
type Service interface {
	Check(ctx context.Context, unitID, checkIn, checkOut string) (models.AvailabilityResult, error)
}

// DefaultAvailabilityService unions remote-calendar intervals with the
// manual-block ledger and tests the requested range against the union.
type DefaultAvailabilityService struct {
	Units   *config.UnitRegistry
	Fetcher *Fetcher
	Ledger  ledgerRepo.LedgerRepository
}

// Check validates the request, fans out to the unit's calendar sources,
// reads the ledger, and reports every conflicting interval.
func (s *DefaultAvailabilityService) Check(ctx context.Context, unitID, checkIn, checkOut string) (models.AvailabilityResult, error) {
	logger := utils.GetLogger()

	unit, ok := s.Units.Get(unitID)
	if !ok {
		return models.AvailabilityResult{}, ErrUnitNotFound
	}

	requested, err := parseRange(checkIn, checkOut)
	if err != nil {
		return models.AvailabilityResult{}, err
	}

	outcome := s.Fetcher.FetchAll(ctx, unit.Sources)

	occupied := outcome.Intervals
	blocks, err := s.Ledger.Blocks(ctx, unitID)
	if err != nil {
		return models.AvailabilityResult{}, fmt.Errorf("read block ledger: %w", err)
	}
	for _, block := range blocks {
		iv, err := block.Interval()
		if err != nil {
			// A stored block with bad dates should not exist; skip it
			// rather than failing the query.
			logger.Warn("skipping unparseable ledger block",
				zap.String("unitID", unitID), zap.String("uid", block.UID), zap.Error(err))
			continue
		}
		occupied = append(occupied, iv)
	}

	conflicts := []models.Interval{}
	for _, iv := range occupied {
		if requested.Overlaps(iv) {
			conflicts = append(conflicts, iv)
		}
	}

	result := models.AvailabilityResult{
		UnitID:         unitID,
		UnitName:       unit.Name,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Available:      len(conflicts) == 0,
		Conflicts:      conflicts,
		SourcesChecked: outcome.SourcesChecked,
		SourcesFailed:  outcome.SourcesFailed,
	}
	if result.Available {
		result.Reason = "Dates are free"
	} else {
		result.Reason = "Conflict with existing bookings"
	}
	return result, nil
}

func parseRange(checkIn, checkOut string) (models.Interval, error) {
	start, err := models.ParseDate(checkIn)
	if err != nil {
		return models.Interval{}, ErrInvalidRange
	}
	end, err := models.ParseDate(checkOut)
	if err != nil {
		return models.Interval{}, ErrInvalidRange
	}
	if !start.Before(end) {
		return models.Interval{}, ErrInvalidRange
	}
	return models.Interval{Start: start, End: end}, nil
}
