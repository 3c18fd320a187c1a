package ledger

import (
	"context"
	"fmt"
	"time"

	"stayflow/config"
	ledgerRepo "stayflow/database/repository/ledger"
	"stayflow/models"
	"stayflow/services/feed"
	"stayflow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns the manual-block ledger. Every mutation persists the unit's
// whole sequence and synchronously regenerates the unit's public feed
// before returning, so the persisted ledger and the published feed are
// never observably out of sync.
type Service interface {
	Add(ctx context.Context, unitID, start, end string) (models.ManualBlock, error)
	Remove(ctx context.Context, unitID, start string) (bool, error)
	List(ctx context.Context, unitID string) ([]models.ManualBlock, error)
	RegenerateFeed(ctx context.Context, unitID string) error
}

// DefaultLedgerService serializes mutations per unit with a keyed mutex;
// cross-unit mutations run fully in parallel.
type DefaultLedgerService struct {
	Units *config.UnitRegistry
	Repo  ledgerRepo.LedgerRepository
	Feed  feed.Generator

	locks *unitLocks
}

func NewDefaultLedgerService(units *config.UnitRegistry, repo ledgerRepo.LedgerRepository, gen feed.Generator) *DefaultLedgerService {
	return &DefaultLedgerService{
		Units: units,
		Repo:  repo,
		Feed:  gen,
		locks: newUnitLocks(),
	}
}

// Add appends a block with a fresh uid, persists the ledger, and
// regenerates the unit's feed.
func (s *DefaultLedgerService) Add(ctx context.Context, unitID, start, end string) (models.ManualBlock, error) {
	unit, ok := s.Units.Get(unitID)
	if !ok {
		return models.ManualBlock{}, ErrUnitNotFound
	}
	startDate, err := models.ParseDate(start)
	if err != nil {
		return models.ManualBlock{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := models.ParseDate(end)
	if err != nil {
		return models.ManualBlock{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if !startDate.Before(endDate) {
		return models.ManualBlock{}, fmt.Errorf("start %s must be before end %s", start, end)
	}

	mu := s.locks.forUnit(unitID)
	mu.Lock()
	defer mu.Unlock()

	blocks, err := s.Repo.Blocks(ctx, unitID)
	if err != nil {
		return models.ManualBlock{}, fmt.Errorf("read ledger: %w", err)
	}

	block := models.ManualBlock{
		UnitID:    unitID,
		Start:     start,
		End:       end,
		UID:       uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	blocks = append(blocks, block)

	if err := s.Repo.SaveBlocks(ctx, unitID, blocks); err != nil {
		return models.ManualBlock{}, fmt.Errorf("persist ledger: %w", err)
	}
	if err := s.Feed.Regenerate(unit, blocks); err != nil {
		return models.ManualBlock{}, fmt.Errorf("regenerate feed: %w", err)
	}

	utils.GetLogger().Info("manual block added",
		zap.String("unitID", unitID),
		zap.String("uid", block.UID),
		zap.String("start", start),
		zap.String("end", end))
	return block, nil
}

// Remove deletes the first block whose start exactly equals the given date.
// It reports whether anything was removed; removing nothing is not an error.
func (s *DefaultLedgerService) Remove(ctx context.Context, unitID, start string) (bool, error) {
	unit, ok := s.Units.Get(unitID)
	if !ok {
		return false, ErrUnitNotFound
	}

	mu := s.locks.forUnit(unitID)
	mu.Lock()
	defer mu.Unlock()

	blocks, err := s.Repo.Blocks(ctx, unitID)
	if err != nil {
		return false, fmt.Errorf("read ledger: %w", err)
	}

	kept := make([]models.ManualBlock, 0, len(blocks))
	removed := false
	for _, b := range blocks {
		if !removed && b.Start == start {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	if !removed {
		return false, nil
	}

	if err := s.Repo.SaveBlocks(ctx, unitID, kept); err != nil {
		return false, fmt.Errorf("persist ledger: %w", err)
	}
	if err := s.Feed.Regenerate(unit, kept); err != nil {
		return false, fmt.Errorf("regenerate feed: %w", err)
	}

	utils.GetLogger().Info("manual block removed",
		zap.String("unitID", unitID),
		zap.String("start", start))
	return true, nil
}

// List returns the stored sequence unmodified, in insertion order.
func (s *DefaultLedgerService) List(ctx context.Context, unitID string) ([]models.ManualBlock, error) {
	if _, ok := s.Units.Get(unitID); !ok {
		return nil, ErrUnitNotFound
	}
	return s.Repo.Blocks(ctx, unitID)
}

// RegenerateFeed rebuilds the unit's public feed from the current ledger
// without mutating anything. Used by the reconciler and the admin endpoint.
func (s *DefaultLedgerService) RegenerateFeed(ctx context.Context, unitID string) error {
	unit, ok := s.Units.Get(unitID)
	if !ok {
		return ErrUnitNotFound
	}

	mu := s.locks.forUnit(unitID)
	mu.Lock()
	defer mu.Unlock()

	blocks, err := s.Repo.Blocks(ctx, unitID)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	return s.Feed.Regenerate(unit, blocks)
}
