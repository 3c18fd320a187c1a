package ledgerRepo

import (
	"context"

	"stayflow/models"
)

// LedgerRepository persists the manual-block ledger: one ordered block
// sequence per unit. Implementations must make SaveBlocks an atomic
// whole-sequence replace so a concurrent reader never observes a partially
// written ledger.
type LedgerRepository interface {
	// Blocks returns the stored sequence for a unit, in insertion order.
	// A unit with no ledger entry yields an empty slice, not an error.
	Blocks(ctx context.Context, unitID string) ([]models.ManualBlock, error)

	// SaveBlocks replaces the unit's whole stored sequence.
	SaveBlocks(ctx context.Context, unitID string, blocks []models.ManualBlock) error
}
