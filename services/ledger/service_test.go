package ledger

import (
	"context"
	"errors"
	"testing"

	"stayflow/config"
	"stayflow/models"
)

type memoryLedgerRepo struct {
	blocks map[string][]models.ManualBlock
	saves  int
}

func (m *memoryLedgerRepo) Blocks(ctx context.Context, unitID string) ([]models.ManualBlock, error) {
	return append([]models.ManualBlock(nil), m.blocks[unitID]...), nil
}

func (m *memoryLedgerRepo) SaveBlocks(ctx context.Context, unitID string, blocks []models.ManualBlock) error {
	if m.blocks == nil {
		m.blocks = map[string][]models.ManualBlock{}
	}
	m.blocks[unitID] = blocks
	m.saves++
	return nil
}

type recordingGenerator struct {
	regens []string // unit ids, in call order
	err    error
}

func (g *recordingGenerator) Regenerate(unit models.Unit, blocks []models.ManualBlock) error {
	if g.err != nil {
		return g.err
	}
	g.regens = append(g.regens, unit.ID)
	return nil
}

func newSvc() (*DefaultLedgerService, *memoryLedgerRepo, *recordingGenerator) {
	units := config.NewUnitRegistry([]models.Unit{{ID: "seaview", Name: "Seaview Loft"}})
	repo := &memoryLedgerRepo{}
	gen := &recordingGenerator{}
	return NewDefaultLedgerService(units, repo, gen), repo, gen
}

func TestAddPersistsAndRegenerates(t *testing.T) {
	svc, repo, gen := newSvc()

	block, err := svc.Add(context.Background(), "seaview", "2026-03-01", "2026-03-05")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if block.UID == "" {
		t.Error("block has no uid")
	}
	if block.CreatedAt.IsZero() {
		t.Error("block has no creation timestamp")
	}
	if len(repo.blocks["seaview"]) != 1 {
		t.Fatalf("ledger holds %d blocks, want 1", len(repo.blocks["seaview"]))
	}
	if len(gen.regens) != 1 {
		t.Errorf("feed regenerated %d times, want 1", len(gen.regens))
	}

	// A second add keeps the first block's uid untouched.
	if _, err := svc.Add(context.Background(), "seaview", "2026-04-10", "2026-04-12"); err != nil {
		t.Fatalf("second Add: %v", err)
	}
	stored := repo.blocks["seaview"]
	if len(stored) != 2 {
		t.Fatalf("ledger holds %d blocks, want 2", len(stored))
	}
	if stored[0].UID != block.UID {
		t.Errorf("first block uid changed: %s != %s", stored[0].UID, block.UID)
	}
	if stored[1].UID == block.UID {
		t.Error("second block reused the first block's uid")
	}
}

func TestAddValidation(t *testing.T) {
	svc, repo, gen := newSvc()

	for _, tt := range []struct {
		name, unitID, start, end string
	}{
		{"unknown unit", "nowhere", "2026-03-01", "2026-03-05"},
		{"garbage start", "seaview", "someday", "2026-03-05"},
		{"garbage end", "seaview", "2026-03-01", "someday"},
		{"reversed", "seaview", "2026-03-05", "2026-03-01"},
		{"zero-length", "seaview", "2026-03-01", "2026-03-01"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add(context.Background(), tt.unitID, tt.start, tt.end); err == nil {
				t.Error("expected error")
			}
		})
	}
	if repo.saves != 0 {
		t.Errorf("rejected adds persisted %d times", repo.saves)
	}
	if len(gen.regens) != 0 {
		t.Errorf("rejected adds regenerated the feed %d times", len(gen.regens))
	}
}

func TestAddUnknownUnitSentinel(t *testing.T) {
	svc, _, _ := newSvc()
	_, err := svc.Add(context.Background(), "nowhere", "2026-03-01", "2026-03-05")
	if !errors.Is(err, ErrUnitNotFound) {
		t.Fatalf("err = %v, want ErrUnitNotFound", err)
	}
}

func TestRemoveFirstMatchOnly(t *testing.T) {
	svc, repo, gen := newSvc()

	// Two blocks sharing a start date: only the first goes.
	if _, err := svc.Add(context.Background(), "seaview", "2026-03-01", "2026-03-05"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(context.Background(), "seaview", "2026-03-01", "2026-03-10"); err != nil {
		t.Fatal(err)
	}
	regensBefore := len(gen.regens)

	removed, err := svc.Remove(context.Background(), "seaview", "2026-03-01")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatal("Remove reported nothing removed")
	}
	stored := repo.blocks["seaview"]
	if len(stored) != 1 {
		t.Fatalf("ledger holds %d blocks, want 1", len(stored))
	}
	if stored[0].End != "2026-03-10" {
		t.Errorf("wrong block removed, survivor ends %s", stored[0].End)
	}
	if len(gen.regens) != regensBefore+1 {
		t.Errorf("feed not regenerated on remove")
	}
}

func TestRemoveNoMatch(t *testing.T) {
	svc, repo, gen := newSvc()
	if _, err := svc.Add(context.Background(), "seaview", "2026-03-01", "2026-03-05"); err != nil {
		t.Fatal(err)
	}
	savesBefore, regensBefore := repo.saves, len(gen.regens)

	removed, err := svc.Remove(context.Background(), "seaview", "2026-12-24")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed {
		t.Error("Remove reported a removal for an absent date")
	}
	if repo.saves != savesBefore {
		t.Error("no-op remove persisted the ledger")
	}
	if len(gen.regens) != regensBefore {
		t.Error("no-op remove regenerated the feed")
	}
}

func TestListInsertionOrder(t *testing.T) {
	svc, _, _ := newSvc()
	// Insert out of date order; List must not sort.
	if _, err := svc.Add(context.Background(), "seaview", "2026-04-10", "2026-04-12"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(context.Background(), "seaview", "2026-03-01", "2026-03-05"); err != nil {
		t.Fatal(err)
	}

	blocks, err := svc.List(context.Background(), "seaview")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Start != "2026-04-10" || blocks[1].Start != "2026-03-01" {
		t.Errorf("insertion order not preserved: %s, %s", blocks[0].Start, blocks[1].Start)
	}
}

func TestRegenerateFeedOnDemand(t *testing.T) {
	svc, _, gen := newSvc()
	if err := svc.RegenerateFeed(context.Background(), "seaview"); err != nil {
		t.Fatalf("RegenerateFeed: %v", err)
	}
	if len(gen.regens) != 1 || gen.regens[0] != "seaview" {
		t.Errorf("regens = %v", gen.regens)
	}
	if err := svc.RegenerateFeed(context.Background(), "nowhere"); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("err = %v, want ErrUnitNotFound", err)
	}
}
