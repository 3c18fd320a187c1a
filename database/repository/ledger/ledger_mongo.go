package ledgerRepo

import (
	"context"
	"errors"
	"time"

	"stayflow/database"
	"stayflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// unitLedgerDoc is the persisted shape: one document per unit holding the
// whole ordered block sequence, so a save is a single atomic replace.
type unitLedgerDoc struct {
	UnitID    string               `bson:"unit_id"`
	Blocks    []models.ManualBlock `bson:"blocks"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

type mongoLedgerRepo struct {
	coll *mongo.Collection
}

// NewMongoLedgerRepo returns a LedgerRepository backed by MongoDB.
func NewMongoLedgerRepo() LedgerRepository {
	db := database.MongoClient.Database("stayflow")
	return &mongoLedgerRepo{
		coll: db.Collection("block_ledger"),
	}
}

// Blocks returns the stored sequence for a unit, in insertion order.
func (r *mongoLedgerRepo) Blocks(ctx context.Context, unitID string) ([]models.ManualBlock, error) {
	var doc unitLedgerDoc
	err := r.coll.FindOne(ctx, bson.M{"unit_id": unitID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.ManualBlock{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Blocks == nil {
		return []models.ManualBlock{}, nil
	}
	return doc.Blocks, nil
}

// SaveBlocks replaces the unit's whole stored sequence in one upsert.
func (r *mongoLedgerRepo) SaveBlocks(ctx context.Context, unitID string, blocks []models.ManualBlock) error {
	doc := unitLedgerDoc{
		UnitID:    unitID,
		Blocks:    blocks,
		UpdatedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"unit_id": unitID}, doc, opts)
	return err
}
