package recordsRepo

import (
	"context"
	"time"

	"stayflow/database"
	"stayflow/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a BookingRecordRepository backed by MongoDB.
func NewMongoRecordRepo() BookingRecordRepository {
	db := database.MongoClient.Database("stayflow")
	return &mongoRecordRepo{
		coll: db.Collection("booking_records"),
	}
}

// Create inserts a new booking record and returns its ID.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.BookingRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByUnitID fetches all booking records for a unit.
func (r *mongoRecordRepo) GetByUnitID(ctx context.Context, unitID string) ([]models.BookingRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"unit_id": unitID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.BookingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountByGuestPhone reports how many bookings exist for a guest phone number.
func (r *mongoRecordRepo) CountByGuestPhone(ctx context.Context, phone string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"guest.phone": phone})
}
