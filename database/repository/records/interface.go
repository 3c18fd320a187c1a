package recordsRepo

import (
	"context"

	"stayflow/models"
)

// BookingRecordRepository stores and queries confirmed-booking records.
// Writes happen as a best-effort side effect of the booking transaction;
// reads serve the conversation-labeling side task, which only needs to know
// whether a guest has booked before.
type BookingRecordRepository interface {
	Create(ctx context.Context, record models.BookingRecord) (string, error)
	GetByUnitID(ctx context.Context, unitID string) ([]models.BookingRecord, error)
	// CountByGuestPhone reports how many bookings exist for a guest phone
	// number. Used to label conversations as new vs. returning guests.
	CountByGuestPhone(ctx context.Context, phone string) (int64, error)
}
