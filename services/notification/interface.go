package notification

import (
	"context"

	"stayflow/models"
)

// NotificationService delivers guest-facing messages. Delivery is always
// best effort: the booking transaction reports a failed send as a flag on
// the outcome, never as a transaction error.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, guest models.GuestInfo, unitName string, checkIn, checkOut string) error
	SendCheckInReminder(ctx context.Context, guest models.GuestInfo, unitName string, checkIn string) error
}
