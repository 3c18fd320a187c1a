package models

import "time"

// GuestInfo identifies the guest on a booking request. Phone doubles as the
// identity used by the booking-history reader when labeling conversations.
type GuestInfo struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email" json:"email"`
}

// BookingRecord is the persisted trace of a confirmed booking. It is a
// best-effort side artifact of the booking transaction: the manual block in
// the ledger is the authoritative commit.
type BookingRecord struct {
	ID        string    `bson:"id" json:"id"`
	UnitID    string    `bson:"unit_id" json:"unit_id"`
	CheckIn   string    `bson:"check_in" json:"check_in"`
	CheckOut  string    `bson:"check_out" json:"check_out"`
	Guest     GuestInfo `bson:"guest" json:"guest"`
	BlockUID  string    `bson:"block_uid" json:"block_uid"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// BookingOutcome reports a confirmed booking. Side-effect failures are
// reported as flags, never as transaction errors: a committed block is not
// rolled back because a notification could not be delivered.
type BookingOutcome struct {
	BookingID       string `json:"booking_id"`
	UnitID          string `json:"unit_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	BlockUID        string `json:"block_uid"`
	RecordPersisted bool   `json:"record_persisted"`
	GuestNotified   bool   `json:"guest_notified"`
}
