package models

// Unit is one configured rental unit. Read-only configuration: the core
// never mutates units, it only looks them up.
type Unit struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Sources []string `json:"sources"` // remote calendar feed URLs (Airbnb, Booking.com, ...)
}
