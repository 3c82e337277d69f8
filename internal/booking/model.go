// Package booking composes availability, pricing and the reservation ledger
// into the operations exposed to players.
package booking

import "time"

// BookRequest asks for slotIDs on one court for one calendar day.
type BookRequest struct {
	UserID     int64
	ResourceID int64
	Date       time.Time
	SlotIDs    []int64
}

// QuoteRequest prices a booking without committing it.
type QuoteRequest struct {
	ResourceID int64
	Date       time.Time
	SlotIDs    []int64
}

// Identity is the acting user as resolved by the auth layer.
type Identity struct {
	UserID  int64
	IsAdmin bool
}
