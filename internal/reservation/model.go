package reservation

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "reservation not found")
	ErrSlotsTaken  = apperror.New(http.StatusConflict, "some of the requested slots are already booked")
	ErrTransient   = apperror.New(http.StatusServiceUnavailable, "booking is temporarily unavailable, please retry")
	ErrUnknownUser = apperror.New(http.StatusNotFound, "user not found")
)

// OccupiedSlotsField is the error field listing slot ids that are already booked.
const OccupiedSlotsField = "occupied_slot_ids"

// Reservation is a confirmed booking of one or more slots of one court on one day.
type Reservation struct {
	ID           int64
	UserID       int64
	ResourceID   int64
	ResourceName string
	Date         time.Time // Calendar day at UTC midnight

	// Surcharge captured at booking time; SurchargeID becomes nil if the rule is later deleted.
	SurchargeID     *int64
	SurchargeName   *string
	SurchargeAmount decimal.Decimal

	Slots     []Assignment // Ordered by slot id
	CreatedAt time.Time
}

// Assignment is one slot held by a reservation, with the price charged for it.
type Assignment struct {
	ID     int64
	SlotID int64
	Range  string
	Shift  string
	Price  decimal.Decimal
}

// Total is what the reservation was charged: captured slot prices plus the captured surcharge.
func (r *Reservation) Total() decimal.Decimal {
	total := r.SurchargeAmount
	for _, a := range r.Slots {
		total = total.Add(a.Price)
	}
	return total
}

// SlotIDs returns the held slot ids in assignment order.
func (r *Reservation) SlotIDs() []int64 {
	ids := make([]int64, len(r.Slots))
	for i, a := range r.Slots {
		ids[i] = a.SlotID
	}
	return ids
}

// Filter defines parameters for listing reservations. Zero values do not filter.
type Filter struct {
	UserID     int64
	ResourceID int64
	Date       *time.Time
	DateFrom   *time.Time
	Page       int
	PageSize   int
	SortOrder  string
}
