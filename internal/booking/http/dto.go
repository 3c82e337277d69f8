package http

import (
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/availability"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/padel-booking-backend/internal/pricing"
	"github.com/nekogravitycat/padel-booking-backend/internal/reservation"
	resHttp "github.com/nekogravitycat/padel-booking-backend/internal/resource/http"
	slotHttp "github.com/nekogravitycat/padel-booking-backend/internal/timeslot/http"
)

// CreateReservationRequest is the booking payload. Date is a plain calendar day.
type CreateReservationRequest struct {
	ResourceID int64   `json:"resource_id" binding:"required,min=1"`
	Date       string  `json:"date" binding:"required"`
	SlotIDs    []int64 `json:"slot_ids" binding:"required,dive,min=1"`
}

// QuoteRequest has the same shape as a booking.
type QuoteRequest = CreateReservationRequest

// AvailabilityQuery carries the day of an availability lookup.
type AvailabilityQuery struct {
	Date string `form:"date" binding:"required"`
}

type AvailabilityURI struct {
	ResourceID int64 `uri:"resource_id" binding:"required,min=1"`
}

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	request.ListParams
	UserID     int64  `form:"user_id" binding:"omitempty,min=1"`
	ResourceID int64  `form:"resource_id" binding:"omitempty,min=1"`
	Date       string `form:"date"`
	DateFrom   string `form:"date_from"`
}

// Filter parses the date parameters into a reservation filter.
func (r *ListReservationsRequest) Filter() (reservation.Filter, error) {
	f := reservation.Filter{
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		Page:       r.Page,
		PageSize:   r.PageSize,
		SortOrder:  r.NormalizedSortOrder("DESC"),
	}
	if r.Date != "" {
		d, err := request.ParseDate(r.Date)
		if err != nil {
			return f, err
		}
		f.Date = &d
	}
	if r.DateFrom != "" {
		d, err := request.ParseDate(r.DateFrom)
		if err != nil {
			return f, err
		}
		f.DateFrom = &d
	}
	return f, nil
}

type SurchargeResponse struct {
	ID     *int64 `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type AssignmentResponse struct {
	SlotID int64  `json:"slot_id"`
	Range  string `json:"range"`
	Shift  string `json:"shift"`
	Price  string `json:"price"`
}

// ReservationResponse is the receipt of a booking.
type ReservationResponse struct {
	ID        int64                `json:"id"`
	UserID    int64                `json:"user_id"`
	Resource  resHttp.ResourceTag  `json:"resource"`
	Date      string               `json:"date"`
	Slots     []AssignmentResponse `json:"slots"`
	Surcharge *SurchargeResponse   `json:"surcharge"`
	Total     string               `json:"total"`
	CreatedAt time.Time            `json:"created_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	slots := make([]AssignmentResponse, len(r.Slots))
	for i, a := range r.Slots {
		slots[i] = AssignmentResponse{
			SlotID: a.SlotID,
			Range:  a.Range,
			Shift:  a.Shift,
			Price:  pricing.Format(a.Price),
		}
	}

	var sur *SurchargeResponse
	if r.SurchargeName != nil {
		sur = &SurchargeResponse{
			ID:     r.SurchargeID,
			Name:   *r.SurchargeName,
			Amount: pricing.Format(r.SurchargeAmount),
		}
	}

	return ReservationResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Resource:  resHttp.ResourceTag{ID: r.ResourceID, Name: r.ResourceName},
		Date:      request.FormatDate(r.Date),
		Slots:     slots,
		Surcharge: sur,
		Total:     pricing.Format(r.Total()),
		CreatedAt: r.CreatedAt,
	}
}

// QuoteResponse is a priced, uncommitted booking.
type QuoteResponse struct {
	ResourceID   int64              `json:"resource_id"`
	Date         string             `json:"date"`
	SlotIDs      []int64            `json:"slot_ids"`
	PerSlotPrice string             `json:"per_slot_price"`
	Subtotal     string             `json:"subtotal"`
	Surcharge    *SurchargeResponse `json:"surcharge"`
	Total        string             `json:"total"`
}

func NewQuoteResponse(resourceID int64, date time.Time, b *pricing.Breakdown) QuoteResponse {
	var sur *SurchargeResponse
	if b.Surcharge != nil {
		id := b.Surcharge.ID
		sur = &SurchargeResponse{ID: &id, Name: b.Surcharge.Name, Amount: pricing.Format(b.Surcharge.Amount)}
	}
	return QuoteResponse{
		ResourceID:   resourceID,
		Date:         request.FormatDate(date),
		SlotIDs:      b.SlotIDs,
		PerSlotPrice: pricing.Format(b.PerSlotPrice),
		Subtotal:     pricing.Format(b.Subtotal),
		Surcharge:    sur,
		Total:        pricing.Format(b.Total),
	}
}

// AvailabilityResponse lists the free slots of one court.
type AvailabilityResponse struct {
	Resource resHttp.ResourceTag     `json:"resource"`
	Date     string                  `json:"date"`
	Free     []slotHttp.SlotResponse `json:"free_slots"`
}

func NewAvailabilityResponse(a *availability.ResourceAvailability, date time.Time) AvailabilityResponse {
	return AvailabilityResponse{
		Resource: resHttp.ResourceTag{ID: a.Resource.ID, Name: a.Resource.Name},
		Date:     request.FormatDate(date),
		Free:     slotHttp.NewListResponse(a.Free),
	}
}
