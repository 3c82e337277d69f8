package http

import "github.com/nekogravitycat/padel-booking-backend/internal/timeslot"

type ListSlotsRequest struct {
	Shift string `form:"shift"`
}

type SlotResponse struct {
	ID    int64  `json:"id"`
	Range string `json:"range"`
	Shift string `json:"shift"`
}

func NewResponse(s *timeslot.Slot) SlotResponse {
	return SlotResponse{ID: s.ID, Range: s.Range, Shift: s.Shift}
}

// NewListResponse converts slots, never returning a nil slice.
func NewListResponse(slots []*timeslot.Slot) []SlotResponse {
	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewResponse(s)
	}
	return items
}

type CreateRequest struct {
	Range string `json:"range" binding:"required"`
	Shift string `json:"shift" binding:"required"`
}

type UpdateRequest struct {
	Range *string `json:"range"`
	Shift *string `json:"shift"`
}
