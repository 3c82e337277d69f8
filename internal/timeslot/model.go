package timeslot

import (
	"net/http"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound   = apperror.New(http.StatusNotFound, "time slot not found")
	ErrDuplicate  = apperror.New(http.StatusConflict, "a time slot with this range and shift already exists")
	ErrInUse      = apperror.New(http.StatusConflict, "time slot is referenced by existing reservations")
	ErrEmptyRange = apperror.New(http.StatusBadRequest, "range cannot be empty")
	ErrEmptyShift = apperror.New(http.StatusBadRequest, "shift cannot be empty")
)

// Slot is a recurring bookable time range, e.g. "08:00-08:30" in the "mañana" shift.
type Slot struct {
	ID    int64
	Range string
	Shift string
}

// Filter narrows List. The zero value lists every slot.
type Filter struct {
	Shift string
}
