package surcharge

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "surcharge not found")
	ErrNameTaken      = apperror.New(http.StatusConflict, "surcharge name already exists")
	ErrEmptyName      = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrNegativeAmount = apperror.New(http.StatusBadRequest, "amount cannot be negative")
)

// Surcharge is a flat fee added once to a booking when its rule applies.
type Surcharge struct {
	ID        int64
	Name      string
	Amount    decimal.Decimal
	CreatedAt time.Time
}
