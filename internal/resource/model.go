package resource

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "resource not found")
	ErrNameTaken         = apperror.New(http.StatusConflict, "resource name already exists")
	ErrEmptyName         = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidCapacity   = apperror.New(http.StatusBadRequest, "capacity must be a positive integer")
	ErrNegativeBasePrice = apperror.New(http.StatusBadRequest, "base_price cannot be negative")
)

// Resource is a bookable court.
type Resource struct {
	ID        int64
	Name      string
	Covered   bool
	Capacity  int
	BasePrice decimal.Decimal // Price of a single slot
	CreatedAt time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	Name      string // Substring, case-insensitive
	Covered   *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
