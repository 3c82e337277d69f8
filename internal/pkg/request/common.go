package request

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
)

// DateLayout is the wire format of a calendar day.
const DateLayout = "2006-01-02"

var ErrInvalidDate = apperror.New(http.StatusBadRequest, "date must be a valid calendar day in YYYY-MM-DD format")

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

// ListParams holds the pagination and ordering query parameters shared by list endpoints.
type ListParams struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// NormalizedSortOrder returns the sort order in upper case, defaulting to def.
func (p ListParams) NormalizedSortOrder(def string) string {
	if p.SortOrder == "" {
		return def
	}
	return strings.ToUpper(p.SortOrder)
}

// ParseDate parses a plain calendar day. The result is midnight UTC and
// carries no time-of-day or zone information beyond that.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperror.Wrap(err, ErrInvalidDate.Code, ErrInvalidDate.Message)
	}
	return t, nil
}

// FormatDate renders a calendar day in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
