package http

import (
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/shopspring/decimal"
)

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	request.ListParams
	Name    string `form:"name"`
	Covered *bool  `form:"covered"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=id name base_price created_at"`
}

// Validate performs custom validation for ListResourcesRequest.
func (r *ListResourcesRequest) Validate() error {
	return nil
}

type ResourceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Covered   bool      `json:"covered"`
	Capacity  int       `json:"capacity"`
	BasePrice string    `json:"base_price"`
	CreatedAt time.Time `json:"created_at"`
}

// ResourceTag is a brief representation of a resource.
type ResourceTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:        r.ID,
		Name:      r.Name,
		Covered:   r.Covered,
		Capacity:  r.Capacity,
		BasePrice: r.BasePrice.StringFixed(2),
		CreatedAt: r.CreatedAt,
	}
}

type CreateRequest struct {
	Name      string           `json:"name" binding:"required"`
	Covered   bool             `json:"covered"`
	Capacity  int              `json:"capacity" binding:"required"`
	BasePrice *decimal.Decimal `json:"base_price" binding:"required"`
}

// Validate performs custom validation for CreateRequest.
func (r *CreateRequest) Validate() error {
	if r.Capacity <= 0 {
		return resource.ErrInvalidCapacity
	}
	if r.BasePrice.IsNegative() {
		return resource.ErrNegativeBasePrice
	}
	return nil
}

type UpdateRequest struct {
	Name      *string          `json:"name"`
	Covered   *bool            `json:"covered"`
	Capacity  *int             `json:"capacity"`
	BasePrice *decimal.Decimal `json:"base_price"`
}

// Validate performs custom validation for UpdateRequest.
func (r *UpdateRequest) Validate() error {
	if r.Capacity != nil && *r.Capacity <= 0 {
		return resource.ErrInvalidCapacity
	}
	if r.BasePrice != nil && r.BasePrice.IsNegative() {
		return resource.ErrNegativeBasePrice
	}
	return nil
}
