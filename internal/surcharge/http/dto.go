package http

import (
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	"github.com/shopspring/decimal"
)

type SurchargeResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

func NewResponse(s *surcharge.Surcharge) SurchargeResponse {
	return SurchargeResponse{ID: s.ID, Name: s.Name, Amount: s.Amount.StringFixed(2)}
}

type CreateRequest struct {
	Name   string           `json:"name" binding:"required"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

type UpdateRequest struct {
	Name   *string          `json:"name"`
	Amount *decimal.Decimal `json:"amount"`
}
