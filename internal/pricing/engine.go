package pricing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/catalog"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/shopspring/decimal"
)

var ErrNoSlots = apperror.New(http.StatusBadRequest, "slot_ids must contain at least one slot")

// AppliedSurcharge is the surcharge added to a booking.
type AppliedSurcharge struct {
	ID     int64
	Name   string
	Amount decimal.Decimal
}

// Breakdown is the priced form of a booking request.
type Breakdown struct {
	SlotIDs      []int64 // Deduplicated, in request order
	PerSlotPrice decimal.Decimal
	Subtotal     decimal.Decimal
	Surcharge    *AppliedSurcharge // nil when none applies
	Total        decimal.Decimal
}

// SurchargeAmount returns the applied amount, zero when none applies.
func (b *Breakdown) SurchargeAmount() decimal.Decimal {
	if b.Surcharge == nil {
		return decimal.Zero
	}
	return b.Surcharge.Amount
}

// Format renders an amount with exactly two fraction digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type Engine struct {
	catalog catalog.Store
	rule    Rule
}

func NewEngine(store catalog.Store, rule Rule) *Engine {
	return &Engine{catalog: store, rule: rule}
}

// Price computes base price × distinct slots, plus at most one surcharge.
// A surcharge missing from the catalog means no surcharge, not an error.
func (e *Engine) Price(ctx context.Context, res *resource.Resource, slotIDs []int64, date time.Time) (*Breakdown, error) {
	ids := catalog.DedupeIDs(slotIDs)
	if len(ids) == 0 {
		return nil, ErrNoSlots
	}

	perSlot := res.BasePrice.Round(2)
	subtotal := perSlot.Mul(decimal.NewFromInt(int64(len(ids))))

	b := &Breakdown{
		SlotIDs:      ids,
		PerSlotPrice: perSlot,
		Subtotal:     subtotal,
		Total:        subtotal,
	}

	if e.rule.AppliesOn != nil && e.rule.AppliesOn(date) {
		sur, err := e.catalog.FindSurcharge(ctx, e.rule.SurchargeName)
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		if sur != nil {
			b.Surcharge = &AppliedSurcharge{ID: sur.ID, Name: sur.Name, Amount: sur.Amount.Round(2)}
			b.Total = subtotal.Add(b.Surcharge.Amount)
		}
	}

	return b, nil
}

// Quote prices a request without booking it. It resolves the resource and
// rejects unknown slot ids, the same way a commit would.
func (e *Engine) Quote(ctx context.Context, resourceID int64, slotIDs []int64, date time.Time) (*Breakdown, error) {
	ids := catalog.DedupeIDs(slotIDs)
	if len(ids) == 0 {
		return nil, ErrNoSlots
	}

	res, err := e.catalog.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if _, err := catalog.ResolveSlots(ctx, e.catalog, ids); err != nil {
		return nil, err
	}

	return e.Price(ctx, res, ids, date)
}
