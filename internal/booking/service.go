package booking

import (
	"context"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/availability"
	"github.com/nekogravitycat/padel-booking-backend/internal/pricing"
	"github.com/nekogravitycat/padel-booking-backend/internal/reservation"
)

type Service interface {
	Book(ctx context.Context, req BookRequest) (*reservation.Reservation, error)
	Quote(ctx context.Context, req QuoteRequest) (*pricing.Breakdown, error)
	Availability(ctx context.Context, resourceID int64, date time.Time) (*availability.ResourceAvailability, error)
	AvailabilityAll(ctx context.Context, date time.Time) ([]availability.ResourceAvailability, error)

	Get(ctx context.Context, who Identity, id int64) (*reservation.Reservation, error)
	Cancel(ctx context.Context, who Identity, id int64) error
	ListMine(ctx context.Context, who Identity, filter reservation.Filter) ([]*reservation.Reservation, int, error)
	List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error)
}

type service struct {
	ledger       reservation.Ledger
	pricing      *pricing.Engine
	availability *availability.Engine
}

func NewService(ledger reservation.Ledger, pricingEngine *pricing.Engine, availabilityEngine *availability.Engine) Service {
	return &service{
		ledger:       ledger,
		pricing:      pricingEngine,
		availability: availabilityEngine,
	}
}

func (s *service) Book(ctx context.Context, req BookRequest) (*reservation.Reservation, error) {
	return s.ledger.Commit(ctx, reservation.CommitRequest{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		Date:       req.Date,
		SlotIDs:    req.SlotIDs,
	})
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*pricing.Breakdown, error) {
	return s.pricing.Quote(ctx, req.ResourceID, req.SlotIDs, req.Date)
}

func (s *service) Availability(ctx context.Context, resourceID int64, date time.Time) (*availability.ResourceAvailability, error) {
	return s.availability.ForResource(ctx, resourceID, date)
}

func (s *service) AvailabilityAll(ctx context.Context, date time.Time) ([]availability.ResourceAvailability, error) {
	return s.availability.ForAllResources(ctx, date)
}

func (s *service) Get(ctx context.Context, who Identity, id int64) (*reservation.Reservation, error) {
	return s.ledger.Get(ctx, id, who.UserID, who.IsAdmin)
}

func (s *service) Cancel(ctx context.Context, who Identity, id int64) error {
	return s.ledger.Cancel(ctx, id, who.UserID, who.IsAdmin)
}

func (s *service) ListMine(ctx context.Context, who Identity, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	return s.ledger.ListByUser(ctx, who.UserID, filter)
}

func (s *service) List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	return s.ledger.List(ctx, filter)
}
