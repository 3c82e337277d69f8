package reservation

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/catalog"
	"github.com/nekogravitycat/padel-booking-backend/internal/pricing"
	"go.uber.org/zap"
)

// CommitRequest is a booking of slotIDs on one court and day for a user.
type CommitRequest struct {
	UserID     int64
	ResourceID int64
	Date       time.Time
	SlotIDs    []int64
}

// Ledger is the authoritative record of confirmed reservations.
type Ledger interface {
	// Commit books the requested slots atomically.
	Commit(ctx context.Context, req CommitRequest) (*Reservation, error)
	// Cancel deletes a reservation. A reservation owned by someone else is
	// reported as ErrNotFound unless isAdmin is set.
	Cancel(ctx context.Context, id, userID int64, isAdmin bool) error
	Get(ctx context.Context, id, userID int64, isAdmin bool) (*Reservation, error)
	ListByUser(ctx context.Context, userID int64, filter Filter) ([]*Reservation, int, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
}

type ledger struct {
	repo    Repository
	catalog catalog.Store
	pricing *pricing.Engine
	log     *zap.Logger
}

func NewLedger(repo Repository, store catalog.Store, engine *pricing.Engine, log *zap.Logger) Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &ledger{repo: repo, catalog: store, pricing: engine, log: log}
}

func (l *ledger) Commit(ctx context.Context, req CommitRequest) (*Reservation, error) {
	ids := catalog.DedupeIDs(req.SlotIDs)
	if len(ids) == 0 {
		return nil, pricing.ErrNoSlots
	}

	res, err := l.catalog.GetResource(ctx, req.ResourceID)
	if err != nil {
		return nil, classify(err)
	}

	slots, err := catalog.ResolveSlots(ctx, l.catalog, ids)
	if err != nil {
		return nil, classify(err)
	}

	// Pre-check for a precise conflict message. The unique constraint on
	// (resource, date, slot) settles races that slip past it.
	claimed, err := l.repo.ClaimedSlotIDs(ctx, req.ResourceID, req.Date)
	if err != nil {
		return nil, err
	}
	taken := catalog.IDSet(claimed)
	var occupied []int64
	for _, id := range ids {
		if _, ok := taken[id]; ok {
			occupied = append(occupied, id)
		}
	}
	if len(occupied) > 0 {
		return nil, ErrSlotsTaken.With(OccupiedSlotsField, catalog.SortedIDs(occupied))
	}

	breakdown, err := l.pricing.Price(ctx, res, ids, req.Date)
	if err != nil {
		return nil, classify(err)
	}

	r := &Reservation{
		UserID:          req.UserID,
		ResourceID:      res.ID,
		ResourceName:    res.Name,
		Date:            req.Date,
		SurchargeAmount: breakdown.SurchargeAmount(),
		Slots:           make([]Assignment, 0, len(slots)),
	}
	if s := breakdown.Surcharge; s != nil {
		id, name := s.ID, s.Name
		r.SurchargeID = &id
		r.SurchargeName = &name
	}
	for _, s := range slots {
		r.Slots = append(r.Slots, Assignment{
			SlotID: s.ID,
			Range:  s.Range,
			Shift:  s.Shift,
			Price:  breakdown.PerSlotPrice,
		})
	}
	slices.SortFunc(r.Slots, func(a, b Assignment) int { return cmp.Compare(a.SlotID, b.SlotID) })

	if err := l.repo.Create(ctx, r); err != nil {
		switch {
		case errors.Is(err, ErrSlotsTaken):
			l.log.Warn("reservation lost race on slot constraint",
				zap.Int64("resource_id", r.ResourceID),
				zap.String("date", r.Date.Format(time.DateOnly)),
				zap.Int64s("slot_ids", r.SlotIDs()),
			)
		case errors.Is(err, ErrTransient):
			l.log.Warn("reservation commit failed transiently",
				zap.Int64("resource_id", r.ResourceID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	l.log.Info("reservation committed",
		zap.Int64("reservation_id", r.ID),
		zap.Int64("user_id", r.UserID),
		zap.Int64("resource_id", r.ResourceID),
		zap.String("date", r.Date.Format(time.DateOnly)),
		zap.String("total", pricing.Format(r.Total())),
	)
	return r, nil
}

func (l *ledger) Cancel(ctx context.Context, id, userID int64, isAdmin bool) error {
	owner := userID
	if isAdmin {
		owner = 0
	} else if owner == 0 {
		return ErrNotFound
	}
	if err := l.repo.Delete(ctx, id, owner); err != nil {
		return err
	}
	l.log.Info("reservation cancelled",
		zap.Int64("reservation_id", id),
		zap.Int64("user_id", userID),
		zap.Bool("by_admin", isAdmin),
	)
	return nil
}

func (l *ledger) Get(ctx context.Context, id, userID int64, isAdmin bool) (*Reservation, error) {
	r, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && r.UserID != userID {
		return nil, ErrNotFound
	}
	return r, nil
}

func (l *ledger) ListByUser(ctx context.Context, userID int64, filter Filter) ([]*Reservation, int, error) {
	filter.UserID = userID
	return l.repo.List(ctx, filter)
}

func (l *ledger) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return l.repo.List(ctx, filter)
}
