// Package catalog is the read-only view of courts, time slots and surcharges
// used by the availability, pricing and reservation code.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
)

var (
	ErrResourceNotFound = resource.ErrNotFound
	ErrUnknownSlots     = apperror.New(http.StatusBadRequest, "some slot ids do not exist")
)

// UnknownSlotsField is the error field listing unknown slot ids.
const UnknownSlotsField = "unknown_slot_ids"

type Store interface {
	ListResources(ctx context.Context) ([]*resource.Resource, error)
	ListSlots(ctx context.Context) ([]*timeslot.Slot, error)
	GetResource(ctx context.Context, id int64) (*resource.Resource, error)
	// SlotsByIDs returns the existing slots among ids, ordered by id.
	SlotsByIDs(ctx context.Context, ids []int64) ([]*timeslot.Slot, error)
	// FindSurcharge returns nil, nil when no surcharge has that name.
	FindSurcharge(ctx context.Context, name string) (*surcharge.Surcharge, error)
}

type store struct {
	resources  resource.Repository
	slots      timeslot.Repository
	surcharges surcharge.Repository
}

// NewStore reads through the admin modules' repositories.
func NewStore(resources resource.Repository, slots timeslot.Repository, surcharges surcharge.Repository) Store {
	return &store{resources: resources, slots: slots, surcharges: surcharges}
}

func (s *store) ListResources(ctx context.Context) ([]*resource.Resource, error) {
	return s.resources.ListAll(ctx)
}

func (s *store) ListSlots(ctx context.Context) ([]*timeslot.Slot, error) {
	return s.slots.List(ctx, timeslot.Filter{})
}

func (s *store) GetResource(ctx context.Context, id int64) (*resource.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

func (s *store) SlotsByIDs(ctx context.Context, ids []int64) ([]*timeslot.Slot, error) {
	return s.slots.ListByIDs(ctx, ids)
}

func (s *store) FindSurcharge(ctx context.Context, name string) (*surcharge.Surcharge, error) {
	sur, err := s.surcharges.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, surcharge.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find surcharge %q: %w", name, err)
	}
	return sur, nil
}

// ResolveSlots loads the slots for ids, which must already be deduplicated.
// Any id missing from the catalog yields ErrUnknownSlots listing them in ascending order.
// The result follows the order of ids.
func ResolveSlots(ctx context.Context, s Store, ids []int64) ([]*timeslot.Slot, error) {
	found, err := s.SlotsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*timeslot.Slot, len(found))
	for _, slot := range found {
		byID[slot.ID] = slot
	}

	resolved := make([]*timeslot.Slot, 0, len(ids))
	var unknown []int64
	for _, id := range ids {
		slot, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		resolved = append(resolved, slot)
	}
	if len(unknown) > 0 {
		return nil, ErrUnknownSlots.With(UnknownSlotsField, SortedIDs(unknown))
	}
	return resolved, nil
}
