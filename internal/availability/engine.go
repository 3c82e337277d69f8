// Package availability computes which catalog slots are still free for a court on a day.
package availability

import (
	"context"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/catalog"
	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
)

// ClaimReader exposes the slot ids held by confirmed reservations.
type ClaimReader interface {
	ClaimedSlotIDs(ctx context.Context, resourceID int64, date time.Time) ([]int64, error)
	// ClaimedByResource groups every claimed slot id of the day by resource id.
	ClaimedByResource(ctx context.Context, date time.Time) (map[int64][]int64, error)
}

// ResourceAvailability is the free slot list of one court.
type ResourceAvailability struct {
	Resource *resource.Resource
	Free     []*timeslot.Slot
}

type Engine struct {
	catalog catalog.Store
	claims  ClaimReader
}

func NewEngine(store catalog.Store, claims ClaimReader) *Engine {
	return &Engine{catalog: store, claims: claims}
}

// ForResource returns the free slots of one court, ordered by slot id.
func (e *Engine) ForResource(ctx context.Context, resourceID int64, date time.Time) (*ResourceAvailability, error) {
	res, err := e.catalog.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	slots, err := e.catalog.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	claimed, err := e.claims.ClaimedSlotIDs(ctx, resourceID, date)
	if err != nil {
		return nil, err
	}

	return &ResourceAvailability{Resource: res, Free: freeSlots(slots, claimed)}, nil
}

// ForAllResources answers ForResource for every court with three reads in total.
// Courts are ordered by id.
func (e *Engine) ForAllResources(ctx context.Context, date time.Time) ([]ResourceAvailability, error) {
	resources, err := e.catalog.ListResources(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := e.catalog.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	claimed, err := e.claims.ClaimedByResource(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]ResourceAvailability, 0, len(resources))
	for _, res := range resources {
		out = append(out, ResourceAvailability{
			Resource: res,
			Free:     freeSlots(slots, claimed[res.ID]),
		})
	}
	return out, nil
}

// freeSlots keeps catalog order, which is ascending id.
func freeSlots(all []*timeslot.Slot, claimed []int64) []*timeslot.Slot {
	taken := catalog.IDSet(claimed)
	free := make([]*timeslot.Slot, 0, len(all))
	for _, s := range all {
		if _, ok := taken[s.ID]; !ok {
			free = append(free, s)
		}
	}
	return free
}
