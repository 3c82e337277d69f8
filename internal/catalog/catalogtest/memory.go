// Package catalogtest provides an in-memory catalog.Store for tests.
package catalogtest

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
	"github.com/shopspring/decimal"
)

type Memory struct {
	mu         sync.RWMutex
	resources  map[int64]*resource.Resource
	slots      map[int64]*timeslot.Slot
	surcharges []*surcharge.Surcharge

	// Err, when set, is returned by every method.
	Err error
}

func NewMemory() *Memory {
	return &Memory{
		resources: map[int64]*resource.Resource{},
		slots:     map[int64]*timeslot.Slot{},
	}
}

// AddResource registers a court priced at basePrice (e.g. "12.00").
func (m *Memory) AddResource(id int64, name, basePrice string) *resource.Resource {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &resource.Resource{ID: id, Name: name, Capacity: 4, BasePrice: decimal.RequireFromString(basePrice)}
	m.resources[id] = r
	return r
}

func (m *Memory) AddSlot(id int64, rng, shift string) *timeslot.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &timeslot.Slot{ID: id, Range: rng, Shift: shift}
	m.slots[id] = s
	return s
}

func (m *Memory) AddSurcharge(id int64, name, amount string) *surcharge.Surcharge {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &surcharge.Surcharge{ID: id, Name: name, Amount: decimal.RequireFromString(amount)}
	m.surcharges = append(m.surcharges, s)
	return s
}

func (m *Memory) ListResources(ctx context.Context) ([]*resource.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*resource.Resource, 0, len(m.resources))
	for _, r := range m.resources {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *resource.Resource) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *Memory) ListSlots(ctx context.Context) ([]*timeslot.Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*timeslot.Slot, 0, len(m.slots))
	for _, s := range m.slots {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *timeslot.Slot) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *Memory) GetResource(ctx context.Context, id int64) (*resource.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.resources[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return r, nil
}

func (m *Memory) SlotsByIDs(ctx context.Context, ids []int64) ([]*timeslot.Slot, error) {
	all, err := m.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	var out []*timeslot.Slot
	for _, s := range all {
		if slices.Contains(ids, s.ID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) FindSurcharge(ctx context.Context, name string) (*surcharge.Surcharge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, s := range m.surcharges {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return nil, nil
}
