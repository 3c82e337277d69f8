package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftOf(t *testing.T) {
	assert.Equal(t, ShiftMorning, ShiftOf(8))
	assert.Equal(t, ShiftMorning, ShiftOf(13))
	assert.Equal(t, ShiftAfternoon, ShiftOf(14))
	assert.Equal(t, ShiftAfternoon, ShiftOf(19))
	assert.Equal(t, ShiftNight, ShiftOf(20))
	assert.Equal(t, ShiftNight, ShiftOf(22))
}

func TestHalfHourSlots(t *testing.T) {
	slots, err := HalfHourSlots("08:00", "23:00")
	require.NoError(t, err)
	require.Len(t, slots, 30)
	assert.Equal(t, "08:00-08:30", slots[0].Range)
	assert.Equal(t, "22:30-23:00", slots[29].Range)
	assert.Equal(t, timeslot.CreateRequest{Range: "14:00-14:30", Shift: ShiftAfternoon}, slots[12])

	_, err = HalfHourSlots("8am", "23:00")
	assert.Error(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	c := Default("Fin de semana")

	require.Len(t, c.Resources, 8)
	var covered []string
	for _, r := range c.Resources {
		if r.Covered {
			covered = append(covered, r.Name)
		}
	}
	assert.Equal(t, []string{"Pista 3", "Pista 4", "Pista 7", "Pista 8"}, covered)
	assert.Equal(t, "6.00", c.Resources[7].BasePrice.StringFixed(2))
	assert.Len(t, c.Slots, 30)
	require.Len(t, c.Surcharges, 1)
	assert.Equal(t, "Fin de semana", c.Surcharges[0].Name)
}

type fakeResources struct {
	resource.Service
	existing map[string]bool
}

func (f *fakeResources) Create(ctx context.Context, req resource.CreateRequest) (*resource.Resource, error) {
	if f.existing[req.Name] {
		return nil, resource.ErrNameTaken
	}
	f.existing[req.Name] = true
	return &resource.Resource{Name: req.Name}, nil
}

type fakeSlots struct {
	timeslot.Service
	err error
}

func (f *fakeSlots) Create(ctx context.Context, req timeslot.CreateRequest) (*timeslot.Slot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &timeslot.Slot{Range: req.Range, Shift: req.Shift}, nil
}

type fakeSurcharges struct {
	surcharge.Service
}

func (f *fakeSurcharges) Create(ctx context.Context, req surcharge.CreateRequest) (*surcharge.Surcharge, error) {
	return nil, surcharge.ErrNameTaken
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("skips duplicates", func(t *testing.T) {
		svc := Services{
			Resources:  &fakeResources{existing: map[string]bool{"Pista 1": true}},
			Slots:      &fakeSlots{},
			Surcharges: &fakeSurcharges{},
		}
		res, err := Apply(ctx, Default("Fin de semana"), svc, nil)
		require.NoError(t, err)
		assert.Equal(t, Result{Created: 7 + 30, Skipped: 2}, res)
	})

	t.Run("stops on other errors", func(t *testing.T) {
		svc := Services{
			Resources:  &fakeResources{existing: map[string]bool{}},
			Slots:      &fakeSlots{err: errors.New("connection refused")},
			Surcharges: &fakeSurcharges{},
		}
		res, err := Apply(ctx, Default("Fin de semana"), svc, nil)
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, 8, res.Created)
	})
}
