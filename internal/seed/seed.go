// Package seed loads the default club catalog into an empty database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Shift labels of the day.
const (
	ShiftMorning   = "mañana"
	ShiftAfternoon = "tarde"
	ShiftNight     = "noche"
)

// Catalog is the data Apply creates.
type Catalog struct {
	Resources  []resource.CreateRequest
	Slots      []timeslot.CreateRequest
	Surcharges []surcharge.CreateRequest
}

// ShiftOf returns the shift a slot starting at hour belongs to.
func ShiftOf(hour int) string {
	switch {
	case hour < 14:
		return ShiftMorning
	case hour < 20:
		return ShiftAfternoon
	default:
		return ShiftNight
	}
}

// HalfHourSlots returns contiguous 30 minute slots from opening to closing, given as "15:04".
func HalfHourSlots(opening, closing string) ([]timeslot.CreateRequest, error) {
	start, err := time.Parse("15:04", opening)
	if err != nil {
		return nil, fmt.Errorf("invalid opening time %q: %w", opening, err)
	}
	end, err := time.Parse("15:04", closing)
	if err != nil {
		return nil, fmt.Errorf("invalid closing time %q: %w", closing, err)
	}

	var slots []timeslot.CreateRequest
	for t := start; t.Before(end); t = t.Add(30 * time.Minute) {
		next := t.Add(30 * time.Minute)
		slots = append(slots, timeslot.CreateRequest{
			Range: t.Format("15:04") + "-" + next.Format("15:04"),
			Shift: ShiftOf(t.Hour()),
		})
	}
	return slots, nil
}

// Default is the club's opening catalog: eight courts, half-hour slots
// from 08:00 to 23:00 and the weekend surcharge.
func Default(weekendSurchargeName string) Catalog {
	twelve := decimal.RequireFromString("12.00")
	resources := []resource.CreateRequest{
		{Name: "Pista 1", Covered: false, Capacity: 4, BasePrice: twelve},
		{Name: "Pista 2", Covered: false, Capacity: 4, BasePrice: twelve},
		{Name: "Pista 3", Covered: true, Capacity: 4, BasePrice: twelve},
		{Name: "Pista 4", Covered: true, Capacity: 4, BasePrice: twelve},
		{Name: "Pista 5", Covered: false, Capacity: 4, BasePrice: twelve},
		{Name: "Pista 6", Covered: false, Capacity: 4, BasePrice: twelve},
		{Name: "Pista 7", Covered: true, Capacity: 4, BasePrice: twelve},
		{Name: "Pista 8", Covered: true, Capacity: 2, BasePrice: decimal.RequireFromString("6.00")},
	}

	// Constant bounds; cannot fail.
	slots, _ := HalfHourSlots("08:00", "23:00")

	return Catalog{
		Resources: resources,
		Slots:     slots,
		Surcharges: []surcharge.CreateRequest{
			{Name: weekendSurchargeName, Amount: decimal.RequireFromString("3.00")},
		},
	}
}

// Services are the admin services Apply writes through.
type Services struct {
	Resources  resource.Service
	Slots      timeslot.Service
	Surcharges surcharge.Service
}

// Result counts what Apply did.
type Result struct {
	Created int
	Skipped int
}

// Apply creates every catalog entry that does not exist yet.
// Entries rejected as duplicates are skipped, so Apply can be rerun.
func Apply(ctx context.Context, c Catalog, svc Services, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var res Result

	track := func(kind, name string, err error, duplicate error) error {
		switch {
		case err == nil:
			res.Created++
			log.Debug("created", zap.String("kind", kind), zap.String("name", name))
			return nil
		case errors.Is(err, duplicate):
			res.Skipped++
			return nil
		default:
			return fmt.Errorf("seed %s %q: %w", kind, name, err)
		}
	}

	for _, r := range c.Resources {
		_, err := svc.Resources.Create(ctx, r)
		if err := track("resource", r.Name, err, resource.ErrNameTaken); err != nil {
			return res, err
		}
	}
	for _, s := range c.Slots {
		_, err := svc.Slots.Create(ctx, s)
		if err := track("slot", s.Range+" "+s.Shift, err, timeslot.ErrDuplicate); err != nil {
			return res, err
		}
	}
	for _, s := range c.Surcharges {
		_, err := svc.Surcharges.Create(ctx, s)
		if err := track("surcharge", s.Name, err, surcharge.ErrNameTaken); err != nil {
			return res, err
		}
	}

	log.Info("catalog seeded", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
	return res, nil
}
