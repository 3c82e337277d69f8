package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/nekogravitycat/padel-booking-backend/internal/seed"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default courts, time slots and weekend surcharge",
		Long:  "Load the default catalog. Entries that already exist are left untouched, so seed can be rerun.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := seed.Services{
				Resources:  resource.NewService(resource.NewPgxRepository(pool)),
				Slots:      timeslot.NewService(timeslot.NewPgxRepository(pool)),
				Surcharges: surcharge.NewService(surcharge.NewPgxRepository(pool)),
			}

			res, err := seed.Apply(ctx, seed.Default(cfg.WeekendSurchargeName), svc, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, already present %d\n", res.Created, res.Skipped)
			return nil
		},
	}
}
