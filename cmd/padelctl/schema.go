package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nekogravitycat/padel-booking-backend/internal/db"
)

func schemaCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create missing tables, indexes and constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				fmt.Fprint(cmd.OutOrStdout(), db.Schema())
				return nil
			}

			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.ApplySchema(ctx, pool); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the DDL instead of applying it")
	return cmd
}
