package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
	"github.com/nekogravitycat/padel-booking-backend/internal/user"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	cmd.AddCommand(adminCreateCmd())
	return cmd
}

func adminCreateCmd() *cobra.Command {
	var req user.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := user.NewService(
				user.NewPgxRepository(pool),
				auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost),
				log,
			)

			req.IsAdmin = true
			u, err := svc.Register(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", u.ID, u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.DNI, "dni", "", "National identity document")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password (at least 8 characters)")
	for _, f := range []string{"email", "name", "dni", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
