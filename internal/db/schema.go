package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names referenced by repositories when classifying errors.
const (
	ConstraintResourceDateSlot = "uq_reservation_slots_resource_date_slot"
	ConstraintReservationSlot  = "uq_reservation_slots_reservation_slot"
	ConstraintReservationRes   = "fk_reservations_resource"
	ConstraintReservationUser  = "fk_reservations_user"
	ConstraintSlotRef          = "fk_reservation_slots_slot"
	ConstraintResourceName     = "uq_resources_name"
	ConstraintSlotRangeShift   = "uq_time_slots_range_shift"
	ConstraintSurchargeName    = "uq_surcharges_name"
	ConstraintUserEmail        = "uq_users_email"
	ConstraintUserDNI          = "uq_users_dni"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL applied by ApplySchema.
func Schema() string {
	return schemaSQL
}

// ApplySchema creates any missing tables, indexes and constraints.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	// Simple protocol allows several statements in one round trip.
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection failed: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Conn().PgConn().Exec(ctx, schemaSQL).ReadAll(); err != nil {
		return fmt.Errorf("apply schema failed: %w", err)
	}
	return nil
}
