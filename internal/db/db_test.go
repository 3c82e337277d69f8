package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pgErr(code, constraint string) error {
	return fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

func TestConstraintClassification(t *testing.T) {
	unique := pgErr(pgerrcode.UniqueViolation, ConstraintResourceDateSlot)
	assert.True(t, IsUniqueViolation(unique, ConstraintResourceDateSlot))
	assert.True(t, IsUniqueViolation(unique, ""))
	assert.False(t, IsUniqueViolation(unique, ConstraintReservationSlot))
	assert.False(t, IsForeignKeyViolation(unique, ""))

	fk := pgErr(pgerrcode.ForeignKeyViolation, ConstraintSlotRef)
	assert.True(t, IsForeignKeyViolation(fk, ConstraintSlotRef))
	assert.False(t, IsForeignKeyViolation(fk, ConstraintReservationRes))

	check := pgErr(pgerrcode.CheckViolation, "ck_resources_capacity")
	assert.True(t, IsCheckViolation(check, "ck_resources_capacity"))
	assert.False(t, IsCheckViolation(errors.New("plain"), ""))
}

func TestIsTransient(t *testing.T) {
	transient := []error{
		context.DeadlineExceeded,
		fmt.Errorf("commit: %w", context.DeadlineExceeded),
		pgErr(pgerrcode.LockNotAvailable, ""),
		pgErr(pgerrcode.SerializationFailure, ""),
		pgErr(pgerrcode.DeadlockDetected, ""),
		pgErr(pgerrcode.QueryCanceled, ""),
		pgErr(pgerrcode.AdminShutdown, ""),
		pgErr(pgerrcode.ConnectionFailure, ""),
	}
	for _, err := range transient {
		assert.True(t, IsTransient(err), "%v", err)
	}

	permanent := []error{
		nil,
		errors.New("boom"),
		pgErr(pgerrcode.UniqueViolation, ConstraintResourceDateSlot),
		pgErr(pgerrcode.UndefinedTable, ""),
	}
	for _, err := range permanent {
		assert.False(t, IsTransient(err), "%v", err)
	}
}

func TestNumeric(t *testing.T) {
	d, err := ParseNumeric("12.50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "12.50", NumericArg(d))
	assert.Equal(t, "3.00", NumericArg(decimal.NewFromInt(3)))

	_, err = ParseNumeric("twelve")
	assert.Error(t, err)
}

func TestSchemaNamesConstraints(t *testing.T) {
	for _, name := range []string{
		ConstraintResourceDateSlot, ConstraintReservationSlot, ConstraintReservationRes,
		ConstraintReservationUser, ConstraintSlotRef, ConstraintResourceName,
		ConstraintSlotRangeShift, ConstraintSurchargeName, ConstraintUserEmail, ConstraintUserDNI,
	} {
		assert.Contains(t, Schema(), name)
	}
}
