package db

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgError extracts the server error from err, if any.
func pgError(err error) (*pgconn.PgError, bool) {
	var e *pgconn.PgError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsUniqueViolation reports a unique violation. An empty constraint matches any constraint.
func IsUniqueViolation(err error, constraint string) bool {
	e, ok := pgError(err)
	if !ok || e.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || e.ConstraintName == constraint
}

// IsForeignKeyViolation reports a foreign key violation. An empty constraint matches any constraint.
func IsForeignKeyViolation(err error, constraint string) bool {
	e, ok := pgError(err)
	if !ok || e.Code != pgerrcode.ForeignKeyViolation {
		return false
	}
	return constraint == "" || e.ConstraintName == constraint
}

// IsCheckViolation reports a CHECK constraint violation. An empty constraint matches any constraint.
func IsCheckViolation(err error, constraint string) bool {
	e, ok := pgError(err)
	if !ok || e.Code != pgerrcode.CheckViolation {
		return false
	}
	return constraint == "" || e.ConstraintName == constraint
}

// IsTransient reports failures that say nothing about the request itself:
// timeouts, lock waits, serialization and deadlock aborts, and lost connections.
// Retrying the same statement later may succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	if e, ok := pgError(err); ok {
		switch e.Code {
		case pgerrcode.LockNotAvailable,
			pgerrcode.QueryCanceled,
			pgerrcode.AdminShutdown,
			pgerrcode.CannotConnectNow,
			pgerrcode.TooManyConnections:
			return true
		}
		return pgerrcode.IsTransactionRollback(e.Code) || pgerrcode.IsConnectionException(e.Code)
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr) || pgconn.SafeToRetry(err)
}
