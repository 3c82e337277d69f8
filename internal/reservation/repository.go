package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/padel-booking-backend/internal/catalog"
	"github.com/nekogravitycat/padel-booking-backend/internal/db"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
)

type Repository interface {
	// ClaimedSlotIDs returns the slot ids booked on resourceID for date, ascending.
	ClaimedSlotIDs(ctx context.Context, resourceID int64, date time.Time) ([]int64, error)
	// ClaimedByResource returns every booked slot id of date grouped by resource id.
	ClaimedByResource(ctx context.Context, date time.Time) (map[int64][]int64, error)

	// Create persists the reservation and its assignments in one transaction.
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	// Delete removes the reservation and, by cascade, its assignments.
	// A non-zero ownerID restricts the delete to that owner's reservation.
	Delete(ctx context.Context, id, ownerID int64) error
}

// TxOptions bounds the booking transaction.
type TxOptions struct {
	// CommitTimeout caps the whole transaction, from BEGIN to COMMIT.
	CommitTimeout time.Duration
	// LockTimeout caps each wait on a row or index lock held by a concurrent booking.
	LockTimeout time.Duration
}

type pgxRepository struct {
	pool *pgxpool.Pool
	opts TxOptions
}

// withDefaults fills unset timeouts and keeps the lock wait within the commit budget.
func (o TxOptions) withDefaults() TxOptions {
	if o.CommitTimeout <= 0 {
		o.CommitTimeout = 3 * time.Second
	}
	if o.LockTimeout <= 0 || o.LockTimeout > o.CommitTimeout {
		o.LockTimeout = o.CommitTimeout
	}
	return o
}

func NewPgxRepository(pool *pgxpool.Pool, opts TxOptions) Repository {
	return &pgxRepository{pool: pool, opts: opts.withDefaults()}
}

func (r *pgxRepository) ClaimedSlotIDs(ctx context.Context, resourceID int64, date time.Time) ([]int64, error) {
	const query = `
		SELECT rs.slot_id
		FROM public.reservation_slots rs
		WHERE rs.resource_id = $1 AND rs.booking_date = $2
		ORDER BY rs.slot_id
	`
	rows, err := r.pool.Query(ctx, query, resourceID, date)
	if err != nil {
		return nil, classify(fmt.Errorf("query claimed slots failed: %w", err))
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, classify(fmt.Errorf("scan claimed slots failed: %w", err))
	}
	return ids, nil
}

func (r *pgxRepository) ClaimedByResource(ctx context.Context, date time.Time) (map[int64][]int64, error) {
	const query = `
		SELECT rs.resource_id, array_agg(rs.slot_id ORDER BY rs.slot_id)
		FROM public.reservation_slots rs
		WHERE rs.booking_date = $1
		GROUP BY rs.resource_id
	`
	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, classify(fmt.Errorf("query claimed slots by resource failed: %w", err))
	}
	defer rows.Close()

	claimed := make(map[int64][]int64)
	for rows.Next() {
		var resourceID int64
		var slotIDs []int64
		if err := rows.Scan(&resourceID, &slotIDs); err != nil {
			return nil, fmt.Errorf("scan claimed slots failed: %w", err)
		}
		claimed[resourceID] = slotIDs
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("query claimed slots by resource failed: %w", err))
	}
	return claimed, nil
}

func (r *pgxRepository) Create(ctx context.Context, res *Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.CommitTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapCommitError(fmt.Errorf("begin reservation tx failed: %w", err))
	}
	// Rollback is a no-op once Commit succeeded.
	defer tx.Rollback(ctx)

	// Transaction-local: a competing insert on the same (resource, date, slot)
	// blocks on the unique index until the other transaction ends.
	lockTimeout := fmt.Sprintf("%dms", r.opts.LockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, lockTimeout); err != nil {
		return mapCommitError(fmt.Errorf("set lock timeout failed: %w", err))
	}

	const insertReservation = `
		INSERT INTO public.reservations
			(user_id, resource_id, booking_date, surcharge_id, surcharge_name, surcharge_amount)
		VALUES ($1, $2, $3, $4, $5, $6::numeric)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, insertReservation,
		res.UserID, res.ResourceID, res.Date,
		res.SurchargeID, res.SurchargeName, db.NumericArg(res.SurchargeAmount),
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		return mapCommitError(fmt.Errorf("insert reservation failed: %w", err))
	}

	const insertSlot = `
		INSERT INTO public.reservation_slots
			(reservation_id, resource_id, booking_date, slot_id, price)
		VALUES ($1, $2, $3, $4, $5::numeric)
		RETURNING id
	`
	batch := &pgx.Batch{}
	for i := range res.Slots {
		a := &res.Slots[i]
		batch.Queue(insertSlot, res.ID, res.ResourceID, res.Date, a.SlotID, db.NumericArg(a.Price)).
			QueryRow(func(row pgx.Row) error {
				return row.Scan(&a.ID)
			})
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapCommitError(fmt.Errorf("insert reservation slots failed: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return mapCommitError(fmt.Errorf("commit reservation failed: %w", err))
	}
	return nil
}

// mapCommitError turns constraint failures into domain errors.
func mapCommitError(err error) error {
	switch {
	case db.IsUniqueViolation(err, db.ConstraintResourceDateSlot):
		// Lost the race against a concurrent booking; the ids are not known here.
		return apperror.WrapAs(err, ErrSlotsTaken)
	case db.IsForeignKeyViolation(err, db.ConstraintReservationRes):
		return apperror.WrapAs(err, catalog.ErrResourceNotFound)
	case db.IsForeignKeyViolation(err, db.ConstraintSlotRef):
		return apperror.WrapAs(err, catalog.ErrUnknownSlots)
	case db.IsForeignKeyViolation(err, db.ConstraintReservationUser):
		return apperror.WrapAs(err, ErrUnknownUser)
	}
	return classify(err)
}

// classify marks retryable store failures as ErrTransient and leaves the rest untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if db.IsTransient(err) {
		return apperror.WrapAs(err, ErrTransient)
	}
	return err
}

var reservationColumns = []string{
	"r.id", "r.user_id", "r.resource_id", "res.name", "r.booking_date",
	"r.surcharge_id", "r.surcharge_name", "r.surcharge_amount::text", "r.created_at",
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var res Reservation
	var surchargeAmount string
	dest := append([]any{
		&res.ID, &res.UserID, &res.ResourceID, &res.ResourceName, &res.Date,
		&res.SurchargeID, &res.SurchargeName, &surchargeAmount, &res.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	amount, err := db.ParseNumeric(surchargeAmount)
	if err != nil {
		return nil, err
	}
	res.SurchargeAmount = amount
	return &res, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reservationColumns...).
		From("public.reservations r").
		Join("public.resources res ON res.id = r.resource_id").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	res, err := scanReservation(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify(fmt.Errorf("get reservation failed: %w", err))
	}

	if err := r.attachSlots(ctx, []*Reservation{res}); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(reservationColumns, "count(*) OVER() AS total_count")...).
		From("public.reservations r").
		Join("public.resources res ON res.id = r.resource_id")

	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"r.user_id": filter.UserID})
	}
	if filter.ResourceID != 0 {
		query = query.Where(squirrel.Eq{"r.resource_id": filter.ResourceID})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"r.booking_date": *filter.Date})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"r.booking_date": *filter.DateFrom})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("r.booking_date "+orderDir, "r.id "+orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, classify(fmt.Errorf("list reservations failed: %w", err))
	}
	defer rows.Close()

	var list []*Reservation
	var total int
	for rows.Next() {
		res, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(fmt.Errorf("list reservations failed: %w", err))
	}
	rows.Close()

	if err := r.attachSlots(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// attachSlots loads the assignments of all given reservations in one query.
func (r *pgxRepository) attachSlots(ctx context.Context, list []*Reservation) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[int64]*Reservation, len(list))
	ids := make([]int64, len(list))
	for i, res := range list {
		byID[res.ID] = res
		ids[i] = res.ID
	}

	const query = `
		SELECT rs.reservation_id, rs.id, rs.slot_id, ts.range_label, ts.shift, rs.price::text
		FROM public.reservation_slots rs
		JOIN public.time_slots ts ON ts.id = rs.slot_id
		WHERE rs.reservation_id = ANY($1)
		ORDER BY rs.reservation_id, rs.slot_id
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return classify(fmt.Errorf("load reservation slots failed: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var reservationID int64
		var a Assignment
		var price string
		if err := rows.Scan(&reservationID, &a.ID, &a.SlotID, &a.Range, &a.Shift, &price); err != nil {
			return fmt.Errorf("scan reservation slot failed: %w", err)
		}
		if a.Price, err = db.ParseNumeric(price); err != nil {
			return err
		}
		if res, ok := byID[reservationID]; ok {
			res.Slots = append(res.Slots, a)
		}
	}
	if err := rows.Err(); err != nil {
		return classify(fmt.Errorf("load reservation slots failed: %w", err))
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id, ownerID int64) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Delete("public.reservations").Where(squirrel.Eq{"id": id})
	if ownerID != 0 {
		query = query.Where(squirrel.Eq{"user_id": ownerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build delete reservation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return classify(fmt.Errorf("delete reservation failed: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
