package timeslot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/padel-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, s *Slot) error
	GetByID(ctx context.Context, id int64) (*Slot, error)
	// List returns matching slots ordered by id.
	List(ctx context.Context, filter Filter) ([]*Slot, error)
	// ListByIDs returns the slots among ids that exist, ordered by id.
	ListByIDs(ctx context.Context, ids []int64) ([]*Slot, error)
	Update(ctx context.Context, s *Slot) error
	Delete(ctx context.Context, id int64) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, s *Slot) error {
	const query = `
		INSERT INTO public.time_slots (range_label, shift)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.pool.QueryRow(ctx, query, s.Range, s.Shift).Scan(&s.ID); err != nil {
		if db.IsUniqueViolation(err, db.ConstraintSlotRangeShift) {
			return ErrDuplicate
		}
		return fmt.Errorf("create time slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Slot, error) {
	const query = `SELECT id, range_label, shift FROM public.time_slots WHERE id = $1`

	var s Slot
	if err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Range, &s.Shift); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get time slot failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Slot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "range_label", "shift").
		From("public.time_slots").
		OrderBy("id")
	if filter.Shift != "" {
		query = query.Where(squirrel.Eq{"shift": filter.Shift})
	}
	return r.query(ctx, query)
}

func (r *pgxRepository) ListByIDs(ctx context.Context, ids []int64) ([]*Slot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "range_label", "shift").
		From("public.time_slots").
		Where("id = ANY(?)", ids).
		OrderBy("id")
	return r.query(ctx, query)
}

func (r *pgxRepository) query(ctx context.Context, b squirrel.SelectBuilder) ([]*Slot, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list time slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list time slots failed: %w", err)
	}
	defer rows.Close()

	var slots []*Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.Range, &s.Shift); err != nil {
			return nil, fmt.Errorf("scan time slot failed: %w", err)
		}
		slots = append(slots, &s)
	}
	return slots, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, s *Slot) error {
	const query = `UPDATE public.time_slots SET range_label = $1, shift = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, s.Range, s.Shift, s.ID)
	if err != nil {
		if db.IsUniqueViolation(err, db.ConstraintSlotRangeShift) {
			return ErrDuplicate
		}
		return fmt.Errorf("update time slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete fails with ErrInUse while any reservation still holds the slot.
func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.time_slots WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err, db.ConstraintSlotRef) {
			return ErrInUse
		}
		return fmt.Errorf("delete time slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
