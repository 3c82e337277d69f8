package surcharge

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/padel-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, s *Surcharge) error
	GetByID(ctx context.Context, id int64) (*Surcharge, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (*Surcharge, error)
	List(ctx context.Context) ([]*Surcharge, error)
	Update(ctx context.Context, s *Surcharge) error
	Delete(ctx context.Context, id int64) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const selectSurcharge = `SELECT id, name, amount::text, created_at FROM public.surcharges`

func scanSurcharge(row pgx.Row) (*Surcharge, error) {
	var s Surcharge
	var amount string
	if err := row.Scan(&s.ID, &s.Name, &amount, &s.CreatedAt); err != nil {
		return nil, err
	}
	d, err := db.ParseNumeric(amount)
	if err != nil {
		return nil, err
	}
	s.Amount = d
	return &s, nil
}

func (r *pgxRepository) Create(ctx context.Context, s *Surcharge) error {
	const query = `
		INSERT INTO public.surcharges (name, amount)
		VALUES ($1, $2::numeric)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, s.Name, db.NumericArg(s.Amount)).Scan(&s.ID, &s.CreatedAt); err != nil {
		if db.IsUniqueViolation(err, db.ConstraintSurchargeName) {
			return ErrNameTaken
		}
		return fmt.Errorf("create surcharge failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Surcharge, error) {
	s, err := scanSurcharge(r.pool.QueryRow(ctx, selectSurcharge+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get surcharge failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) GetByName(ctx context.Context, name string) (*Surcharge, error) {
	s, err := scanSurcharge(r.pool.QueryRow(ctx, selectSurcharge+` WHERE lower(name) = lower($1)`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get surcharge by name failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) List(ctx context.Context) ([]*Surcharge, error) {
	rows, err := r.pool.Query(ctx, selectSurcharge+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list surcharges failed: %w", err)
	}
	defer rows.Close()

	var result []*Surcharge
	for rows.Next() {
		s, err := scanSurcharge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan surcharge failed: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, s *Surcharge) error {
	const query = `UPDATE public.surcharges SET name = $1, amount = $2::numeric WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, s.Name, db.NumericArg(s.Amount), s.ID)
	if err != nil {
		if db.IsUniqueViolation(err, db.ConstraintSurchargeName) {
			return ErrNameTaken
		}
		return fmt.Errorf("update surcharge failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete keeps past reservations intact: they hold their own copy of name and amount.
func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.surcharges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete surcharge failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
