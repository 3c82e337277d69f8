package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/padel-booking-backend/internal/db"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id int64, t time.Time) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Update(ctx context.Context, u *User) error
	// Delete removes the user and, by cascade, their reservations.
	Delete(ctx context.Context, id int64) error
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxUserRepository{
		pool: pool,
	}
}

var userColumns = []string{
	"u.id", "u.email", "u.name", "u.dni", "u.password_hash",
	"u.is_admin", "u.created_at", "u.last_login_at",
}

func scanUser(row pgx.Row, extra ...any) (*User, error) {
	var u User
	dest := append([]any{
		&u.ID, &u.Email, &u.Name, &u.DNI, &u.PasswordHash,
		&u.IsAdmin, &u.CreatedAt, &u.LastLoginAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgxUserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(userColumns...).
		From("public.users u").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query failed: %w", err)
	}

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	return u, nil
}

func (r *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.email": email})
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

func (r *pgxUserRepository) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO public.users (email, name, dni, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		u.Email, u.Name, u.DNI, u.PasswordHash, u.IsAdmin,
	).Scan(&u.ID, &u.CreatedAt); err != nil {
		return mapWriteError(err, "create user failed")
	}

	return nil
}

func mapWriteError(err error, msg string) error {
	switch {
	case db.IsUniqueViolation(err, db.ConstraintUserEmail):
		return ErrEmailAlreadyUsed
	case db.IsUniqueViolation(err, db.ConstraintUserDNI):
		return ErrDNIAlreadyUsed
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (r *pgxUserRepository) UpdateLastLogin(ctx context.Context, id int64, t time.Time) error {
	const query = `
		UPDATE public.users
		SET last_login_at = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	const query = `
		UPDATE public.users
		SET password_hash = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("update password failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxUserRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(userColumns, "count(*) OVER() AS total_count")...).
		From("public.users u")

	// Dynamic filtering
	if filter.Email != "" {
		query = query.Where(squirrel.ILike{"u.email": "%" + filter.Email + "%"})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"u.name": "%" + filter.Name + "%"})
	}
	if filter.DNI != "" {
		query = query.Where(squirrel.Eq{"u.dni": filter.DNI})
	}
	if filter.IsAdmin != nil {
		query = query.Where(squirrel.Eq{"u.is_admin": *filter.IsAdmin})
	}

	// Sorting
	orderBy := "u.created_at"
	if filter.SortBy != "" {
		orderBy = "u." + filter.SortBy
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}

	query = query.OrderBy(orderBy+" "+orderDir, "u.id "+orderDir)

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
		return nil, 0, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	var total int

	for rows.Next() {
		u, err := scanUser(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}

	return users, total, nil
}

func (r *pgxUserRepository) Update(ctx context.Context, u *User) error {
	const query = `
		UPDATE public.users
		SET name = $1, dni = $2, is_admin = $3
		WHERE id = $4
	`

	ct, err := r.pool.Exec(ctx, query, u.Name, u.DNI, u.IsAdmin, u.ID)
	if err != nil {
		return mapWriteError(err, "update user failed")
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxUserRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM public.users WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
