package resource

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
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id int64) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	// ListAll returns every resource ordered by id.
	ListAll(ctx context.Context) ([]*Resource, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id int64) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var resourceColumns = []string{"id", "name", "covered", "capacity", "base_price::text", "created_at"}

func scanResource(row pgx.Row, extra ...any) (*Resource, error) {
	var res Resource
	var basePrice string
	dest := append([]any{&res.ID, &res.Name, &res.Covered, &res.Capacity, &basePrice, &res.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	price, err := db.ParseNumeric(basePrice)
	if err != nil {
		return nil, err
	}
	res.BasePrice = price
	return &res, nil
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, db.ConstraintResourceName):
		return ErrNameTaken
	case db.IsCheckViolation(err, "ck_resources_capacity"):
		return ErrInvalidCapacity
	case db.IsCheckViolation(err, "ck_resources_base_price"):
		return ErrNegativeBasePrice
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	const query = `
		INSERT INTO public.resources (name, covered, capacity, base_price)
		VALUES ($1, $2, $3, $4::numeric)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, res.Name, res.Covered, res.Capacity, db.NumericArg(res.BasePrice)).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Resource, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(resourceColumns...).
		From("public.resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get resource query failed: %w", err)
	}

	res, err := scanResource(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(resourceColumns, "count(*) OVER() AS total_count")...).
		From("public.resources")

	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.Covered != nil {
		query = query.Where(squirrel.Eq{"covered": *filter.Covered})
	}

	// Sorting
	orderBy := "id"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

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
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	var total int
	for rows.Next() {
		res, err := scanResource(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan resource failed: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) ListAll(ctx context.Context) ([]*Resource, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(resourceColumns...).
		From("public.resources").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list all resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource failed: %w", err)
		}
		result = append(result, res)
	}
	return result, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	const query = `
		UPDATE public.resources
		SET name = $1, covered = $2, capacity = $3, base_price = $4::numeric
		WHERE id = $5
	`
	ct, err := r.pool.Exec(ctx, query, res.Name, res.Covered, res.Capacity, db.NumericArg(res.BasePrice), res.ID)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the resource; its reservations go with it (ON DELETE CASCADE).
func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM public.resources WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
