package facility

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Facility, error)
	List(ctx context.Context, filter Filter) ([]*Facility, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Facility, error) {
	query, args, err := psql.Select("id", "kind", "name", "description", "created_at").
		From("public.facilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get facility query failed: %w", err)
	}

	var f Facility
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&f.ID, &f.Kind, &f.Name, &f.Description, &f.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.InvalidTextRepresentation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get facility failed: %w", err)
	}
	return &f, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Facility, int, error) {
	query := psql.Select("id", "kind", "name", "description", "created_at", "count(*) OVER() AS total_count").
		From("public.facilities")

	if filter.Kind != "" {
		query = query.Where(squirrel.Eq{"kind": filter.Kind})
	}

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("kind", "name").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list facilities query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list facilities failed: %w", err)
	}
	defer rows.Close()

	var result []*Facility
	var total int

	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Kind, &f.Name, &f.Description, &f.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan facility failed: %w", err)
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate facilities failed: %w", err)
	}

	return result, total, nil
}
