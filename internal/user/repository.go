package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Update(ctx context.Context, u *User) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var userColumns = []string{
	"id", "email", "password_hash", "full_name", "nickname", "phone",
	"created_at", "last_login_at", "is_active", "is_admin",
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository returns a Repository backed by PostgreSQL.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, pgx.ErrNoRows), isPgCode(err, pgerrcode.InvalidTextRepresentation):
		// A malformed uuid can never match a row.
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("query user: %w", err)
	}
}

func scanUser(row pgx.Row, extra ...any) (*User, error) {
	var u User
	dest := append([]any{
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Nickname, &u.Phone,
		&u.CreatedAt, &u.LastLoginAt, &u.IsActive, &u.IsAdmin,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) Create(ctx context.Context, u *User) error {
	query, args, err := psql.Insert("users").
		Columns("email", "password_hash", "full_name", "nickname", "phone", "is_active", "is_admin").
		Values(u.Email, u.PasswordHash, u.FullName, u.Nickname, u.Phone, u.IsActive, u.IsAdmin).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
		if isPgCode(err, pgerrcode.UniqueViolation) {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	query, args, err := psql.Update("users").
		Set("last_login_at", t).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	query := psql.Select(userColumns...).Column("count(*) OVER() AS total_count").From("users")

	if filter.Email != "" {
		query = query.Where(squirrel.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.Name != "" {
		pattern := "%" + filter.Name + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"nickname": pattern},
		})
	}
	if filter.Phone != "" {
		query = query.Where(squirrel.Eq{"phone": filter.Phone})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	sql, args, err := query.OrderBy("created_at DESC", "id").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var (
		users []*User
		total int
	)
	for rows.Next() {
		u, err := scanUser(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, u *User) error {
	query, args, err := psql.Update("users").
		SetMap(map[string]any{
			"full_name": u.FullName,
			"nickname":  u.Nickname,
			"phone":     u.Phone,
			"is_active": u.IsActive,
			"is_admin":  u.IsAdmin,
		}).
		Where(squirrel.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isPgCode(err, pgerrcode.InvalidTextRepresentation) {
			return ErrNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
