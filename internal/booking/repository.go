package booking

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

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, kind Kind, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	Update(ctx context.Context, r *Reservation) error
	Delete(ctx context.Context, id string) error

	// HasOverlap checks if there is any reservation on unit intersecting [start, end).
	// excludeID is used during updates to ignore the reservation itself.
	HasOverlap(ctx context.Context, unit UnitKey, start, end time.Time, excludeID string) (bool, error)

	// ListBetween returns every reservation of kind intersecting [from, to), ordered by start.
	ListBetween(ctx context.Context, kind Kind, from, to time.Time) ([]*Reservation, error)

	// MarkDoneBefore flags every open reservation that ended at or before t.
	MarkDoneBefore(ctx context.Context, t time.Time) (int64, error)
}

// Constraint names from the schema, used to tell storage rejections apart.
const (
	constraintNoOverlap   = "reservations_no_overlap"
	constraintRequesterFK = "reservations_requester_id_fkey"
	constraintFacilityFK  = "reservations_facility_id_fkey"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func selectReservations() squirrel.SelectBuilder {
	return psql.Select(
		"r.id", "r.kind", "r.unit_key", "r.requester_id", "u.full_name", "u.phone",
		"r.facility_id", "f.name", "r.floor",
		"r.start_time", "r.end_time", "r.attendee_count", "r.notes",
		"r.borrow_equipment", "r.is_done", "r.created_at", "r.updated_at",
	).
		From("public.reservations r").
		Join("public.users u ON r.requester_id = u.id").
		LeftJoin("public.facilities f ON r.facility_id = f.id")
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var (
		r             Reservation
		kind          string
		attendeeCount *int
	)
	dest := []any{
		&r.ID, &kind, &r.UnitKey, &r.RequesterID, &r.RequesterName, &r.RequesterPhone,
		&r.FacilityID, &r.FacilityName, &r.Floor,
		&r.StartTime, &r.EndTime, &attendeeCount, &r.Notes,
		&r.BorrowEquipment, &r.IsDone, &r.CreatedAt, &r.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	r.Kind = Kind(kind)
	if attendeeCount != nil {
		r.AttendeeCount = *attendeeCount
	}
	return &r, nil
}

func (r *pgxRepository) Create(ctx context.Context, res *Reservation) error {
	query, args, err := psql.Insert("public.reservations").
		Columns(
			"kind", "unit_key", "requester_id", "facility_id", "floor",
			"start_time", "end_time", "attendee_count", "notes", "borrow_equipment", "is_done",
		).
		Values(
			string(res.Kind), res.UnitKey, res.RequesterID, res.FacilityID, res.Floor,
			res.StartTime, res.EndTime, res.AttendeeCount, res.Notes, res.BorrowEquipment, res.IsDone,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, kind Kind, id string) (*Reservation, error) {
	query, args, err := selectReservations().
		Where(squirrel.Eq{"r.id": id, "r.kind": string(kind)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	res, err := scanReservation(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		// A malformed id can never match a row.
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.InvalidTextRepresentation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return res, nil
}

// listQuery builds the filtered listing. A zero PageSize returns every match.
func listQuery(filter Filter) squirrel.SelectBuilder {
	query := selectReservations().
		Column("count(*) OVER() AS total_count").
		Where(squirrel.Eq{"r.kind": string(filter.Kind)})

	if filter.RequesterID != "" {
		query = query.Where(squirrel.Eq{"r.requester_id": filter.RequesterID})
	}
	if filter.UnitKey != nil {
		query = query.Where(squirrel.Eq{"r.unit_key": *filter.UnitKey})
	}
	if filter.IsDone != nil {
		query = query.Where(squirrel.Eq{"r.is_done": *filter.IsDone})
	}

	query = query.OrderBy("r.start_time DESC")

	if filter.PageSize > 0 {
		if filter.Page < 1 {
			filter.Page = 1
		}
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}
	return query
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	sql, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.InvalidTextRepresentation {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var result []*Reservation
	var total int

	for rows.Next() {
		res, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reservations failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Reservation) error {
	query, args, err := psql.Update("public.reservations").
		Set("unit_key", res.UnitKey).
		Set("requester_id", res.RequesterID).
		Set("facility_id", res.FacilityID).
		Set("floor", res.Floor).
		Set("start_time", res.StartTime).
		Set("end_time", res.EndTime).
		Set("attendee_count", res.AttendeeCount).
		Set("notes", res.Notes).
		Set("borrow_equipment", res.BorrowEquipment).
		Set("is_done", res.IsDone).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update reservation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete reservation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete reservation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, unit UnitKey, start, end time.Time, excludeID string) (bool, error) {
	// Half-open overlap: ExistingStart < NewEnd AND ExistingEnd > NewStart
	subQuery := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{"kind": string(unit.Kind), "unit_key": unit.Partition}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListBetween(ctx context.Context, kind Kind, from, to time.Time) ([]*Reservation, error) {
	sql, args, err := selectReservations().
		Where(squirrel.Eq{"r.kind": string(kind)}).
		Where(squirrel.Lt{"r.start_time": to}).
		Where(squirrel.Gt{"r.end_time": from}).
		OrderBy("r.start_time ASC", "r.unit_key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reservations between query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations between failed: %w", err)
	}
	defer rows.Close()

	var result []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) MarkDoneBefore(ctx context.Context, t time.Time) (int64, error) {
	query, args, err := psql.Update("public.reservations").
		Set("is_done", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"is_done": false}).
		Where(squirrel.LtOrEq{"end_time": t}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark done query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark done failed: %w", err)
	}
	return ct.RowsAffected(), nil
}

// mapWriteError turns constraint violations into engine rejections. The
// exclusion constraint reports the same conflict the pre-check would have.
func mapWriteError(err error) error {
	var e *pgconn.PgError
	if !errors.As(err, &e) {
		return nil
	}
	switch {
	case e.Code == pgerrcode.ExclusionViolation && e.ConstraintName == constraintNoOverlap:
		return apperror.Wrap(ErrConflict, err)
	case e.Code == pgerrcode.ForeignKeyViolation && e.ConstraintName == constraintRequesterFK:
		return apperror.Wrap(ErrRequesterNotFound, err)
	case e.Code == pgerrcode.ForeignKeyViolation && e.ConstraintName == constraintFacilityFK:
		return apperror.Wrap(ErrFacilityNotFound, err)
	case e.Code == pgerrcode.InvalidTextRepresentation:
		return apperror.Wrap(ErrInvalidInput, err)
	}
	return nil
}
