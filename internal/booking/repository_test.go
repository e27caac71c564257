package booking

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/facility-booking-backend/internal/db"
)

// newTestPool connects to TEST_DB_DSN, applies migrations and empties the
// reservation tables. Tests are skipped when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../../.env")
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, "TRUNCATE TABLE public.reservations, public.users CASCADE")
	require.NoError(t, err)
	return pool
}

func insertUser(t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO public.users (email, password_hash, full_name, phone) VALUES ($1, 'x', $2, '+62811') RETURNING id`,
		email, "Resident "+email,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func facilityID(t *testing.T, pool *pgxpool.Pool, kind Kind) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`SELECT id FROM public.facilities WHERE kind = $1 ORDER BY name LIMIT 1`, string(kind),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPgxRepository_CRUD(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	requester := insertUser(t, pool, "crud@example.com")
	stove := facilityID(t, pool, KindKitchen)
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)

	res := &Reservation{
		Kind:            KindKitchen,
		UnitKey:         stove,
		RequesterID:     requester,
		FacilityID:      &stove,
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		AttendeeCount:   2,
		BorrowEquipment: true,
	}
	require.NoError(t, repo.Create(ctx, res))
	require.NotEmpty(t, res.ID)

	got, err := repo.GetByID(ctx, KindKitchen, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Resident crud@example.com", got.RequesterName)
	require.NotNil(t, got.RequesterPhone)
	require.NotNil(t, got.FacilityName)
	assert.True(t, got.BorrowEquipment)
	assert.True(t, got.StartTime.Equal(start))

	_, err = repo.GetByID(ctx, KindTheater, res.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, KindKitchen, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	notes := "pick up the oven mitts"
	got.Notes = &notes
	require.NoError(t, repo.Update(ctx, got))

	items, total, err := repo.List(ctx, Filter{Kind: KindKitchen, RequesterID: requester, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, notes, *items[0].Notes)

	between, err := repo.ListBetween(ctx, KindKitchen, start.Add(30*time.Minute), start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, between, 1)

	require.NoError(t, repo.Delete(ctx, res.ID))
	assert.ErrorIs(t, repo.Delete(ctx, res.ID), ErrNotFound)
}

func TestPgxRepository_OverlapAndConstraint(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	requester := insertUser(t, pool, "race@example.com")
	start := time.Now().Add(72 * time.Hour).Truncate(time.Hour)
	unit := UnitKey{Kind: KindCommunal, Partition: "2"}
	floor := 2

	newRes := func(s time.Time) *Reservation {
		return &Reservation{
			Kind: KindCommunal, UnitKey: unit.Partition, RequesterID: requester, Floor: &floor,
			StartTime: s, EndTime: s.Add(time.Hour),
		}
	}

	first := newRes(start)
	require.NoError(t, repo.Create(ctx, first))

	overlap, err := repo.HasOverlap(ctx, unit, start.Add(30*time.Minute), start.Add(90*time.Minute), "")
	require.NoError(t, err)
	assert.True(t, overlap)

	overlap, err = repo.HasOverlap(ctx, unit, start.Add(time.Hour), start.Add(2*time.Hour), "")
	require.NoError(t, err)
	assert.False(t, overlap, "touching intervals")

	overlap, err = repo.HasOverlap(ctx, unit, start, start.Add(time.Hour), first.ID)
	require.NoError(t, err)
	assert.False(t, overlap, "self is excluded")

	// The exclusion constraint rejects a write that skipped the pre-check.
	err = repo.Create(ctx, newRes(start))
	assert.ErrorIs(t, err, ErrConflict)

	// Concurrent inserts on a fresh slot leave exactly one row.
	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Create(ctx, newRes(start.Add(3*time.Hour)))
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for err := range results {
		if err == nil {
			admitted++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, admitted)

	err = repo.Create(ctx, &Reservation{
		Kind: KindTheater, RequesterID: uuid.NewString(),
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrRequesterNotFound)
}

func TestPgxRepository_MarkDoneBefore(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	requester := insertUser(t, pool, "done@example.com")
	base := time.Now().Add(-5 * time.Hour).Truncate(time.Hour)

	for i := 0; i < 3; i++ {
		s := base.Add(time.Duration(i) * 2 * time.Hour)
		require.NoError(t, repo.Create(ctx, &Reservation{
			Kind: KindTheater, RequesterID: requester, StartTime: s, EndTime: s.Add(time.Hour),
		}))
	}

	n, err := repo.MarkDoneBefore(ctx, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.MarkDoneBefore(ctx, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
