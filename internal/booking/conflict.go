package booking

import (
	"context"
	"time"
)

// UnitKey identifies the finest-grained bookable thing. Partition is empty
// for singleton kinds, the floor number for communal rooms and the facility
// id for facility-partitioned kinds.
type UnitKey struct {
	Kind      Kind
	Partition string
}

func (u UnitKey) String() string {
	if u.Partition == "" {
		return string(u.Kind)
	}
	return string(u.Kind) + "/" + u.Partition
}

// Overlaps is the half-open interval test. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ConflictDetector answers whether a proposed interval collides with a stored
// reservation on the same unit.
type ConflictDetector struct {
	repo Repository
}

func NewConflictDetector(repo Repository) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// HasConflict checks unit for a reservation overlapping [start, end).
// excludeID, when non-empty, is skipped so an update never collides with itself.
func (d *ConflictDetector) HasConflict(ctx context.Context, unit UnitKey, start, end time.Time, excludeID string) (bool, error) {
	return d.repo.HasOverlap(ctx, unit, start, end, excludeID)
}
