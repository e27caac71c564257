package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Repository. Create and Update reject overlaps on
// the same unit under one lock, the way the exclusion constraint does.
type memStore struct {
	mu            sync.Mutex
	items         map[string]*Reservation
	seq           int
	overlapChecks int

	users      map[string]string // id -> full name
	facilities map[string]string // id -> name
}

func newMemStore() *memStore {
	return &memStore{
		items:      map[string]*Reservation{},
		users:      map[string]string{},
		facilities: map[string]string{},
	}
}

func (m *memStore) joined(r *Reservation) *Reservation {
	cp := *r
	cp.RequesterName = m.users[r.RequesterID]
	if r.FacilityID != nil {
		if name, ok := m.facilities[*r.FacilityID]; ok {
			cp.FacilityName = &name
		}
	}
	return &cp
}

func (m *memStore) collides(r *Reservation) bool {
	for _, other := range m.items {
		if other.ID == r.ID || other.Kind != r.Kind || other.UnitKey != r.UnitKey {
			continue
		}
		if Overlaps(other.StartTime, other.EndTime, r.StartTime, r.EndTime) {
			return true
		}
	}
	return false
}

func (m *memStore) Create(_ context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[r.RequesterID]; !ok {
		return ErrRequesterNotFound
	}
	if m.collides(r) {
		return ErrConflict
	}
	m.seq++
	r.ID = fmt.Sprintf("res-%d", m.seq)
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, kind Kind, id string) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.items[id]
	if !ok || r.Kind != kind {
		return nil, ErrNotFound
	}
	return m.joined(r), nil
}

func (m *memStore) List(_ context.Context, filter Filter) ([]*Reservation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Reservation
	for _, r := range m.items {
		if r.Kind != filter.Kind {
			continue
		}
		if filter.RequesterID != "" && r.RequesterID != filter.RequesterID {
			continue
		}
		if filter.UnitKey != nil && r.UnitKey != *filter.UnitKey {
			continue
		}
		if filter.IsDone != nil && r.IsDone != *filter.IsDone {
			continue
		}
		out = append(out, m.joined(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })

	total := len(out)
	if filter.PageSize > 0 {
		from := (filter.Page - 1) * filter.PageSize
		if from > total {
			from = total
		}
		to := from + filter.PageSize
		if to > total {
			to = total
		}
		out = out[from:to]
	}
	return out, total, nil
}

func (m *memStore) Update(_ context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[r.ID]; !ok {
		return ErrNotFound
	}
	if m.collides(r) {
		return ErrConflict
	}
	cp := *r
	cp.UpdatedAt = time.Now()
	m.items[r.ID] = &cp
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) HasOverlap(_ context.Context, unit UnitKey, start, end time.Time, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.overlapChecks++
	for _, r := range m.items {
		if r.ID == excludeID || r.Unit() != unit {
			continue
		}
		if Overlaps(r.StartTime, r.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListBetween(_ context.Context, kind Kind, from, to time.Time) ([]*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Reservation
	for _, r := range m.items {
		if r.Kind == kind && Overlaps(r.StartTime, r.EndTime, from, to) {
			out = append(out, m.joined(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].UnitKey < out[j].UnitKey
	})
	return out, nil
}

func (m *memStore) MarkDoneBefore(_ context.Context, t time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, r := range m.items {
		if !r.IsDone && !r.EndTime.After(t) {
			r.IsDone = true
			n++
		}
	}
	return n, nil
}

func (m *memStore) overlapCheckCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlapChecks
}

func (m *memStore) snapshot() []*Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Reservation, 0, len(m.items))
	for _, r := range m.items {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

// directory fakes the user and facility collaborators.
type directory struct {
	users      map[string]bool
	admins     map[string]bool
	facilities map[string]string // id -> kind
}

func (d *directory) Exists(_ context.Context, id string) (bool, error) {
	return d.users[id], nil
}

func (d *directory) HasElevatedPrivilege(_ context.Context, id string) (bool, error) {
	return d.admins[id], nil
}

func (d *directory) ExistsForKind(_ context.Context, kind, id string) (bool, error) {
	k, ok := d.facilities[id]
	return ok && k == kind, nil
}
