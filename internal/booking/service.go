package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

// UserChecker resolves whether a requester id names a known user.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// FacilityChecker resolves whether id is a facility row of the given kind.
type FacilityChecker interface {
	ExistsForKind(ctx context.Context, kind, id string) (bool, error)
}

// Authorizer answers whether a caller may act on other people's reservations.
type Authorizer interface {
	HasElevatedPrivilege(ctx context.Context, userID string) (bool, error)
}

type CreateRequest struct {
	Kind            Kind
	RequesterID     string
	Floor           *int
	FacilityID      *string
	StartTime       time.Time
	EndTime         time.Time
	AttendeeCount   int
	Notes           *string
	BorrowEquipment bool
}

// UpdateRequest carries only the fields the caller wants changed.
type UpdateRequest struct {
	RequesterID     *string
	Floor           *int
	FacilityID      *string
	StartTime       *time.Time
	EndTime         *time.Time
	AttendeeCount   *int
	Notes           *string
	BorrowEquipment *bool
	IsDone          *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	Update(ctx context.Context, kind Kind, id string, req UpdateRequest) (*Reservation, error)
	Delete(ctx context.Context, kind Kind, id string, callerID string) error

	GetByID(ctx context.Context, kind Kind, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	ListByOwner(ctx context.Context, kind Kind, requesterID string) ([]*Reservation, error)
	ListByUnit(ctx context.Context, kind Kind, partition string) ([]*Reservation, error)
	ListByTimeRange(ctx context.Context, kind Kind, start, end time.Time) ([]*Reservation, error)
	ListByDate(ctx context.Context, kind Kind, date time.Time) ([]*Reservation, error)

	AvailableSlots(ctx context.Context, kind Kind, date time.Time, partition *string) ([]SlotAvailability, error)
	TimeSlots(kind Kind, date time.Time) ([]Slot, error)

	// CompletePast marks every reservation that has ended as done.
	CompletePast(ctx context.Context) (int64, error)

	Policy(kind Kind) (Policy, error)
	Location() *time.Location
}

// Config holds the engine's rule set and clock.
type Config struct {
	Policies Policies
	Location *time.Location
	Now      func() time.Time

	// Events is optional.
	Events EventPublisher
}

type service struct {
	repo       Repository
	detector   *ConflictDetector
	users      UserChecker
	facilities FacilityChecker
	authz      Authorizer
	policies   Policies
	loc        *time.Location
	now        func() time.Time
	events     EventPublisher
	logger     *zap.Logger
}

func NewService(repo Repository, users UserChecker, facilities FacilityChecker, authz Authorizer, cfg Config, logger *zap.Logger) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &service{
		repo:       repo,
		detector:   NewConflictDetector(repo),
		users:      users,
		facilities: facilities,
		authz:      authz,
		policies:   cfg.Policies,
		loc:        cfg.Location,
		now:        cfg.Now,
		events:     cfg.Events,
		logger:     logger,
	}
}

func (s *service) Policy(kind Kind) (Policy, error) {
	return s.policies.Get(kind)
}

func (s *service) Location() *time.Location {
	return s.loc
}

// checkInterval runs the shape, temporal and calendar checks in that order.
func (s *service) checkInterval(pol Policy, start, end time.Time) error {
	if !IsAlignedSlot(start, end, pol.Kind, s.loc) {
		return ErrInvalidSlot
	}
	if !IsFuture(start, s.now()) {
		return ErrPastBooking
	}
	if !pol.IsCalendarAllowed(start, s.loc) {
		return ErrCalendarRestricted
	}
	return nil
}

func (s *service) checkRequester(ctx context.Context, requesterID string) error {
	ok, err := s.users.Exists(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("failed to check requester: %w", err)
	}
	if !ok {
		return ErrRequesterNotFound
	}
	return nil
}

// resolveUnit validates the partition fields and, for facility-partitioned
// kinds, that the facility exists and belongs to the kind.
func (s *service) resolveUnit(ctx context.Context, pol Policy, floor *int, facilityID *string) (UnitKey, error) {
	unit, err := pol.UnitFor(floor, facilityID)
	if err != nil {
		return UnitKey{}, err
	}
	if pol.Partition == PartitionFacility {
		ok, err := s.facilities.ExistsForKind(ctx, string(pol.Kind), unit.Partition)
		if err != nil {
			return UnitKey{}, fmt.Errorf("failed to check facility: %w", err)
		}
		if !ok {
			return UnitKey{}, ErrFacilityNotFound
		}
	}
	return unit, nil
}

func (s *service) checkConflict(ctx context.Context, unit UnitKey, start, end time.Time, excludeID string) error {
	conflict, err := s.detector.HasConflict(ctx, unit, start, end, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return ErrConflict
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	pol, err := s.policies.Get(req.Kind)
	if err != nil {
		return nil, err
	}

	// 1-3. Shape, temporal and calendar checks
	if err := s.checkInterval(pol, req.StartTime, req.EndTime); err != nil {
		return nil, s.reject(pol.Kind, "create", err)
	}

	// 4. Referential checks
	if err := s.checkRequester(ctx, req.RequesterID); err != nil {
		return nil, s.reject(pol.Kind, "create", err)
	}
	unit, err := s.resolveUnit(ctx, pol, req.Floor, req.FacilityID)
	if err != nil {
		return nil, s.reject(pol.Kind, "create", err)
	}

	// 5. Conflict check; the exclusion constraint backs this up on insert
	if err := s.checkConflict(ctx, unit, req.StartTime, req.EndTime, ""); err != nil {
		return nil, s.reject(pol.Kind, "create", err)
	}

	// 6. Commit
	res := &Reservation{
		Kind:            pol.Kind,
		UnitKey:         unit.Partition,
		RequesterID:     req.RequesterID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		AttendeeCount:   req.AttendeeCount,
		Notes:           req.Notes,
		BorrowEquipment: req.BorrowEquipment && pol.Kind == KindKitchen,
	}
	applyPartition(res, pol, req.Floor)

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, s.reject(pol.Kind, "create", err)
	}

	s.logger.Info("reservation created",
		zap.String("id", res.ID),
		zap.String("unit", unit.String()),
		zap.Time("start", res.StartTime),
		zap.String("requester_id", res.RequesterID),
	)

	created, err := s.repo.GetByID(ctx, pol.Kind, res.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventCreated, created)
	return created, nil
}

func (s *service) Update(ctx context.Context, kind Kind, id string, req UpdateRequest) (*Reservation, error) {
	pol, err := s.policies.Get(kind)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	// Overlay the requested boundaries onto the stored interval.
	start, end := res.StartTime, res.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	timeChanged := !start.Equal(res.StartTime) || !end.Equal(res.EndTime)

	if timeChanged {
		if err := s.checkInterval(pol, start, end); err != nil {
			return nil, s.reject(kind, "update", err)
		}
	}

	if req.RequesterID != nil && *req.RequesterID != res.RequesterID {
		if err := s.checkRequester(ctx, *req.RequesterID); err != nil {
			return nil, s.reject(kind, "update", err)
		}
		res.RequesterID = *req.RequesterID
	}

	unit := res.Unit()
	floor, facilityID := res.Floor, res.FacilityID
	if req.Floor != nil {
		floor = req.Floor
	}
	if req.FacilityID != nil {
		facilityID = req.FacilityID
	}
	if pol.Partition != PartitionNone && (req.Floor != nil || req.FacilityID != nil) {
		candidate, err := pol.UnitFor(floor, facilityID)
		if err != nil {
			return nil, s.reject(kind, "update", err)
		}
		if candidate != unit {
			if unit, err = s.resolveUnit(ctx, pol, floor, facilityID); err != nil {
				return nil, s.reject(kind, "update", err)
			}
		}
	}
	unitChanged := unit != res.Unit()

	// Payload-only edits never reach the conflict check.
	if timeChanged || unitChanged {
		if err := s.checkConflict(ctx, unit, start, end, res.ID); err != nil {
			return nil, s.reject(kind, "update", err)
		}
	}

	res.StartTime, res.EndTime = start, end
	res.UnitKey = unit.Partition
	applyPartition(res, pol, floor)

	if req.AttendeeCount != nil {
		res.AttendeeCount = *req.AttendeeCount
	}
	if req.Notes != nil {
		res.Notes = req.Notes
	}
	if req.BorrowEquipment != nil && kind == KindKitchen {
		res.BorrowEquipment = *req.BorrowEquipment
	}
	if req.IsDone != nil {
		res.IsDone = *req.IsDone
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, s.reject(kind, "update", err)
	}

	s.logger.Info("reservation updated",
		zap.String("id", res.ID),
		zap.String("unit", unit.String()),
		zap.Bool("rescheduled", timeChanged || unitChanged),
	)

	updated, err := s.repo.GetByID(ctx, kind, res.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, kind Kind, id string, callerID string) error {
	res, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return err
	}

	if res.RequesterID != callerID {
		elevated, err := s.authz.HasElevatedPrivilege(ctx, callerID)
		if err != nil {
			return fmt.Errorf("failed to check privilege: %w", err)
		}
		if !elevated {
			return s.reject(kind, "delete", ErrForbidden)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("reservation deleted",
		zap.String("id", id),
		zap.String("kind", string(kind)),
		zap.String("caller_id", callerID),
	)
	s.publish(ctx, EventDeleted, res)
	return nil
}

func (s *service) GetByID(ctx context.Context, kind Kind, id string) (*Reservation, error) {
	if _, err := s.policies.Get(kind); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, kind, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	if _, err := s.policies.Get(filter.Kind); err != nil {
		return nil, 0, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *service) ListByOwner(ctx context.Context, kind Kind, requesterID string) ([]*Reservation, error) {
	if _, err := s.policies.Get(kind); err != nil {
		return nil, err
	}
	items, _, err := s.repo.List(ctx, Filter{Kind: kind, RequesterID: requesterID})
	return items, err
}

func (s *service) ListByUnit(ctx context.Context, kind Kind, partition string) ([]*Reservation, error) {
	pol, err := s.policies.Get(kind)
	if err != nil {
		return nil, err
	}
	unit, err := pol.ParseUnit(partition)
	if err != nil {
		return nil, err
	}
	items, _, err := s.repo.List(ctx, Filter{Kind: kind, UnitKey: &unit.Partition})
	return items, err
}

func (s *service) ListByTimeRange(ctx context.Context, kind Kind, start, end time.Time) ([]*Reservation, error) {
	if _, err := s.policies.Get(kind); err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, apperror.Wrap(ErrInvalidInput, fmt.Errorf("range start %s is not before end %s", start, end))
	}
	return s.repo.ListBetween(ctx, kind, start, end)
}

func (s *service) ListByDate(ctx context.Context, kind Kind, date time.Time) ([]*Reservation, error) {
	if _, err := s.policies.Get(kind); err != nil {
		return nil, err
	}
	y, m, d := date.In(s.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return s.repo.ListBetween(ctx, kind, from, from.AddDate(0, 0, 1))
}

func (s *service) TimeSlots(kind Kind, date time.Time) ([]Slot, error) {
	if _, err := s.policies.Get(kind); err != nil {
		return nil, err
	}
	return DaySlots(date, kind, s.loc)
}

// AvailableSlots marks each of the day's slots free or taken. With a unit
// (or for a singleton kind) a slot is taken when any reservation on the unit
// overlaps it. Without a unit on a partitioned kind a slot is taken when any
// partition has a reservation starting exactly at the slot start.
func (s *service) AvailableSlots(ctx context.Context, kind Kind, date time.Time, partition *string) ([]SlotAvailability, error) {
	pol, err := s.policies.Get(kind)
	if err != nil {
		return nil, err
	}

	slots, err := DaySlots(date, kind, s.loc)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return []SlotAvailability{}, nil
	}

	var unit *UnitKey
	if pol.Partition == PartitionNone {
		unit = &UnitKey{Kind: kind}
	} else if partition != nil {
		u, err := pol.ParseUnit(*partition)
		if err != nil {
			return nil, err
		}
		unit = &u
	}

	// One read for the whole day keeps the view consistent across slots.
	booked, err := s.repo.ListBetween(ctx, kind, slots[0].Start, slots[len(slots)-1].End)
	if err != nil {
		return nil, err
	}

	result := make([]SlotAvailability, len(slots))
	for i, slot := range slots {
		available := true
		for _, r := range booked {
			if unit != nil {
				if r.UnitKey == unit.Partition && Overlaps(r.StartTime, r.EndTime, slot.Start, slot.End) {
					available = false
					break
				}
			} else if r.StartTime.Equal(slot.Start) {
				available = false
				break
			}
		}
		result[i] = SlotAvailability{Start: slot.Start, End: slot.End, Available: available}
	}
	return result, nil
}

func (s *service) CompletePast(ctx context.Context) (int64, error) {
	return s.repo.MarkDoneBefore(ctx, s.now())
}

// publish hands a committed change to the event publisher, if any.
func (s *service) publish(ctx context.Context, t EventType, res *Reservation) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, newEvent(t, res, s.now())); err != nil {
		s.logger.Warn("failed to publish reservation event",
			zap.String("type", string(t)),
			zap.String("id", res.ID),
			zap.Error(err),
		)
	}
}

// reject logs a rejected mutation at debug level and passes err through.
func (s *service) reject(kind Kind, op string, err error) error {
	s.logger.Debug("reservation rejected",
		zap.String("kind", string(kind)),
		zap.String("op", op),
		zap.String("reason", string(apperror.ReasonOf(err))),
		zap.Error(err),
	)
	return err
}

// applyPartition stores the partition fields that apply to the kind and
// clears the others.
func applyPartition(res *Reservation, pol Policy, floor *int) {
	res.Floor, res.FacilityID = nil, nil
	switch pol.Partition {
	case PartitionFloor:
		res.Floor = floor
	case PartitionFacility:
		id := res.UnitKey
		res.FacilityID = &id
	}
}
