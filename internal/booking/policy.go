package booking

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

// Kind names a family of shared facilities that share one booking policy.
type Kind string

const (
	KindCommunal     Kind = "communal"
	KindCoworking    Kind = "coworking"
	KindKitchen      Kind = "kitchen"
	KindWasherWomen  Kind = "washer-women"
	KindWasherMen    Kind = "washer-men"
	KindMultipurpose Kind = "multipurpose"
	KindTheater      Kind = "theater"
)

// Opening hours of every facility, in the facility's local time.
const (
	dayOpenHour  = 6
	dayCloseHour = 22
)

var ErrUnknownKind = apperror.New(http.StatusBadRequest, apperror.ReasonInvalidInput, "unknown facility kind")

var slotDurations = map[Kind]time.Duration{
	KindCommunal:     time.Hour,
	KindCoworking:    2 * time.Hour,
	KindKitchen:      time.Hour,
	KindWasherWomen:  time.Hour,
	KindWasherMen:    time.Hour,
	KindMultipurpose: time.Hour,
	KindTheater:      time.Hour,
}

// ParseKind converts a path or query value into a known Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := slotDurations[k]; !ok {
		return "", ErrUnknownKind
	}
	return k, nil
}

// SlotDuration returns the fixed length of one reservation of the given kind.
func SlotDuration(kind Kind) (time.Duration, error) {
	d, ok := slotDurations[kind]
	if !ok {
		return 0, ErrUnknownKind
	}
	return d, nil
}

// Slot is a half-open [Start, End) booking candidate.
type Slot struct {
	Start time.Time
	End   time.Time
}

// DaySlots lays out the contiguous slots of the calendar day containing date,
// from opening to closing hour in loc.
func DaySlots(date time.Time, kind Kind, loc *time.Location) ([]Slot, error) {
	d, err := SlotDuration(kind)
	if err != nil {
		return nil, err
	}
	step := int(d / time.Hour)

	y, m, day := date.In(loc).Date()
	slots := make([]Slot, 0, (dayCloseHour-dayOpenHour)/step)
	for h := dayOpenHour; h+step <= dayCloseHour; h += step {
		slots = append(slots, Slot{
			Start: time.Date(y, m, day, h, 0, 0, 0, loc),
			End:   time.Date(y, m, day, h+step, 0, 0, 0, loc),
		})
	}
	return slots, nil
}

// Partition says how a kind is subdivided into independently bookable units.
type Partition int

const (
	// PartitionNone is a singleton facility: the kind is the only unit.
	PartitionNone Partition = iota
	// PartitionFloor splits communal rooms by building floor.
	PartitionFloor
	// PartitionFacility splits a kind by seeded facility rows.
	PartitionFacility
)

// Policy describes everything kind-specific the engine needs.
type Policy struct {
	Kind         Kind
	Name         string
	SlotDuration time.Duration
	Partition    Partition

	// BlackoutWeekday, when set, is a weekday the facility is reserved for
	// public use and cannot be booked.
	BlackoutWeekday *time.Weekday
}

// Policies is the registry the engine is instantiated with.
type Policies map[Kind]Policy

// NewPolicies builds the registry of every supported kind.
func NewPolicies(coworkingBlackout time.Weekday) Policies {
	blackout := coworkingBlackout
	p := Policies{
		KindCommunal:     {Kind: KindCommunal, Name: "Communal room", Partition: PartitionFloor},
		KindCoworking:    {Kind: KindCoworking, Name: "Co-working space", Partition: PartitionNone, BlackoutWeekday: &blackout},
		KindKitchen:      {Kind: KindKitchen, Name: "Kitchen", Partition: PartitionFacility},
		KindWasherWomen:  {Kind: KindWasherWomen, Name: "Washing machine (women)", Partition: PartitionFacility},
		KindWasherMen:    {Kind: KindWasherMen, Name: "Washing machine (men)", Partition: PartitionFacility},
		KindMultipurpose: {Kind: KindMultipurpose, Name: "Multipurpose area", Partition: PartitionFacility},
		KindTheater:      {Kind: KindTheater, Name: "Theater", Partition: PartitionNone},
	}
	for k, pol := range p {
		pol.SlotDuration = slotDurations[k]
		p[k] = pol
	}
	return p
}

// Get returns the policy for kind.
func (p Policies) Get(kind Kind) (Policy, error) {
	pol, ok := p[kind]
	if !ok {
		return Policy{}, ErrUnknownKind
	}
	return pol, nil
}

// Kinds lists the registered kinds in a stable order.
func (p Policies) Kinds() []Kind {
	kinds := make([]Kind, 0, len(p))
	for k := range p {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// UnitFor derives the bookable unit from a reservation's floor or facility.
// Fields that do not apply to the kind are ignored.
func (p Policy) UnitFor(floor *int, facilityID *string) (UnitKey, error) {
	switch p.Partition {
	case PartitionFloor:
		if floor == nil || *floor < 1 {
			return UnitKey{}, ErrInvalidUnit
		}
		return UnitKey{Kind: p.Kind, Partition: strconv.Itoa(*floor)}, nil
	case PartitionFacility:
		if facilityID == nil || strings.TrimSpace(*facilityID) == "" {
			return UnitKey{}, ErrInvalidUnit
		}
		// Facility ids are uuids; the text unit key must not depend on letter case.
		return UnitKey{Kind: p.Kind, Partition: strings.ToLower(strings.TrimSpace(*facilityID))}, nil
	default:
		return UnitKey{Kind: p.Kind}, nil
	}
}

// ParseUnit interprets a partition given as text (a floor number or a
// facility id).
func (p Policy) ParseUnit(partition string) (UnitKey, error) {
	switch p.Partition {
	case PartitionFloor:
		n, err := strconv.Atoi(strings.TrimSpace(partition))
		if err != nil {
			return UnitKey{}, fmt.Errorf("%w: floor %q", ErrInvalidUnit, partition)
		}
		return p.UnitFor(&n, nil)
	case PartitionFacility:
		return p.UnitFor(nil, &partition)
	default:
		return UnitKey{Kind: p.Kind}, nil
	}
}
