package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidSlot        = apperror.New(http.StatusBadRequest, apperror.ReasonInvalidSlot, "time range does not match the facility's slot length and hour alignment")
	ErrPastBooking        = apperror.New(http.StatusBadRequest, apperror.ReasonPastBooking, "cannot book a slot that has already started")
	ErrCalendarRestricted = apperror.New(http.StatusUnprocessableEntity, apperror.ReasonCalendarRestricted, "facility is reserved for public use on that day")
	ErrNotFound           = apperror.New(http.StatusNotFound, apperror.ReasonNotFound, "reservation not found")
	ErrRequesterNotFound  = apperror.New(http.StatusNotFound, apperror.ReasonNotFound, "requester not found")
	ErrFacilityNotFound   = apperror.New(http.StatusNotFound, apperror.ReasonNotFound, "facility not found")
	ErrInvalidUnit        = apperror.New(http.StatusBadRequest, apperror.ReasonInvalidInput, "a floor of at least 1 or a facility id is required for this facility")
	ErrConflict           = apperror.New(http.StatusConflict, apperror.ReasonConflict, "time slot already booked")
	ErrForbidden          = apperror.New(http.StatusForbidden, apperror.ReasonForbidden, "only the requester or an administrator can delete this reservation")
	ErrInvalidInput       = apperror.New(http.StatusBadRequest, apperror.ReasonInvalidInput, "invalid input parameters")
)

// Reservation is one admitted booking of a unit.
type Reservation struct {
	ID          string
	Kind        Kind
	UnitKey     string // partition component of the unit, see UnitKey
	RequesterID string

	// Joined from users and facilities on reads.
	RequesterName  string
	RequesterPhone *string
	FacilityName   *string

	FacilityID *string
	Floor      *int

	StartTime time.Time
	EndTime   time.Time

	AttendeeCount   int
	Notes           *string
	BorrowEquipment bool // kitchen only
	IsDone          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unit returns the unit the reservation occupies.
func (r *Reservation) Unit() UnitKey {
	return UnitKey{Kind: r.Kind, Partition: r.UnitKey}
}

// Filter defines parameters for listing reservations. A zero PageSize
// returns every match.
type Filter struct {
	Kind        Kind
	RequesterID string
	UnitKey     *string
	IsDone      *bool
	Page        int
	PageSize    int // 0 returns every match
}

// SlotAvailability is one entry of a day's availability view.
type SlotAvailability struct {
	Start     time.Time
	End       time.Time
	Available bool
}
