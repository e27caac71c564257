package http

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
)

// RequesterTag is the requester summary rendered with a reservation.
type RequesterTag struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

// FacilityTag is the facility summary rendered with a reservation.
type FacilityTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReservationResponse struct {
	ID              string       `json:"id"`
	Kind            string       `json:"kind"`
	Unit            string       `json:"unit"`
	Requester       RequesterTag `json:"requester"`
	Facility        *FacilityTag `json:"facility,omitempty"`
	Floor           *int         `json:"floor,omitempty"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	AttendeeCount   int          `json:"attendee_count"`
	Notes           *string      `json:"notes"`
	BorrowEquipment bool         `json:"borrow_equipment"`
	IsDone          bool         `json:"is_done"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func NewReservationResponse(r *booking.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:              r.ID,
		Kind:            string(r.Kind),
		Unit:            r.Unit().String(),
		Requester:       RequesterTag{ID: r.RequesterID, Name: r.RequesterName, Phone: r.RequesterPhone},
		Floor:           r.Floor,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		AttendeeCount:   r.AttendeeCount,
		Notes:           r.Notes,
		BorrowEquipment: r.BorrowEquipment,
		IsDone:          r.IsDone,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.FacilityID != nil {
		tag := FacilityTag{ID: *r.FacilityID}
		if r.FacilityName != nil {
			tag.Name = *r.FacilityName
		}
		resp.Facility = &tag
	}
	return resp
}

func newReservationResponses(items []*booking.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(items))
	for i, r := range items {
		out[i] = NewReservationResponse(r)
	}
	return out
}

// CreateReservationRequest is the body of POST /v1/<kind>.
// RequesterID defaults to the caller.
type CreateReservationRequest struct {
	RequesterID     string    `json:"requester_id" binding:"omitempty,uuid"`
	Floor           *int      `json:"floor"`
	FacilityID      *string   `json:"facility_id" binding:"omitempty,uuid"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time" binding:"required"`
	AttendeeCount   int       `json:"attendee_count" binding:"min=0"`
	Notes           *string   `json:"notes" binding:"omitempty,max=500"`
	BorrowEquipment bool      `json:"borrow_equipment"`
}

// UpdateReservationRequest is the body of PATCH /v1/<kind>/:id. Absent
// fields are left unchanged.
type UpdateReservationRequest struct {
	RequesterID     *string    `json:"requester_id" binding:"omitempty,uuid"`
	Floor           *int       `json:"floor"`
	FacilityID      *string    `json:"facility_id" binding:"omitempty,uuid"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	AttendeeCount   *int       `json:"attendee_count" binding:"omitempty,min=0"`
	Notes           *string    `json:"notes" binding:"omitempty,max=500"`
	BorrowEquipment *bool      `json:"borrow_equipment"`
	IsDone          *bool      `json:"is_done"`
}

type AvailableSlotsQuery struct {
	request.DateQuery
	Unit *string `form:"unit"`
}

type RangeQuery struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type OwnerURI struct {
	UserID string `uri:"user_id" binding:"required,uuid"`
}

type UnitURI struct {
	Unit string `uri:"unit" binding:"required"`
}

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type AvailabilityResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}
