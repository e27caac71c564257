package http

import (
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
)

type FacilityResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewResponse(f *facility.Facility) FacilityResponse {
	return FacilityResponse{
		ID:          f.ID,
		Kind:        f.Kind,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
	}
}

type ListFacilitiesRequest struct {
	request.ListParams
	Kind string `form:"kind" binding:"omitempty,booking_kind"`
}
