package facility

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, apperror.ReasonNotFound, "facility not found")

// Facility is a bookable sub-partition of a shared space: one kitchen
// station, one washing machine, one multipurpose area. Rows are seeded by
// migrations and never written by the service.
type Facility struct {
	ID          string
	Kind        string
	Name        string
	Description *string
	CreatedAt   time.Time
}

// Filter defines parameters for listing facilities.
type Filter struct {
	Kind     string
	Page     int
	PageSize int
}
