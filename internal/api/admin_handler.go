package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
)

type AdminHandler struct {
	bookingService booking.Service
}

func NewAdminHandler(bookingService booking.Service) *AdminHandler {
	return &AdminHandler{bookingService: bookingService}
}

// CompletePast runs the completion sweep immediately.
func (h *AdminHandler) CompletePast(c *gin.Context) {
	n, err := h.bookingService.CompletePast(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": n})
}
