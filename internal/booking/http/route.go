package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
)

// RegisterRoutes mounts one reservation group per facility kind, e.g.
// /v1/communal and /v1/coworking.
func RegisterRoutes(g *gin.RouterGroup, service booking.Service, kinds []booking.Kind, authMiddleware gin.HandlerFunc) {
	for _, kind := range kinds {
		h := NewHandler(service, kind)
		group := g.Group("/" + string(kind))

		// === Authenticated Routes ===
		group.Use(authMiddleware)
		{
			group.GET("", h.List)
			group.GET("/time-slots", h.TimeSlots)
			group.GET("/available-slots", h.AvailableSlots)
			group.GET("/by-date", h.ByDate)
			group.GET("/range", h.Range)
			group.GET("/mine", h.Mine)
			group.GET("/owner/:user_id", h.ByOwner)
			group.GET("/units/:unit", h.ByUnit)
			group.GET("/:id", h.Get)
			group.POST("", h.Create)
			group.PATCH("/:id", h.Update)
			group.DELETE("/:id", h.Delete)
		}
	}
}
