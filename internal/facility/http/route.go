package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers facility-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/facilities")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)    // List facilities, optionally by kind
		group.GET("/:id", h.Get) // Get facility details
	}
}
