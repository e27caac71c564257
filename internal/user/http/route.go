package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /auth/register, /auth/login, /me and the admin /users group.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	public := g.Group("/auth")
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	g.GET("/me", authMiddleware, h.Me)

	users := g.Group("/users", authMiddleware, adminMiddleware)
	{
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.PATCH("/:id", h.Update)
	}
}
