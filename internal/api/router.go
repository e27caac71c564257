package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/facility-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	facilityHttp "github.com/nekogravitycat/facility-booking-backend/internal/facility/http"
	"github.com/nekogravitycat/facility-booking-backend/internal/logging"
	"github.com/nekogravitycat/facility-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/facility-booking-backend/internal/user/http"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config carries everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger
	DB           Pinger

	UserService     user.Service
	FacilityService facility.Service
	BookingService  booking.Service
	Kinds           []booking.Kind
	JWTManager      *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if err := registerValidators(); err != nil {
		cfg.Logger.Fatal("failed to register validators", zap.Error(err))
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: structured access log with a request id.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logging.RequestLogger(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader}
	config.ExposeHeaders = []string{logging.RequestIDHeader}
	r.Use(cors.New(config))

	r.GET("/health", healthHandler(cfg.DB))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user is an administrator.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	facilityHandler := facilityHttp.NewHandler(cfg.FacilityService)
	adminHandler := NewAdminHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		facilityHttp.RegisterRoutes(v1, facilityHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, cfg.BookingService, cfg.Kinds, authMiddleware)

		admin := v1.Group("/admin", authMiddleware, adminMiddleware)
		admin.POST("/reservations/complete", adminHandler.CompletePast)
	}

	return r
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
