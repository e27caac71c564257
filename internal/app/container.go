package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/facility-booking-backend/internal/api"
	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	"github.com/nekogravitycat/facility-booking-backend/internal/facility"
	"github.com/nekogravitycat/facility-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       *zap.Logger

	// Booking rules
	Location          *time.Location
	CoworkingBlackout time.Weekday
	SweepInterval     time.Duration
	Events            booking.EventPublisher
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
	Sweeper        *booking.CompletionSweeper
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, cfg.Logger.Named("user"))

	// Facility Module
	facilityRepo := facility.NewPgxRepository(cfg.DBPool)
	facilityService := facility.NewService(facilityRepo)

	// Booking Module
	policies := booking.NewPolicies(cfg.CoworkingBlackout)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(
		bookingRepo,
		userService,
		facilityService,
		userService,
		booking.Config{Policies: policies, Location: cfg.Location, Events: cfg.Events},
		cfg.Logger.Named("booking"),
	)
	sweeper := booking.NewCompletionSweeper(bookingService, cfg.SweepInterval, cfg.Logger.Named("sweeper"))

	// API Router Config
	routerParams := api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		Logger:          cfg.Logger,
		UserService:     userService,
		FacilityService: facilityService,
		BookingService:  bookingService,
		Kinds:           policies.Kinds(),
		JWTManager:      jwtManager,
	}
	if cfg.DBPool != nil {
		routerParams.DB = cfg.DBPool
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		BookingService: bookingService,
		Sweeper:        sweeper,
	}
}
