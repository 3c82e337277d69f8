package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/padel-booking-backend/internal/api"
	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
	"github.com/nekogravitycat/padel-booking-backend/internal/availability"
	"github.com/nekogravitycat/padel-booking-backend/internal/booking"
	"github.com/nekogravitycat/padel-booking-backend/internal/catalog"
	"github.com/nekogravitycat/padel-booking-backend/internal/pricing"
	"github.com/nekogravitycat/padel-booking-backend/internal/reservation"
	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
	"github.com/nekogravitycat/padel-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	CommitTimeout        time.Duration
	LockTimeout          time.Duration
	WeekendSurchargeName string

	// Redis is optional; nil disables idempotency keys.
	Redis          *redis.Client
	IdempotencyTTL time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	UserService      user.Service
	ResourceService  resource.Service
	SlotService      timeslot.Service
	SurchargeService surcharge.Service
	BookingService   booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, log.Named("user"))

	// Catalog Modules
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo)

	slotRepo := timeslot.NewPgxRepository(cfg.DBPool)
	slotService := timeslot.NewService(slotRepo)

	surRepo := surcharge.NewPgxRepository(cfg.DBPool)
	surService := surcharge.NewService(surRepo)

	store := catalog.NewStore(resRepo, slotRepo, surRepo)

	// Booking Core
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool, reservation.TxOptions{
		CommitTimeout: cfg.CommitTimeout,
		LockTimeout:   cfg.LockTimeout,
	})
	pricingEngine := pricing.NewEngine(store, pricing.WeekendRule(cfg.WeekendSurchargeName))
	availabilityEngine := availability.NewEngine(store, reservationRepo)
	ledger := reservation.NewLedger(reservationRepo, store, pricingEngine, log.Named("reservation"))
	bookingService := booking.NewService(ledger, pricingEngine, availabilityEngine)

	// API Router Config
	routerParams := api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		Logger:           log.Named("http"),
		UserService:      userService,
		ResourceService:  resService,
		SlotService:      slotService,
		SurchargeService: surService,
		BookingService:   bookingService,
		JWTManager:       jwtManager,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	}
	if cfg.Redis != nil {
		routerParams.IdempotencyStore = cfg.Redis
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:           router,
		JWTManager:       jwtManager,
		UserService:      userService,
		ResourceService:  resService,
		SlotService:      slotService,
		SurchargeService: surService,
		BookingService:   bookingService,
	}
}
