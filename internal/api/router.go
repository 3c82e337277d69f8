package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
	"github.com/nekogravitycat/padel-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/padel-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/middleware"
	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	resHttp "github.com/nekogravitycat/padel-booking-backend/internal/resource/http"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	surHttp "github.com/nekogravitycat/padel-booking-backend/internal/surcharge/http"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
	slotHttp "github.com/nekogravitycat/padel-booking-backend/internal/timeslot/http"
	"github.com/nekogravitycat/padel-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/padel-booking-backend/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	UserService      user.Service
	ResourceService  resource.Service
	SlotService      timeslot.Service
	SurchargeService surcharge.Service
	BookingService   booking.Service
	JWTManager       *auth.JWTManager

	// IdempotencyStore enables X-Idempotency-Key on bookings when set.
	IdempotencyStore middleware.RedisClient
	IdempotencyTTL   time.Duration
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - RequestID: Tags every request and its log lines.
	// - Logger: Structured access log.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:8081", // Swagger
	}
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader, middleware.IdempotencyKeyHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, middleware.IdempotencyReplayHeader, "Retry-After"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates the JWT and loads the admin flag.
	authMiddleware := auth.AuthRequired(cfg.JWTManager, cfg.UserService.IsAdmin)
	// adminMiddleware: Further checks if the authenticated user is an administrator.
	adminMiddleware := RequireAdmin()

	var idempotency gin.HandlerFunc
	if cfg.IdempotencyStore != nil {
		idempotency = middleware.Idempotency(middleware.IdempotencyConfig{
			Redis:   cfg.IdempotencyStore,
			TTL:     cfg.IdempotencyTTL,
			Subject: idempotencySubject,
			Log:     log,
		})
	}

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	resHandler := resHttp.NewHandler(cfg.ResourceService)
	slotHandler := slotHttp.NewHandler(cfg.SlotService)
	surHandler := surHttp.NewHandler(cfg.SurchargeService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		resHttp.RegisterRoutes(v1, resHandler, authMiddleware, adminMiddleware)
		slotHttp.RegisterRoutes(v1, slotHandler, authMiddleware, adminMiddleware)
		surHttp.RegisterRoutes(v1, surHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware, idempotency)
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
