// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"staybook/internal/bookings"
	"staybook/internal/cancellation"
	"staybook/internal/contract"
	"staybook/internal/destinations"
	"staybook/internal/shared/config"
	"staybook/internal/shared/database"
	"staybook/internal/supplier"
	"staybook/pkg/cache"
	"staybook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	supplier  *supplier.Client
	publisher bookings.EventPublisher

	bookingRepo  bookings.Repository // shared with cancellation
	cacheService cache.Service       // shared by destinations and contract
}

// NewRouter creates a new router instance. The publisher may be nil; booking
// events are then simply not emitted.
func NewRouter(cfg *config.Config, db *database.DB, client *supplier.Client, publisher bookings.EventPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		supplier:  client,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	// Shared cache service over the application Redis connection
	r.cacheService = cache.NewService(r.db.GetRedisClient())

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Booking routes first: cancellation reuses the booking repository
		r.setupBookingRoutes(api)
		r.setupCancellationRoutes(api)
		r.setupDestinationRoutes(api)
		r.setupContractRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "staybook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "staybook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"sandbox":     r.config.Supplier.SandboxMode,
			"timestamp":   time.Now(),
		})
	})
}

// setupBookingRoutes configures the booking completion flow routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.supplier, r.publisher, logger.GetDefault(), bookings.Options{
		Language: r.config.Supplier.Language,
		Polling: supplier.PollConfig{
			MaxAttempts: r.config.Polling.MaxAttempts,
			Interval:    r.config.Polling.Interval,
		},
		Cache:      r.cacheService,
		SessionTTL: r.config.Redis.SessionTTL,
	})
	bookingController := bookings.NewController(bookingService)

	// Keep the repository around for cancellation wiring
	r.bookingRepo = bookingRepo

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupCancellationRoutes configures cancellation and voucher routes
func (r *Router) setupCancellationRoutes(rg *gin.RouterGroup) {
	cancelRepo := cancellation.NewRepository(r.db.GetPostgreSQL())
	cancelService := cancellation.NewService(cancelRepo, r.bookingRepo, r.supplier, logger.GetDefault())
	cancelController := cancellation.NewController(cancelService)

	cancellation.SetupCancellationRoutes(rg, cancelController)
}

// setupDestinationRoutes configures cached destination lookups
func (r *Router) setupDestinationRoutes(rg *gin.RouterGroup) {
	destService := destinations.NewService(r.supplier, r.cacheService, r.config.Redis.DestinationTTL)
	destController := destinations.NewController(destService)

	destinations.SetupDestinationRoutes(rg, destController)
}

// setupContractRoutes configures the operator-facing contract routes
func (r *Router) setupContractRoutes(rg *gin.RouterGroup) {
	contractService := contract.NewService(r.supplier, r.cacheService)
	contractController := contract.NewController(contractService)

	contract.SetupContractRoutes(rg, contractController)
}
