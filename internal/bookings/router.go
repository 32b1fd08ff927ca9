package bookings

import (
	"staybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles("AGENT", "ADMIN"))
	{
		// Rate holds
		bookings.POST("/prebook", controller.Prebook)                    // POST /api/v1/bookings/prebook
		bookings.POST("/prebook/multiroom", controller.PrebookMultiroom) // POST /api/v1/bookings/prebook/multiroom

		// Booking lifecycle
		bookings.POST("", controller.CreateBooking)            // POST /api/v1/bookings
		bookings.POST("/:id/finish", controller.FinishBooking) // POST /api/v1/bookings/:id/finish
		bookings.GET("/:id", controller.GetBooking)            // GET  /api/v1/bookings/:id
		bookings.GET("", controller.ListBookings)              // GET  /api/v1/bookings
	}
}

// Route flow:
// 1. Client prebooks a rate with POST /bookings/prebook
// 2. Client opens the attempt with POST /bookings (order form + idempotency key)
// 3. Client submits guests/payment with POST /bookings/:id/finish
// 4. Confirmation lands asynchronously; GET /bookings/:id shows the outcome
