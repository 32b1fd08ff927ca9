package cancellation

import (
	"staybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCancellationRoutes configures cancellation and document routes
func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles("AGENT", "ADMIN"))
	{
		bookings.POST("/:id/cancel", controller.CancelBooking)  // POST /api/v1/bookings/:id/cancel
		bookings.GET("/:id/documents", controller.GetDocuments) // GET  /api/v1/bookings/:id/documents
	}
}
