package destinations

import (
	"github.com/gin-gonic/gin"
)

// SetupDestinationRoutes configures destination lookup routes
func SetupDestinationRoutes(rg *gin.RouterGroup, controller *Controller) {
	destinations := rg.Group("/destinations")
	{
		destinations.GET("/:id", controller.GetDestination) // GET /api/v1/destinations/:id
	}
}
