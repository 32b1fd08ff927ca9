package contract

import (
	"staybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupContractRoutes configures the operator-facing contract routes
func SetupContractRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireRoles("ADMIN"))
	{
		admin.GET("/contract", controller.GetContractData)      // GET /api/v1/admin/contract
		admin.GET("/orders/:order_id", controller.GetOrderInfo) // GET /api/v1/admin/orders/:order_id
	}
}
