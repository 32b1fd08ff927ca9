package contract

import (
	"net/http"

	"staybook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetContractData handles GET /api/v1/admin/contract
func (c *Controller) GetContractData(ctx *gin.Context) {
	res, err := c.service.GetContractData(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadGateway, "Failed to fetch contract data", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Contract data retrieved successfully", res, nil)
}

// GetOrderInfo handles GET /api/v1/admin/orders/:order_id
func (c *Controller) GetOrderInfo(ctx *gin.Context) {
	res, err := c.service.GetOrderInfo(ctx.Request.Context(), ctx.Param("order_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadGateway, "Failed to fetch order info", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Order info retrieved successfully", res, nil)
}
