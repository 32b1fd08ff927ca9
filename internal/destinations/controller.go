package destinations

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

// GetDestination handles GET /api/v1/destinations/:id
func (c *Controller) GetDestination(ctx *gin.Context) {
	res, err := c.service.GetDestination(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadGateway, "Failed to fetch destination", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Destination retrieved successfully", res, nil)
}
