package cancellation

import (
	"errors"
	"net/http"

	"staybook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	var req CancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	res, err := c.service.CancelBooking(ctx.Request.Context(), bookingID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Failed to cancel booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", res, nil)
}

// GetDocuments handles GET /api/v1/bookings/:id/documents
func (c *Controller) GetDocuments(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	res, err := c.service.GetDocuments(ctx.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadGateway, "Failed to fetch documents", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Documents retrieved successfully", res, nil)
}
