package bookings

import (
	"errors"
	"net/http"

	"staybook/internal/shared/utils/response"
	"staybook/internal/supplier"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	v := validator.New()
	v.RegisterStructValidation(validateGuest, GuestRequest{})
	return &Controller{
		service:   service,
		validator: v,
	}
}

// validateGuest enforces the cross-field rule binding tags cannot express:
// child guests must carry an age so the supplier can price them.
func validateGuest(sl validator.StructLevel) {
	guest := sl.Current().Interface().(GuestRequest)
	if guest.IsChild && guest.Age <= 0 {
		sl.ReportError(guest.Age, "Age", "age", "required_for_child", "")
	}
}

// Prebook handles POST /api/v1/bookings/prebook
func (c *Controller) Prebook(ctx *gin.Context) {
	var req PrebookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	res, err := c.service.Prebook(ctx.Request.Context(), req)
	if err != nil {
		status, msg := supplierErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Rate prebooked successfully", res, nil)
}

// PrebookMultiroom handles POST /api/v1/bookings/prebook/multiroom
func (c *Controller) PrebookMultiroom(ctx *gin.Context) {
	var req MultiroomPrebookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	res, err := c.service.PrebookMultiroom(ctx.Request.Context(), req)
	if err != nil {
		status, msg := supplierErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Rooms prebooked successfully", res, nil)
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	res, err := c.service.CreateBooking(ctx.Request.Context(), req)
	if err != nil {
		status, msg := supplierErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", res, nil)
}

// FinishBooking handles POST /api/v1/bookings/:id/finish
func (c *Controller) FinishBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	var req FinishBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	res, err := c.service.FinishBooking(ctx.Request.Context(), bookingID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
			return
		}
		status, msg := supplierErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusAccepted, "Booking finish accepted, confirmation in progress", res, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	res, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", res, nil)
}

// ListBookings handles GET /api/v1/bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	res, err := c.service.ListBookings(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", res, nil)
}

// supplierErrorStatus maps protocol errors onto HTTP statuses and operator
// messages.
func supplierErrorStatus(err error) (int, string) {
	var rle *supplier.RateLimitError
	if errors.As(err, &rle) {
		return http.StatusTooManyRequests, "Supplier is busy, retry later"
	}

	switch {
	case errors.Is(err, supplier.ErrSessionExpired):
		return http.StatusConflict, "Booking session expired, start a new booking"
	case errors.Is(err, supplier.ErrMaxRetriesExceeded):
		return http.StatusBadGateway, "Supplier unavailable after retries"
	}

	var ae *supplier.APIError
	if errors.As(err, &ae) {
		return http.StatusUnprocessableEntity, "Supplier rejected the booking"
	}
	return http.StatusBadRequest, "Booking operation failed"
}
