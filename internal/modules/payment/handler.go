package payment

import (
	"errors"
	"net/http"
	"strconv"

	"djstudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/confirm-payment", h.ConfirmPayment)
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.ConfirmPayment(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only confirm your own bookings")
		case errors.Is(err, ErrAlreadyPaid):
			response.Error(c, http.StatusConflict, "ALREADY_CONFIRMED", "Payment is already confirmed")
		case errors.Is(err, ErrCancelled):
			response.Error(c, http.StatusConflict, "INVALID_STATUS", "Cancelled bookings cannot be paid")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to confirm payment")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":  b.PaymentStatus,
		"message": "Payment confirmed successfully",
	})
}
