package booking

import (
	"errors"
	"net/http"
	"strconv"

	"djstudio/internal/pkg/response"
	"djstudio/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.GetAvailability)
	rg.GET("/bookings", h.GetSnapshot)
	rg.POST("/bookings", h.SubmitBooking)
	rg.DELETE("/bookings/:id", h.CancelBooking)
	rg.GET("/users/me/bookings", h.GetMyBookings)
}

// RegisterAdminRoutes mounts operator-only lifecycle routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/bookings/:id/confirm", h.ConfirmBooking)
}

// GetAvailability returns the annotated slot grid for
// ?date=&duration=&exclude=&tz=. Missing date yields the all-disabled grid;
// tz anchors the candidate slots in the caller's zone (default UTC).
func (h *Handler) GetAvailability(c *gin.Context) {
	date := c.Query("date")

	duration := 2
	if raw := c.Query("duration"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid duration")
			return
		}
		duration = v
	}

	var excludeID int64
	if raw := c.Query("exclude"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid exclude id")
			return
		}
		excludeID = v
	}

	slots, err := h.service.Availability(c.Request.Context(), date, duration, excludeID, c.Query("tz"))
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid availability query")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute availability")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date query parameter is required")
		return
	}

	slots, err := h.service.SnapshotForDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": slots})
}

func (h *Handler) SubmitBooking(c *gin.Context) {
	var req SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if violations := validator.Validate(&req); violations != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid booking request", violations)
		return
	}

	b, err := h.service.Submit(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
		case errors.Is(err, ErrEquipmentSelection):
			response.Error(c, http.StatusBadRequest, "EQUIPMENT_SELECTION", "Select at least one player and one mixer")
		case errors.Is(err, ErrNotAvailable):
			// The advisory slot list the client saw is stale; it should
			// refetch and pick again.
			response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "This slot was just taken - pick another")
		case errors.Is(err, ErrInsufficientCredits):
			response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_CREDITS", "Not enough credits for this booking")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only edit your own bookings")
		case errors.Is(err, ErrInvalidStatusTransition):
			response.Error(c, http.StatusConflict, "INVALID_STATUS", "Cancelled bookings cannot be edited")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit booking")
		}
		return
	}

	status := http.StatusCreated
	if req.EditingBookingID != 0 {
		status = http.StatusOK
	}
	response.Success(c, status, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	err = h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only cancel your own bookings")
		case errors.Is(err, ErrInvalidStatusTransition):
			response.Error(c, http.StatusConflict, "INVALID_STATUS", "Booking is already cancelled")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel booking")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrInvalidStatusTransition):
			response.Error(c, http.StatusConflict, "INVALID_STATUS", "Booking cannot be confirmed")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to confirm booking")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": gin.H{"id": b.ID, "status": b.Status}})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	rows, err := h.service.ListForUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}
