package wallet

import (
	"errors"
	"net/http"

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
	rg.GET("/users/me/wallet", h.GetWallet)
	rg.POST("/users/me/wallet/topup", h.TopUp)
}

func (h *Handler) GetWallet(c *gin.Context) {
	wallet, err := h.service.GetOrCreateWallet(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load wallet")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"credits": wallet.Balance})
}

type topUpRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (h *Handler) TopUp(c *gin.Context) {
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	wallet, txn, err := h.service.Add(c.Request.Context(), c.GetInt64("user_id"), req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to top up wallet")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"credits":        wallet.Balance,
		"transaction_id": txn.ID,
	})
}
