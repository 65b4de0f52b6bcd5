package catalog

import (
	"net/http"

	"djstudio/internal/domain"
	"djstudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/equipment", h.ListEquipment)
}

// ListEquipment serves the studio's fixed gear catalog grouped by category.
func (h *Handler) ListEquipment(c *gin.Context) {
	grouped := map[domain.EquipmentCategory][]domain.Equipment{
		domain.CategoryPlayer: {},
		domain.CategoryMixer:  {},
		domain.CategoryExtra:  {},
	}
	for _, eq := range domain.DJEquipment {
		grouped[eq.Category] = append(grouped[eq.Category], eq)
	}

	response.Success(c, http.StatusOK, gin.H{
		"equipment": domain.DJEquipment,
		"players":   grouped[domain.CategoryPlayer],
		"mixers":    grouped[domain.CategoryMixer],
		"extras":    grouped[domain.CategoryExtra],
	})
}
