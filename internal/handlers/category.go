package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/pkg/response"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// List returns all categories
// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name").Find(&categories).Error; err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, categories)
}
