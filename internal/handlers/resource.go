package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/models"
)

type ResourceHandler struct {
	DB *gorm.DB
}

func NewResourceHandler(db *gorm.DB) *ResourceHandler {
	return &ResourceHandler{DB: db}
}

// List serves the public resource catalog, optionally filtered by type or
// skill category.
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	q := h.DB.Model(&models.Resource{})

	if t := c.Query("type"); t != "" {
		q = q.Where("resource_type = ?", t)
	}
	if cat := c.Query("skill_category"); cat != "" {
		q = q.Where("skill_category = ?", cat)
	}

	var resources []models.Resource
	if err := q.Order("created_at DESC").Find(&resources).Error; err != nil {
		logger.Warn("resource list failed", "err", err)
		resources = []models.Resource{}
	}

	return c.JSON(fiber.Map{"success": true, "data": resources})
}
