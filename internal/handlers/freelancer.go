package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/models"
	"github.com/reviewboost/reviewboost_be/internal/validator"
)

type FreelancerHandler struct {
	DB *gorm.DB
}

func NewFreelancerHandler(db *gorm.DB) *FreelancerHandler {
	return &FreelancerHandler{DB: db}
}

// ParseSkills splits a comma-separated skills field into an ordered list.
// Entries are whitespace-trimmed and empties dropped; duplicates are kept as
// submitted.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

type createFreelancerProfileReq struct {
	Skills         string                 `json:"skills" validate:"required"`
	PortfolioURL   string                 `json:"portfolio_url" validate:"omitempty,url"`
	CredentialsURL string                 `json:"credentials_url" validate:"omitempty,url"`
	Preferences    map[string]interface{} `json:"preferences"`
}

// CreateProfile handles the vetting intake form. One submission per user;
// the record starts in "onboarded" and moves only by admin decision.
func (h *FreelancerHandler) CreateProfile(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req createFreelancerProfileReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	if errs := validator.Struct(req); errs != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Validation error",
			"errors":  errs,
		})
	}

	skills := ParseSkills(req.Skills)
	if len(skills) == 0 {
		return fail200(c, "At least one skill is required")
	}

	var existing models.FreelancerProfile
	if err := h.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return fail200(c, "Profile already submitted for vetting")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "Failed to load profile")
	}

	prefs := req.Preferences
	if prefs == nil {
		prefs = map[string]interface{}{}
	}

	p := models.FreelancerProfile{
		UserID:         userID,
		Skills:         datatypes.NewJSONSlice(skills),
		PortfolioURL:   strings.TrimSpace(req.PortfolioURL),
		CredentialsURL: strings.TrimSpace(req.CredentialsURL),
		Preferences:    datatypes.JSONMap(prefs),
		Status:         models.StatusOnboarded,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		logger.Error("freelancer profile insert failed", "user", userID, "err", err)
		return fail500(c, "Failed to create profile")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Profile submitted for vetting",
		"data":    p,
	})
}

// Mine returns the caller's vetting record.
func (h *FreelancerHandler) Mine(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var p models.FreelancerProfile
	if err := h.DB.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Profile not found",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": p})
}

// Requests powers the dashboard: vetting record plus the caller's review
// requests, newest first. Missing vetting record is not an error here.
func (h *FreelancerHandler) Requests(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var p models.FreelancerProfile
	if err := h.DB.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"profile":  nil,
				"requests": []models.ReviewRequest{},
			},
		})
	}

	var requests []models.ReviewRequest
	if err := h.DB.Where("freelancer_id = ?", p.ID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		logger.Warn("request list fetch failed", "user", userID, "err", err)
		requests = []models.ReviewRequest{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"profile":  p,
			"requests": requests,
		},
	})
}
