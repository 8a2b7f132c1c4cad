package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/email"
	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/models"
	"github.com/reviewboost/reviewboost_be/internal/realtime"
)

type AdminHandler struct {
	DB       *gorm.DB
	Notifier *realtime.Notifier
	Mail     email.Sender
}

func NewAdminHandler(db *gorm.DB, notifier *realtime.Notifier, mail email.Sender) *AdminHandler {
	return &AdminHandler{DB: db, Notifier: notifier, Mail: mail}
}

// ListFreelancers returns every vetting record with the owner's email
// embedded, newest first.
func (h *AdminHandler) ListFreelancers(c *fiber.Ctx) error {
	var profiles []models.FreelancerProfile
	if err := h.DB.Preload("User").
		Order("created_at DESC").
		Find(&profiles).Error; err != nil {
		logger.Warn("admin freelancer list failed", "err", err)
		profiles = []models.FreelancerProfile{}
	}

	data := make([]fiber.Map, 0, len(profiles))
	for _, p := range profiles {
		mail := "N/A"
		name := ""
		if p.User != nil {
			mail = p.User.Email
			name = p.User.FullName
		}
		data = append(data, fiber.Map{
			"id":              p.ID,
			"user_id":         p.UserID,
			"email":           mail,
			"full_name":       name,
			"skills":          p.Skills,
			"portfolio_url":   p.PortfolioURL,
			"credentials_url": p.CredentialsURL,
			"preferences":     p.Preferences,
			"status":          p.Status,
			"vetting_notes":   p.VettingNotes,
			"created_at":      p.CreatedAt,
			"updated_at":      p.UpdatedAt,
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	var requests []models.ReviewRequest
	if err := h.DB.Order("created_at DESC").Find(&requests).Error; err != nil {
		logger.Warn("admin request list failed", "err", err)
		requests = []models.ReviewRequest{}
	}
	return c.JSON(fiber.Map{"success": true, "data": requests})
}

type updateFreelancerReq struct {
	Status       string `json:"status"`
	VettingNotes string `json:"vetting_notes"`
}

// UpdateFreelancer records an admin vetting decision. The status set is
// closed; anything else is rejected before touching the row.
func (h *AdminHandler) UpdateFreelancer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail200(c, "invalid profile id")
	}

	var req updateFreelancerReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	status := models.VettingStatus(strings.TrimSpace(req.Status))
	if !models.ValidVettingStatus(status) {
		return fail200(c, "status must be one of onboarded, matched, reviewed, rejected")
	}

	var p models.FreelancerProfile
	if err := h.DB.First(&p, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Profile not found",
		})
	}

	statusChanged := p.Status != status

	p.Status = status
	p.VettingNotes = req.VettingNotes
	p.UpdatedAt = time.Now()
	if err := h.DB.Save(&p).Error; err != nil {
		return fail500(c, "Failed to update profile")
	}

	if statusChanged {
		if h.Notifier != nil {
			h.Notifier.Notify(c.Context(), realtime.Event{
				Type:   realtime.EventVettingUpdated,
				UserID: p.UserID,
				Payload: fiber.Map{
					"profile_id": p.ID,
					"status":     p.Status,
				},
			})
		}
		if h.Mail != nil {
			var owner models.Profile
			if err := h.DB.First(&owner, "id = ?", p.UserID).Error; err == nil {
				notes := p.VettingNotes
				email.Notify(func() error {
					return h.Mail.SendVettingDecision(owner.Email, owner.FullName, status, notes)
				})
			}
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": p})
}

type updateRequestReq struct {
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

// UpdateRequest moves a review request through its lifecycle. Completing a
// request stamps completed_at in the same update; re-completing an already
// completed request changes nothing.
func (h *AdminHandler) UpdateRequest(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail200(c, "invalid request id")
	}

	var req updateRequestReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	status := models.RequestStatus(strings.TrimSpace(req.Status))
	if !models.ValidRequestStatus(status) {
		return fail200(c, "status must be one of pending, approved, rejected, completed")
	}

	var r models.ReviewRequest
	if err := h.DB.First(&r, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Request not found",
		})
	}

	statusChanged := r.Status != status

	r.Status = status
	r.AdminNotes = req.AdminNotes
	if status == models.RequestCompleted && r.CompletedAt == nil {
		now := time.Now()
		r.CompletedAt = &now
	}
	r.UpdatedAt = time.Now()
	if err := h.DB.Save(&r).Error; err != nil {
		return fail500(c, "Failed to update request")
	}

	if statusChanged && h.Notifier != nil {
		var p models.FreelancerProfile
		if err := h.DB.First(&p, "id = ?", r.FreelancerID).Error; err == nil {
			h.Notifier.Notify(c.Context(), realtime.Event{
				Type:   realtime.EventRequestUpdated,
				UserID: p.UserID,
				Payload: fiber.Map{
					"request_id": r.ID,
					"status":     r.Status,
				},
			})
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": r})
}

// Stats backs the moderation console header cards.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	var totalFreelancers, pendingReview, activeRequests, completedReviews int64

	h.DB.Model(&models.FreelancerProfile{}).Count(&totalFreelancers)
	h.DB.Model(&models.FreelancerProfile{}).
		Where("status = ?", models.StatusOnboarded).
		Count(&pendingReview)
	h.DB.Model(&models.ReviewRequest{}).
		Where("status = ?", models.RequestPending).
		Count(&activeRequests)
	h.DB.Model(&models.ReviewRequest{}).
		Where("status = ?", models.RequestCompleted).
		Count(&completedReviews)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_freelancers": totalFreelancers,
			"pending_review":    pendingReview,
			"active_requests":   activeRequests,
			"completed_reviews": completedReviews,
		},
	})
}
