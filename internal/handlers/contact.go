package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/email"
	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/models"
	"github.com/reviewboost/reviewboost_be/internal/validator"
)

type ContactHandler struct {
	DB   *gorm.DB
	Mail email.Sender
}

func NewContactHandler(db *gorm.DB, mail email.Sender) *ContactHandler {
	return &ContactHandler{DB: db, Mail: mail}
}

type contactReq struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	MessageType string `json:"message_type"`
	Message     string `json:"message" validate:"required"`
}

// Create accepts an anonymous contact submission. Write-only: nothing in
// this service reads these rows back.
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req contactReq
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

	msgType := models.MessageType(strings.TrimSpace(req.MessageType))
	if msgType == "" {
		msgType = models.MessageGeneral
	}
	if !models.ValidMessageType(msgType) {
		return fail200(c, "message_type must be one of support, general, partnership, other")
	}

	s := models.ContactSubmission{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		MessageType: msgType,
		Message:     strings.TrimSpace(req.Message),
		Status:      "new",
	}
	if err := h.DB.Create(&s).Error; err != nil {
		logger.Error("contact submission insert failed", "err", err)
		return fail500(c, "Failed to submit. Please try again.")
	}

	if h.Mail != nil {
		to, name := s.Email, s.Name
		email.Notify(func() error {
			return h.Mail.SendContactAck(to, name)
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message received",
	})
}
