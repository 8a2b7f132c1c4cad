package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/models"
	"github.com/reviewboost/reviewboost_be/internal/payments"
	"github.com/reviewboost/reviewboost_be/internal/validator"
)

type ReviewRequestHandler struct {
	DB      *gorm.DB
	Gateway payments.Gateway
}

func NewReviewRequestHandler(db *gorm.DB, gateway payments.Gateway) *ReviewRequestHandler {
	return &ReviewRequestHandler{DB: db, Gateway: gateway}
}

type createReviewRequestReq struct {
	ReviewDescription string   `json:"review_description" validate:"required"`
	PaymentAmount     float64  `json:"payment_amount" validate:"gt=0"`
	Platforms         []string `json:"platforms"`
	AdditionalInfo    string   `json:"additional_info"`
}

// Create submits a paid review request. Only freelancers whose vetting
// record is matched or reviewed may submit.
func (h *ReviewRequestHandler) Create(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req createReviewRequestReq
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

	platforms := make([]string, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		p = strings.TrimSpace(p)
		if p != "" {
			platforms = append(platforms, p)
		}
	}
	if len(platforms) == 0 {
		return fail200(c, "Please select at least one platform")
	}

	var profile models.FreelancerProfile
	if err := h.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return fail200(c, "Complete your profile before requesting reviews")
	}
	if !profile.Status.CanRequestReviews() {
		return fail200(c, "Your profile must be approved before requesting reviews")
	}

	var appProfile models.Profile
	customerEmail := ""
	if err := h.DB.First(&appProfile, "id = ?", userID).Error; err == nil {
		customerEmail = appProfile.Email
	}

	charge, err := h.Gateway.CreateCharge(c.Context(), req.PaymentAmount, customerEmail, "ReviewBoost review request")
	if err != nil {
		logger.Error("payment charge failed", "user", userID, "err", err)
		return fail200(c, "Payment could not be processed. Please try again.")
	}

	r := models.ReviewRequest{
		FreelancerID:      profile.ID,
		ReviewDescription: strings.TrimSpace(req.ReviewDescription),
		PaymentAmount:     req.PaymentAmount,
		Platforms:         datatypes.NewJSONSlice(platforms),
		AdditionalInfo:    strings.TrimSpace(req.AdditionalInfo),
		Status:            models.RequestPending,
		PaymentStatus:     models.PaymentStatus(charge.Status),
		PaymentID:         charge.PaymentID,
	}
	if err := h.DB.Create(&r).Error; err != nil {
		// the charge already went through; hand it back rather than strand it
		if rerr := h.Gateway.Refund(c.Context(), charge.PaymentID); rerr != nil {
			logger.Error("refund after failed insert", "payment", charge.PaymentID, "err", rerr)
		}
		return fail500(c, "Failed to submit request")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Request submitted",
		"data":    r,
	})
}
