package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/middleware"
	"github.com/reviewboost/reviewboost_be/internal/models"
	"github.com/reviewboost/reviewboost_be/internal/utils"
)

type ProfileHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Expires   int
}

func NewProfileHandler(db *gorm.DB, jwtSecret string, expires int) *ProfileHandler {
	return &ProfileHandler{DB: db, JWTSecret: jwtSecret, Expires: expires}
}

type createProfileReq struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Create inserts the application profile for the authenticated identity.
// Public signups always become freelancers; admin profiles are seeded out of
// band.
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req createProfileReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return fail200(c, "full_name is required")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", userID).Error; err != nil {
		return fiber.ErrUnauthorized
	}
	if !u.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "user is inactive")
	}

	var existing models.Profile
	if err := h.DB.First(&existing, "id = ?", userID).Error; err == nil {
		return fail200(c, "Profile already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "Failed to load profile")
	}

	p := models.Profile{
		ID:       userID,
		UserType: models.UserFreelancer,
		FullName: fullName,
		Email:    u.Email,
		Phone:    strings.TrimSpace(req.Phone),
	}
	if err := h.DB.Create(&p).Error; err != nil {
		return fail500(c, "Failed to create profile")
	}

	// the session token was issued before the profile existed; reissue it so
	// the role claim matches from here on
	token, err := utils.SignJWT(h.JWTSecret, userID.String(), string(p.UserType), h.Expires)
	if err != nil {
		return fail500(c, "Failed to issue new token")
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    p,
	})
}

// Me returns the caller's identity plus profile, null profile included.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	var p models.Profile
	var profile *models.Profile
	if err := h.DB.First(&p, "id = ?", userID).Error; err == nil {
		profile = &p
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":    fiber.Map{"id": u.ID, "email": u.Email},
			"profile": profile,
		},
	})
}

// GetByID serves a single profile row to its owner or an admin.
func (h *ProfileHandler) GetByID(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	targetID := c.Params("id")
	role, _ := c.Locals("role").(string)
	if targetID != userID.String() && role != string(models.UserAdmin) {
		return fiber.NewError(fiber.StatusForbidden, "forbidden")
	}

	var p models.Profile
	if err := h.DB.First(&p, "id = ?", targetID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Profile not found",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": p})
}
