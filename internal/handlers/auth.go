package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/middleware"
	"github.com/reviewboost/reviewboost_be/internal/models"
	"github.com/reviewboost/reviewboost_be/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	RDB       *redis.Client
	JWTSecret string
	Expires   int
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}

// loadProfile fetches the application profile for an identity. A missing row
// is not an error: the profile is created later by the intake flow.
func (h *AuthHandler) loadProfile(userID string) *models.Profile {
	var p models.Profile
	err := h.DB.First(&p, "id = ?", userID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("profile fetch failed", "user", userID, "err", err)
		}
		return nil
	}
	return &p
}

func roleOf(p *models.Profile) string {
	if p == nil {
		return ""
	}
	return string(p.UserType)
}

type RegisterReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates the identity only. The profile row is deliberately NOT
// inserted here; the intake flow does that once the session is established.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errs := FieldErrors{}
	if email == "" {
		errs.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errs.Add("email", "Invalid email format")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("email", "Email is already registered")
		return validationFail(c, errs)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "Something went wrong")
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Failed to process password")
	}

	u := models.User{
		Email:        email,
		PasswordHash: pw,
		IsActive:     true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to register",
		})
	}

	// no profile yet, so the token carries no role
	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), "", h.Expires)
	if err != nil {
		return fail500(c, "Failed to create token")
	}
	h.setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful",
		"data": fiber.Map{
			"user":    fiber.Map{"id": u.ID, "email": u.Email},
			"profile": nil,
		},
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errs := FieldErrors{}
	if email == "" {
		errs.Add("email", "Email is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		// keep 200 so the form renders the message inline
		return fail200(c, "Invalid email or password")
	}
	if !u.IsActive {
		return fail200(c, "Account is inactive")
	}
	if !utils.CheckPassword(u.PasswordHash, password) {
		return fail200(c, "Invalid email or password")
	}

	profile := h.loadProfile(u.ID.String())

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), roleOf(profile), h.Expires)
	if err != nil {
		return fail200(c, "Failed to create token")
	}
	h.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"user":    fiber.Map{"id": u.ID, "email": u.Email},
			"profile": profile,
		},
	})
}

// Session resolves the current session from the cookie. Anonymous callers get
// success with null data, never an error: the SPA bootstraps from this.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	empty := fiber.Map{"user": nil, "profile": nil}

	tokenStr := c.Cookies(middleware.SessionCookie)
	if tokenStr == "" {
		return c.JSON(fiber.Map{"success": true, "data": empty})
	}

	token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return c.JSON(fiber.Map{"success": true, "data": empty})
	}
	claims := token.Claims.(*utils.Claims)

	if h.RDB != nil {
		if n, err := h.RDB.Exists(c.Context(), middleware.RevokedPrefix+tokenStr).Result(); err == nil && n > 0 {
			return c.JSON(fiber.Map{"success": true, "data": empty})
		}
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", claims.UserID).Error; err != nil {
		return c.JSON(fiber.Map{"success": true, "data": empty})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":    fiber.Map{"id": u.ID, "email": u.Email},
			"profile": h.loadProfile(u.ID.String()),
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenStr := c.Cookies(middleware.SessionCookie)
	if tokenStr != "" && h.RDB != nil {
		// keep the denylist entry only as long as the token itself lives
		ttl := time.Duration(h.Expires) * time.Minute
		token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.JWTSecret), nil
		})
		if err == nil && token.Valid {
			if claims, ok := token.Claims.(*utils.Claims); ok && claims.ExpiresAt != nil {
				if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
					ttl = remaining
				}
			}
		}
		if err := h.RDB.Set(c.Context(), middleware.RevokedPrefix+tokenStr, "1", ttl).Err(); err != nil {
			logger.Warn("token revocation failed", "err", err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}
