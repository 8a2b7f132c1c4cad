package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/reviewboost/reviewboost_be/internal/utils"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "rb_token"

// revoked tokens live in redis under this prefix until they expire on their own
const RevokedPrefix = "revoked:"

// JWTFromCookie authenticates the request from the session cookie. A token
// that was revoked by logout is treated the same as a missing one. rdb may be
// nil, in which case revocation is not checked.
func JWTFromCookie(secret string, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(SessionCookie)
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}

		if rdb != nil {
			n, err := rdb.Exists(c.Context(), RevokedPrefix+tokenStr).Result()
			if err == nil && n > 0 {
				return fiber.ErrUnauthorized
			}
		}

		c.Locals("user", token)
		return c.Next()
	}
}
