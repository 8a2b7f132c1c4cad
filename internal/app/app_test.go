package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/config"
	"github.com/reviewboost/reviewboost_be/internal/middleware"
	"github.com/reviewboost/reviewboost_be/internal/models"
	"github.com/reviewboost/reviewboost_be/internal/payments"
	"github.com/reviewboost/reviewboost_be/internal/realtime"
	"github.com/reviewboost/reviewboost_be/internal/utils"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.FreelancerProfile{},
		&models.ReviewRequest{},
		&models.ContactSubmission{},
		&models.Resource{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hub := realtime.NewHub()
	go hub.Run()

	cfg := config.Config{
		AppPort:         "0",
		JWTSecret:       testSecret,
		JWTExpiresMin:   60,
		RedisAddr:       mr.Addr(),
		FrontendBaseURL: "http://localhost:3000",
	}

	a := New(cfg, gdb, rdb, payments.NewSimulatedGateway(), nil, hub, realtime.NewNotifier(hub, rdb))
	return a, gdb, mr
}

func doJSON(t *testing.T, a *fiber.App, method, path string, body interface{}, cookie string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookie})
	}

	resp, err := a.Test(req, -1)
	require.NoError(t, err)

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie {
			return ck.Value
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}

// register creates an identity and returns its session cookie (no role yet).
func register(t *testing.T, a *fiber.App, email string) string {
	t.Helper()
	resp, env := doJSON(t, a, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, env["success"])
	return sessionCookie(t, resp)
}

// intake registers and completes the profile form, returning the reissued
// cookie whose token carries the freelancer role.
func intake(t *testing.T, a *fiber.App, email, fullName string) string {
	t.Helper()
	ck := register(t, a, email)
	resp, env := doJSON(t, a, http.MethodPost, "/api/profile", map[string]string{
		"full_name": fullName,
	}, ck)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, env["success"])
	return sessionCookie(t, resp)
}

// adminCookie seeds an admin identity directly and signs its token.
func adminCookie(t *testing.T, gdb *gorm.DB) string {
	t.Helper()

	hash, err := utils.HashPassword("admin-secret")
	require.NoError(t, err)
	u := models.User{Email: "admin@reviewboost.io", PasswordHash: hash, IsActive: true}
	require.NoError(t, gdb.Create(&u).Error)
	require.NoError(t, gdb.Create(&models.Profile{
		ID:       u.ID,
		UserType: models.UserAdmin,
		FullName: "Ops Admin",
		Email:    u.Email,
	}).Error)

	token, err := utils.SignJWT(testSecret, u.ID.String(), string(models.UserAdmin), 60)
	require.NoError(t, err)
	return token
}

func dataMap(t *testing.T, env map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := env["data"].(map[string]interface{})
	require.True(t, ok, "data is not an object: %v", env["data"])
	return data
}
