package app

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewboost/reviewboost_be/internal/models"
)

// Registration establishes the identity only; the profiles table stays empty
// until the intake form is submitted.
func TestRegisterCreatesIdentityOnly(t *testing.T) {
	a, gdb, _ := newTestApp(t)

	resp, env := doJSON(t, a, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "Ada@Example.com",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, env["success"])

	data := dataMap(t, env)
	assert.Nil(t, data["profile"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])

	assert.NotEmpty(t, sessionCookie(t, resp))

	var users, profiles int64
	gdb.Model(&models.User{}).Count(&users)
	gdb.Model(&models.Profile{}).Count(&profiles)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 0, profiles)
}

func TestRegisterValidation(t *testing.T) {
	a, _, _ := newTestApp(t)

	resp, env := doJSON(t, a, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "abc",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, env["success"])

	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a, _, _ := newTestApp(t)
	register(t, a, "ada@example.com")

	resp, env := doJSON(t, a, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "ada@example.com",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, env["success"])
	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
}

func TestLoginWrongPassword(t *testing.T) {
	a, _, _ := newTestApp(t)
	register(t, a, "ada@example.com")

	resp, env := doJSON(t, a, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong-password",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Invalid email or password", env["message"])
}

func TestLoginReturnsProfileAfterIntake(t *testing.T) {
	a, _, _ := newTestApp(t)
	intake(t, a, "ada@example.com", "Ada Lovelace")

	resp, env := doJSON(t, a, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, env["success"])

	data := dataMap(t, env)
	profile := data["profile"].(map[string]interface{})
	assert.Equal(t, "Ada Lovelace", profile["full_name"])
	assert.Equal(t, "freelancer", profile["user_type"])
}

// An anonymous session lookup succeeds with null data; the SPA bootstraps
// from this response without special-casing errors.
func TestSessionAnonymous(t *testing.T) {
	a, _, _ := newTestApp(t)

	resp, env := doJSON(t, a, http.MethodGet, "/api/auth/session", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, env["success"])

	data := dataMap(t, env)
	assert.Nil(t, data["user"])
	assert.Nil(t, data["profile"])
}

func TestSessionAfterRegister(t *testing.T) {
	a, _, _ := newTestApp(t)
	ck := register(t, a, "ada@example.com")

	resp, env := doJSON(t, a, http.MethodGet, "/api/auth/session", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := dataMap(t, env)
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Nil(t, data["profile"])
}

// Logout revokes the token server-side: presenting the old cookie afterwards
// resolves to an anonymous session and protected routes reject it.
func TestLogoutRevokesToken(t *testing.T) {
	a, _, _ := newTestApp(t)
	ck := register(t, a, "ada@example.com")

	resp, env := doJSON(t, a, http.MethodPost, "/api/auth/logout", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, env["success"])

	_, env = doJSON(t, a, http.MethodGet, "/api/auth/session", nil, ck)
	data := dataMap(t, env)
	assert.Nil(t, data["user"])

	resp, _ = doJSON(t, a, http.MethodGet, "/api/me", nil, ck)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteWithoutCookie(t *testing.T) {
	a, _, _ := newTestApp(t)

	resp, _ := doJSON(t, a, http.MethodGet, "/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
