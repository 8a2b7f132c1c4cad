package app

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/models"
)

func userID(t *testing.T, a *fiber.App, cookie string) string {
	t.Helper()
	resp, env := doJSON(t, a, http.MethodGet, "/api/me", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := dataMap(t, env)["user"].(map[string]interface{})
	return user["id"].(string)
}

// markVetted flips a freelancer's vetting record so request submission is
// allowed, the way an admin decision would.
func markVetted(t *testing.T, gdb *gorm.DB, uid string, status models.VettingStatus) {
	t.Helper()
	res := gdb.Model(&models.FreelancerProfile{}).
		Where("user_id = ?", uid).
		Update("status", status)
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}

func submitVettingForm(t *testing.T, a *fiber.App, cookie string) {
	t.Helper()
	resp, env := doJSON(t, a, http.MethodPost, "/api/freelancer/profile", map[string]interface{}{
		"skills":        "Go, Postgres",
		"portfolio_url": "https://ada.example.com",
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, env["success"])
}

// The intake flow: a fresh identity has no role, cannot reach freelancer
// routes, and gains the role only once the profile row exists.
func TestProfileIntakeReissuesRole(t *testing.T) {
	a, _, _ := newTestApp(t)
	ck := register(t, a, "ada@example.com")

	// the pre-intake token carries no role
	resp, _ := doJSON(t, a, http.MethodGet, "/api/freelancer/profile/me", nil, ck)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := doJSON(t, a, http.MethodPost, "/api/profile", map[string]string{
		"full_name": "Ada Lovelace",
		"phone":     "+44 20 7946 0000",
	}, ck)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := dataMap(t, env)
	assert.Equal(t, "freelancer", data["user_type"])

	roleCk := sessionCookie(t, resp)
	resp, _ = doJSON(t, a, http.MethodGet, "/api/freelancer/profile/me", nil, roleCk)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "authorized now, just no vetting record yet")
}

func TestProfileCreateTwice(t *testing.T) {
	a, _, _ := newTestApp(t)
	ck := intake(t, a, "ada@example.com", "Ada Lovelace")

	resp, env := doJSON(t, a, http.MethodPost, "/api/profile", map[string]string{
		"full_name": "Ada Again",
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Profile already exists", env["message"])
}

func TestVettingFormValidation(t *testing.T) {
	a, gdb, _ := newTestApp(t)
	ck := intake(t, a, "ada@example.com", "Ada Lovelace")

	// missing skills
	resp, env := doJSON(t, a, http.MethodPost, "/api/freelancer/profile", map[string]interface{}{
		"portfolio_url": "https://ada.example.com",
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, env["success"])
	assert.Contains(t, env["errors"].(map[string]interface{}), "skills")

	// skills that collapse to nothing after trimming
	_, env = doJSON(t, a, http.MethodPost, "/api/freelancer/profile", map[string]interface{}{
		"skills": " , ,  ",
	}, ck)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "At least one skill is required", env["message"])

	// malformed portfolio URL
	_, env = doJSON(t, a, http.MethodPost, "/api/freelancer/profile", map[string]interface{}{
		"skills":        "Go",
		"portfolio_url": "not a url",
	}, ck)
	assert.Equal(t, false, env["success"])
	assert.Contains(t, env["errors"].(map[string]interface{}), "portfolio_url")

	var n int64
	gdb.Model(&models.FreelancerProfile{}).Count(&n)
	assert.EqualValues(t, 0, n, "rejected submissions must not write")
}

func TestVettingFormOnePerUser(t *testing.T) {
	a, _, _ := newTestApp(t)
	ck := intake(t, a, "ada@example.com", "Ada Lovelace")
	submitVettingForm(t, a, ck)

	resp, env := doJSON(t, a, http.MethodPost, "/api/freelancer/profile", map[string]interface{}{
		"skills": "Go",
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Profile already submitted for vetting", env["message"])
}

// Platform list is mandatory; a request without one is rejected before any
// charge or insert happens.
func TestRequestRequiresPlatform(t *testing.T) {
	a, gdb, _ := newTestApp(t)
	ck := intake(t, a, "ada@example.com", "Ada Lovelace")
	submitVettingForm(t, a, ck)
	markVetted(t, gdb, userID(t, a, ck), models.StatusMatched)

	resp, env := doJSON(t, a, http.MethodPost, "/api/freelancer/requests", map[string]interface{}{
		"review_description": "Review my Go course",
		"payment_amount":     49.99,
		"platforms":          []string{"  ", ""},
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Please select at least one platform", env["message"])

	var n int64
	gdb.Model(&models.ReviewRequest{}).Count(&n)
	assert.EqualValues(t, 0, n)
}

// Only matched or reviewed freelancers may submit; a record still in
// "onboarded" is turned away.
func TestRequestVettingGate(t *testing.T) {
	a, gdb, _ := newTestApp(t)
	ck := intake(t, a, "ada@example.com", "Ada Lovelace")
	submitVettingForm(t, a, ck)

	body := map[string]interface{}{
		"review_description": "Review my Go course",
		"payment_amount":     49.99,
		"platforms":          []string{"Trustpilot"},
	}

	resp, env := doJSON(t, a, http.MethodPost, "/api/freelancer/requests", body, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Your profile must be approved before requesting reviews", env["message"])

	markVetted(t, gdb, userID(t, a, ck), models.StatusMatched)

	resp, env = doJSON(t, a, http.MethodPost, "/api/freelancer/requests", body, ck)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, env["success"])

	data := dataMap(t, env)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "completed", data["payment_status"])
	assert.Contains(t, data["payment_id"], "SIM-")
	assert.Nil(t, data["completed_at"])
}

func TestRequestWithoutVettingRecord(t *testing.T) {
	a, _, _ := newTestApp(t)
	ck := intake(t, a, "ada@example.com", "Ada Lovelace")

	_, env := doJSON(t, a, http.MethodPost, "/api/freelancer/requests", map[string]interface{}{
		"review_description": "Review my Go course",
		"payment_amount":     49.99,
		"platforms":          []string{"Trustpilot"},
	}, ck)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Complete your profile before requesting reviews", env["message"])
}

// The dashboard endpoint never errors on a missing vetting record; it returns
// an empty payload the UI can render as the intake prompt.
func TestDashboardWithoutVettingRecord(t *testing.T) {
	a, _, _ := newTestApp(t)
	ck := intake(t, a, "ada@example.com", "Ada Lovelace")

	resp, env := doJSON(t, a, http.MethodGet, "/api/freelancer/requests", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, env["success"])

	data := dataMap(t, env)
	assert.Nil(t, data["profile"])
	assert.Empty(t, data["requests"])
}

func TestDashboardListsOwnRequestsOnly(t *testing.T) {
	a, gdb, _ := newTestApp(t)
	ck := intake(t, a, "ada@example.com", "Ada Lovelace")
	submitVettingForm(t, a, ck)
	markVetted(t, gdb, userID(t, a, ck), models.StatusMatched)

	for _, desc := range []string{"first", "second"} {
		resp, _ := doJSON(t, a, http.MethodPost, "/api/freelancer/requests", map[string]interface{}{
			"review_description": desc,
			"payment_amount":     10.0,
			"platforms":          []string{"Google"},
		}, ck)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// someone else's request must not leak in
	other := intake(t, a, "bob@example.com", "Bob")
	submitVettingForm(t, a, other)
	markVetted(t, gdb, userID(t, a, other), models.StatusMatched)
	resp, _ := doJSON(t, a, http.MethodPost, "/api/freelancer/requests", map[string]interface{}{
		"review_description": "bob's request",
		"payment_amount":     5.0,
		"platforms":          []string{"Yelp"},
	}, other)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, env := doJSON(t, a, http.MethodGet, "/api/freelancer/requests", nil, ck)
	data := dataMap(t, env)
	requests := data["requests"].([]interface{})
	require.Len(t, requests, 2)
	for _, r := range requests {
		desc := r.(map[string]interface{})["review_description"]
		assert.NotEqual(t, "bob's request", desc)
	}
}
