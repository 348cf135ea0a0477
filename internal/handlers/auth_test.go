package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orders-backend/internal/models"
)

func TestAuth_LoginAndMe(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "u1", "u1@example.com", "hunter22")

	w := app.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "u1@example.com", "password": "hunter22"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[models.LoginResponse](t, w)
	require.NotEmpty(t, login.Token)

	w = app.do(t, http.MethodGet, "/api/auth/me", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decode[models.User](t, w).ID)
}

func TestAuth_LoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "u1", "u1@example.com", "hunter22")

	w := app.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "u1@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode[models.ErrorResponse](t, w).Error)

	w = app.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "u1@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_MeRequiresSession(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/auth/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "u1", "u1@example.com", "pw")
	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/order", createOrderBody(), "").Code)

	w := app.do(t, http.MethodGet, "/api/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/dashboard", nil, app.token(t, "u1"))
	require.Equal(t, http.StatusOK, w.Code)
	dashboard := decode[models.DashboardResponse](t, w)
	assert.Equal(t, "u1", dashboard.User.ID)
	assert.Len(t, dashboard.Orders, 1)
}
