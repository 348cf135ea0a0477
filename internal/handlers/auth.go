package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"orders-backend/internal/dal"
	"orders-backend/internal/models"
	"orders-backend/internal/services"
)

type AuthHandler struct {
	dal  *dal.DAL
	auth *services.AuthService
}

func NewAuthHandler(d *dal.DAL, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{dal: d, auth: auth}
}

// Login godoc
// @Summary     Log in
// @Description Checks email and password and returns a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Credentials"
// @Success     200 {object} models.LoginResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeFailure(c, err, "", "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary     Current user
// @Tags        auth
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.User
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := h.dal.GetCurrentUser(c.Request.Context())
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized access")
		return
	}
	c.JSON(http.StatusOK, user)
}
