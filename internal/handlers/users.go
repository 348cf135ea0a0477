package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"orders-backend/internal/dal"
	"orders-backend/internal/models"
	"orders-backend/internal/services"
)

type UsersHandler struct {
	dal   *dal.DAL
	users *services.UserService
}

func NewUsersHandler(d *dal.DAL, users *services.UserService) *UsersHandler {
	return &UsersHandler{dal: d, users: users}
}

// ListUsers godoc
// @Summary     List users
// @Tags        users
// @Produce     json
// @Success     200 {array}  models.User
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/user [get]
func (h *UsersHandler) ListUsers(c *gin.Context) {
	users, err := h.dal.ListUsers(c.Request.Context())
	if err != nil {
		writeFailure(c, err, "", "Failed to fetch users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary     Create a user
// @Description The password is stored as a bcrypt hash and never returned
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body models.CreateUserRequest true "User"
// @Success     201 {object} models.UserMessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/user [post]
func (h *UsersHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		writeFailure(c, err, "", "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, models.UserMessageResponse{Message: "User created successfully", User: user})
}

// GetUser godoc
// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} models.User
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/user/{id} [get]
func (h *UsersHandler) GetUser(c *gin.Context) {
	user, err := h.dal.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, err, "", "Failed to fetch user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id      path string                    true "User ID"
// @Param       request body models.UpdateUserRequest true "User"
// @Success     200 {object} models.UserMessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/user/{id} [put]
func (h *UsersHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeFailure(c, err, "User not found", "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, models.UserMessageResponse{Message: "User updated successfully", User: user})
}

// DeleteUser godoc
// @Summary     Delete a user
// @Description Deleting a user also deletes their orders
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} models.UserMessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/user/{id} [delete]
func (h *UsersHandler) DeleteUser(c *gin.Context) {
	user, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, err, "User not found", "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, models.UserMessageResponse{Message: "User deleted successfully", User: user})
}
