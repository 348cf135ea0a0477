package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"orders-backend/internal/models"
	"orders-backend/internal/services"
	"orders-backend/internal/store"
	"orders-backend/internal/validation"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{Error: message})
}

// writeFailure maps a service error to a response. fallback is the message
// used for store failures so their cause never reaches the client.
func writeFailure(c *gin.Context, err error, notFound, fallback string) {
	if verr, ok := validation.AsErrors(err); ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Validation failed", Fields: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrUnknownUser):
		respondError(c, http.StatusBadRequest, "User not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		respondError(c, http.StatusConflict, "Email already exists")
	case errors.Is(err, services.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Unauthorized access")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrStorageUnavailable):
		respondError(c, http.StatusServiceUnavailable, "Image storage is not configured")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, "Request cancelled")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
