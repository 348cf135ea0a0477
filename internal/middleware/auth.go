package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"orders-backend/internal/dal"
	"orders-backend/internal/logging"
	"orders-backend/internal/models"
	"orders-backend/internal/session"
)

const (
	UserIDKey     = "user_id"
	SessionCookie = "session"
)

// Session resolves the request's bearer token or session cookie and
// attaches the session to the request context. Missing or invalid
// credentials leave the request anonymous; routes that need a user use
// RequireAuth or the DAL.
func Session(resolver session.Resolver, logger *zap.Logger) gin.HandlerFunc {
	logger = logging.OrNop(logger)
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" || resolver == nil {
			c.Next()
			return
		}

		sess, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.Debug("Ignoring invalid session token", zap.Error(err))
			c.Next()
			return
		}

		c.Set(UserIDKey, sess.UserID)
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

// RequestScope gives each request its own current-user memo.
func RequestScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(dal.WithRequestScope(c.Request.Context()))
		c.Next()
	}
}

// RequireAuth rejects requests that carry no valid session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.FromContext(c.Request.Context()) == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "missing or invalid session",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		token := strings.TrimSpace(parts[1])
		// Some clients URL-encode the token.
		if decoded, err := url.QueryUnescape(token); err == nil {
			token = decoded
		}
		return token
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
