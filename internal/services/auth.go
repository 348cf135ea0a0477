package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"orders-backend/internal/dal"
	"orders-backend/internal/logging"
	"orders-backend/internal/models"
)

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type AuthService struct {
	dal    *dal.DAL
	issuer TokenIssuer
	logger *zap.Logger
}

func NewAuthService(d *dal.DAL, issuer TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{dal: d, issuer: issuer, logger: logging.OrNop(logger)}
}

// Login checks the credentials and returns a session token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user := s.dal.GetUserByEmail(ctx, strings.TrimSpace(email))
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Error issuing session token", zap.String("user_id", user.ID), zap.Error(err))
		return nil, ErrSessionUnavailable
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}
