package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"orders-backend/internal/cache"
	"orders-backend/internal/logging"
	"orders-backend/internal/models"
	"orders-backend/internal/store"
)

// UserService writes users. Passwords are stored as bcrypt hashes.
// Duplicate emails surface as store.ErrDuplicateEmail. Orders embed their
// owner, so user updates and deletes also invalidate the order list.
type UserService struct {
	store  store.Users
	cache  *cache.Cache
	logger *zap.Logger
	cost   int
}

func NewUserService(s store.Users, c *cache.Cache, logger *zap.Logger) *UserService {
	return &UserService{store: s, cache: c, logger: logging.OrNop(logger), cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hash, err := s.hash(req.Password)
	if err != nil {
		s.logger.Error("Error hashing password", zap.Error(err))
		return nil, ErrWriteFailed
	}

	user := &models.User{
		ID:       strings.TrimSpace(req.ID),
		Email:    strings.TrimSpace(req.Email),
		Password: hash,
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if req.CreatedAt != nil {
		user.CreatedAt = *req.CreatedAt
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, s.writeError("Error creating user", user.ID, err)
	}
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	hash, err := s.hash(req.Password)
	if err != nil {
		s.logger.Error("Error hashing password", zap.Error(err))
		return nil, ErrWriteFailed
	}

	user, err := s.store.UpdateUser(ctx, id, strings.TrimSpace(req.Email), hash)
	if err != nil {
		return nil, s.writeError("Error updating user", id, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	s.cache.Invalidate(ctx, cache.TagOrders)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return nil, s.writeError("Error deleting user", id, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	s.cache.Invalidate(ctx, cache.TagOrders)
	return user, nil
}

func (s *UserService) writeError(msg, id string, err error) error {
	if errors.Is(err, store.ErrDuplicateEmail) {
		return store.ErrDuplicateEmail
	}
	s.logger.Error(msg, zap.String("user_id", id), zap.Error(err))
	return ErrWriteFailed
}
