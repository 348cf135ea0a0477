package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"orders-backend/internal/cache"
	"orders-backend/internal/logging"
	"orders-backend/internal/models"
	"orders-backend/internal/store"
	"orders-backend/internal/validation"
)

// OrderService validates order input, performs the single write and
// invalidates the cached order list.
type OrderService struct {
	store  store.Orders
	cache  *cache.Cache
	schema *validation.OrderSchema
	logger *zap.Logger
	newID  func() string
}

func NewOrderService(s store.Orders, c *cache.Cache, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:  s,
		cache:  c,
		schema: validation.NewOrderSchema(),
		logger: logging.OrNop(logger),
		newID:  uuid.NewString,
	}
}

// Create validates in and inserts a new order with a fresh id. Validation
// failures are returned as *validation.Errors.
func (s *OrderService) Create(ctx context.Context, in models.OrderInput) (*models.Order, error) {
	return s.CreateAt(ctx, in, time.Time{}, time.Time{})
}

// CreateAt is Create with caller supplied timestamps; zero values are
// assigned by the store.
func (s *OrderService) CreateAt(ctx context.Context, in models.OrderInput, createdAt, updatedAt time.Time) (*models.Order, error) {
	if err := s.schema.Validate(&in); err != nil {
		return nil, err
	}

	order, err := s.store.CreateOrder(ctx, &models.Order{
		ID:              s.newID(),
		UserID:          in.UserID,
		TotalAmount:     in.TotalAmount,
		ShippingAddress: in.ShippingAddress,
		ShippingStatus:  in.ShippingStatus,
		OrderStatus:     in.OrderStatus,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	})
	if err != nil {
		s.logger.Error("Error creating order", zap.String("user_id", in.UserID), zap.Error(err))
		if errors.Is(err, store.ErrUnknownUser) {
			return nil, errors.Join(ErrWriteFailed, store.ErrUnknownUser)
		}
		return nil, ErrWriteFailed
	}

	s.cache.Invalidate(ctx, cache.TagOrders)
	return order, nil
}

// Update replaces the mutable fields of order id. It returns (nil, nil)
// when no order has that id.
func (s *OrderService) Update(ctx context.Context, id string, in models.OrderInput) (*models.Order, error) {
	if err := s.schema.Validate(&in); err != nil {
		return nil, err
	}

	order, err := s.store.UpdateOrder(ctx, &models.Order{
		ID:              id,
		UserID:          in.UserID,
		TotalAmount:     in.TotalAmount,
		ShippingAddress: in.ShippingAddress,
		ShippingStatus:  in.ShippingStatus,
		OrderStatus:     in.OrderStatus,
	})
	if err != nil {
		s.logger.Error("Error updating order", zap.String("order_id", id), zap.Error(err))
		return nil, ErrWriteFailed
	}

	s.cache.Invalidate(ctx, cache.TagOrders)
	return order, nil
}

// Delete removes order id and returns the deleted row, or ErrNotFound.
// The order list is invalidated whatever the outcome.
func (s *OrderService) Delete(ctx context.Context, id string) (*models.Order, error) {
	defer s.cache.Invalidate(ctx, cache.TagOrders)

	order, err := s.store.DeleteOrder(ctx, id)
	if err != nil {
		s.logger.Error("Error deleting order", zap.String("order_id", id), zap.Error(err))
		return nil, ErrWriteFailed
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}
