package services

import (
	"context"

	"go.uber.org/zap"
	"orders-backend/internal/cache"
	"orders-backend/internal/dal"
	"orders-backend/internal/logging"
	"orders-backend/internal/models"
	"orders-backend/internal/store"
)

// ImageStore uploads product images and returns the object path and its
// public URL.
type ImageStore interface {
	UploadProductImage(productID, filename, contentType string, data []byte) (string, string, error)
}

type ProductService struct {
	store  store.Products
	images ImageStore
	cache  *cache.Cache
	logger *zap.Logger
}

// NewProductService builds the service. images may be nil when no object
// storage is configured; uploads then fail with ErrStorageUnavailable.
func NewProductService(s store.Products, images ImageStore, c *cache.Cache, logger *zap.Logger) *ProductService {
	return &ProductService{store: s, images: images, cache: c, logger: logging.OrNop(logger)}
}

func (s *ProductService) UploadImage(ctx context.Context, productID, filename, contentType string, data []byte) (*models.ProductView, error) {
	if s.images == nil {
		return nil, ErrStorageUnavailable
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Error fetching product", zap.String("product_id", productID), zap.Error(err))
		return nil, ErrWriteFailed
	}
	if product == nil {
		return nil, ErrNotFound
	}

	path, url, err := s.images.UploadProductImage(productID, filename, contentType, data)
	if err != nil {
		s.logger.Error("Error uploading product image", zap.String("product_id", productID), zap.Error(err))
		return nil, ErrWriteFailed
	}

	updated, err := s.store.SetProductImage(ctx, productID, url)
	if err != nil {
		s.logger.Error("Error recording product image", zap.String("product_id", productID), zap.String("path", path), zap.Error(err))
		return nil, ErrWriteFailed
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.cache.Invalidate(ctx, cache.TagProducts)
	s.logger.Info("Product image uploaded", zap.String("product_id", productID), zap.String("path", path))

	view := dal.NormalizeProduct(*updated)
	return &view, nil
}
