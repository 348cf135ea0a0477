// Package store declares the persistence contract shared by the Postgres
// client and the in-memory store. Lookups report a missing row as
// (nil, nil); errors are reserved for store failures.
package store

import (
	"context"
	"errors"

	"orders-backend/internal/models"
)

// ErrDuplicateEmail is returned when a user write collides with the unique
// email constraint.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrUnknownUser is returned when an order names a user that does not exist.
var ErrUnknownUser = errors.New("order references an unknown user")

type Users interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id, email, passwordHash string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (*models.User, error)
}

type Orders interface {
	GetOrder(ctx context.Context, id string) (*models.OrderWithUser, error)
	ListOrders(ctx context.Context) ([]models.OrderWithUser, error)
	ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	// CreateOrder inserts order as given; CreatedAt/UpdatedAt are assigned
	// by the store when zero.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// UpdateOrder replaces the mutable fields of the order with order.ID.
	// It returns (nil, nil) when no row matched.
	UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// DeleteOrder returns the deleted row, or (nil, nil) when none matched.
	DeleteOrder(ctx context.Context, id string) (*models.Order, error)
}

type Products interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	SetProductImage(ctx context.Context, id, imageURL string) (*models.Product, error)
}

type Elements interface {
	ListElements(ctx context.Context) ([]models.Element, error)
	GetElementBySymbol(ctx context.Context, symbol string) (*models.Element, error)
	CreateElement(ctx context.Context, element *models.Element) (*models.Element, error)
}

// Store is the full persistence surface.
type Store interface {
	Users
	Orders
	Products
	Elements
	// Reset deletes every row; it backs the seed command.
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}
