package models

import "time"

// OrderInput is the untrusted order payload submitted by the order form.
// Tags are evaluated by validation.OrderSchema; the decimal2 tag is a
// custom rule registered there.
type OrderInput struct {
	UserID          string         `json:"user_id" form:"user_id" validate:"required"`
	TotalAmount     string         `json:"total_amount" form:"total_amount" validate:"required,decimal2"`
	ShippingAddress string         `json:"shipping_address" form:"shipping_address" validate:"required"`
	ShippingStatus  ShippingStatus `json:"shipping_status" form:"shipping_status" validate:"oneof=pending shipped delivered returned"`
	OrderStatus     OrderStatus    `json:"order_status" form:"order_status" validate:"oneof=processing completed cancelled"`
}

// CreateOrderRequest is the body of POST /api/order.
type CreateOrderRequest struct {
	UserID          string    `json:"userId" binding:"required"`
	TotalAmount     string    `json:"totalAmount" binding:"required"`
	ShippingAddress string    `json:"shippingAddress" binding:"required"`
	ShippingStatus  string    `json:"shippingStatus" binding:"required"`
	OrderStatus     string    `json:"orderStatus" binding:"required"`
	CreatedAt       time.Time `json:"createdAt" binding:"required"`
	UpdatedAt       time.Time `json:"updatedAt" binding:"required"`
}

// UpdateOrderRequest is the body of PUT /api/order/{id}.
type UpdateOrderRequest struct {
	UserID          string `json:"userId" binding:"required"`
	TotalAmount     string `json:"totalAmount" binding:"required"`
	ShippingAddress string `json:"shippingAddress" binding:"required"`
	ShippingStatus  string `json:"shippingStatus" binding:"required"`
	OrderStatus     string `json:"orderStatus" binding:"required"`
}

func (r CreateOrderRequest) Input() OrderInput {
	return OrderInput{
		UserID:          r.UserID,
		TotalAmount:     r.TotalAmount,
		ShippingAddress: r.ShippingAddress,
		ShippingStatus:  ShippingStatus(r.ShippingStatus),
		OrderStatus:     OrderStatus(r.OrderStatus),
	}
}

func (r UpdateOrderRequest) Input() OrderInput {
	return OrderInput{
		UserID:          r.UserID,
		TotalAmount:     r.TotalAmount,
		ShippingAddress: r.ShippingAddress,
		ShippingStatus:  ShippingStatus(r.ShippingStatus),
		OrderStatus:     OrderStatus(r.OrderStatus),
	}
}

// CreateUserRequest is the body of POST /api/user. ID and CreatedAt are
// optional; the server fills them when absent.
type CreateUserRequest struct {
	ID        string     `json:"id"`
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required"`
	CreatedAt *time.Time `json:"createdAt"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
