package models

import "time"

type ShippingStatus string

const (
	ShippingPending   ShippingStatus = "pending"
	ShippingShipped   ShippingStatus = "shipped"
	ShippingDelivered ShippingStatus = "delivered"
	ShippingReturned  ShippingStatus = "returned"
)

// ShippingStatuses lists the shipping_status enum in display order.
var ShippingStatuses = []ShippingStatus{ShippingPending, ShippingShipped, ShippingDelivered, ShippingReturned}

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists the order_status enum in display order.
var OrderStatuses = []OrderStatus{OrderProcessing, OrderCompleted, OrderCancelled}

// Order is a row of the orders table. TotalAmount keeps the exact decimal
// text (at most two fractional digits) that was validated on write.
type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	TotalAmount     string         `json:"total_amount"`
	ShippingAddress string         `json:"shipping_address"`
	ShippingStatus  ShippingStatus `json:"shipping_status"`
	OrderStatus     OrderStatus    `json:"order_status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OrderWithUser is an order with its owning user eagerly joined. User is nil
// when the referenced user row no longer exists.
type OrderWithUser struct {
	Order
	User  *UserSummary `json:"user"`
	Items []OrderItem  `json:"items,omitempty"`
}

// OrderItem associates an order with a product at a point-in-time price.
type OrderItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}
