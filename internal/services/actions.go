package services

import (
	"context"
	"errors"

	"orders-backend/internal/dal"
	"orders-backend/internal/models"
	"orders-backend/internal/validation"
)

const (
	msgUnauthorized     = "Unauthorized access"
	msgValidationFailed = "Validation failed"
	msgOrderNotFound    = "Order not found or already deleted"
)

// OrderActions are the order form actions. Every expected outcome,
// failures included, is reported as an ActionResult.
type OrderActions struct {
	orders *OrderService
	dal    *dal.DAL
}

func NewOrderActions(orders *OrderService, d *dal.DAL) *OrderActions {
	return &OrderActions{orders: orders, dal: d}
}

func (a *OrderActions) CreateOrder(ctx context.Context, in models.OrderInput) models.ActionResult {
	if a.dal.GetCurrentUser(ctx) == nil {
		return models.ActionResult{Success: false, Message: msgUnauthorized}
	}

	order, err := a.orders.Create(ctx, in)
	if err != nil {
		return failure(err, "Failed to create order")
	}
	return models.ActionResult{Success: true, Message: "Order created successfully", Data: order}
}

// UpdateOrder reports success when the store accepted the update, even if
// no order had that id.
func (a *OrderActions) UpdateOrder(ctx context.Context, id string, in models.OrderInput) models.ActionResult {
	if a.dal.GetCurrentUser(ctx) == nil {
		return models.ActionResult{Success: false, Message: msgUnauthorized}
	}

	order, err := a.orders.Update(ctx, id, in)
	if err != nil {
		return failure(err, "Failed to update order")
	}
	result := models.ActionResult{Success: true, Message: "Order updated successfully"}
	if order != nil {
		result.Data = order
	}
	return result
}

func (a *OrderActions) DeleteOrder(ctx context.Context, id string) models.ActionResult {
	if a.dal.GetCurrentUser(ctx) == nil {
		return models.ActionResult{Success: false, Message: msgUnauthorized}
	}

	if _, err := a.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.ActionResult{Success: false, Message: msgOrderNotFound}
		}
		return failure(err, "Failed to delete order")
	}
	return models.ActionResult{Success: true, Message: "Order deleted successfully"}
}

func failure(err error, message string) models.ActionResult {
	if verr, ok := validation.AsErrors(err); ok {
		return models.ActionResult{Success: false, Message: msgValidationFailed, Errors: verr.Fields}
	}
	return models.ActionResult{Success: false, Message: message}
}
