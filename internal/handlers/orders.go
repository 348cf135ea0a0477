package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"orders-backend/internal/dal"
	"orders-backend/internal/models"
	"orders-backend/internal/services"
)

type OrdersHandler struct {
	dal    *dal.DAL
	orders *services.OrderService
}

func NewOrdersHandler(d *dal.DAL, orders *services.OrderService) *OrdersHandler {
	return &OrdersHandler{dal: d, orders: orders}
}

// ListOrders godoc
// @Summary     List orders
// @Description Returns every order with its owning user, newest first
// @Tags        orders
// @Produce     json
// @Success     200 {array}  models.OrderWithUser
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/order [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	orders, err := h.dal.GetOrders(c.Request.Context())
	if err != nil {
		writeFailure(c, err, "", "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CreateOrder godoc
// @Summary     Create an order
// @Description Validates the order and stores it under a new id
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body models.CreateOrderRequest true "Order"
// @Success     201 {object} models.OrderMessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/order [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Missing required fields",
			Message: "userId, totalAmount, shippingAddress, shippingStatus, orderStatus, createdAt and updatedAt are required",
		})
		return
	}

	order, err := h.orders.CreateAt(c.Request.Context(), req.Input(), req.CreatedAt, req.UpdatedAt)
	if err != nil {
		writeFailure(c, err, "", "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, models.OrderMessageResponse{Message: "Order created successfully", Order: order})
}

// GetOrder godoc
// @Summary     Get an order
// @Description Returns one order with its owning user and items
// @Tags        orders
// @Produce     json
// @Param       id path string true "Order ID"
// @Success     200 {object} models.OrderWithUser
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/order/{id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	order, err := h.dal.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, err, "", "Failed to fetch order")
		return
	}
	if order == nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder godoc
// @Summary     Update an order
// @Description Replaces the amount, address and statuses of an order
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       id      path string                     true "Order ID"
// @Param       request body models.UpdateOrderRequest true "Order"
// @Success     200 {object} models.OrderMessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/order/{id} [put]
func (h *OrdersHandler) UpdateOrder(c *gin.Context) {
	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Missing required fields",
			Message: "userId, totalAmount, shippingAddress, shippingStatus and orderStatus are required",
		})
		return
	}

	order, err := h.orders.Update(c.Request.Context(), c.Param("id"), req.Input())
	if err != nil {
		writeFailure(c, err, "", "Failed to update order")
		return
	}
	if order == nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	c.JSON(http.StatusOK, models.OrderMessageResponse{Message: "Order updated successfully", Order: order})
}

// DeleteOrder godoc
// @Summary     Delete an order
// @Tags        orders
// @Produce     json
// @Param       id path string true "Order ID"
// @Success     200 {object} models.OrderMessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/order/{id} [delete]
func (h *OrdersHandler) DeleteOrder(c *gin.Context) {
	order, err := h.orders.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, err, "Order not found", "Failed to delete order")
		return
	}
	c.JSON(http.StatusOK, models.OrderMessageResponse{Message: "Order deleted successfully", Order: order})
}
