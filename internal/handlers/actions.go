package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"orders-backend/internal/models"
	"orders-backend/internal/services"
)

// ActionsHandler exposes the order form actions. Expected outcomes,
// failures included, are answered with 200 and an ActionResult.
type ActionsHandler struct {
	actions *services.OrderActions
}

func NewActionsHandler(actions *services.OrderActions) *ActionsHandler {
	return &ActionsHandler{actions: actions}
}

// CreateOrder godoc
// @Summary     Create order form action
// @Tags        actions
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Security    Bearer
// @Param       request body models.OrderInput true "Order form"
// @Success     200 {object} models.ActionResult
// @Failure     400 {object} models.ErrorResponse
// @Router      /actions/orders [post]
func (h *ActionsHandler) CreateOrder(c *gin.Context) {
	var in models.OrderInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid form data")
		return
	}
	c.JSON(http.StatusOK, h.actions.CreateOrder(c.Request.Context(), in))
}

// UpdateOrder godoc
// @Summary     Update order form action
// @Tags        actions
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Security    Bearer
// @Param       id      path string            true "Order ID"
// @Param       request body models.OrderInput true "Order form"
// @Success     200 {object} models.ActionResult
// @Failure     400 {object} models.ErrorResponse
// @Router      /actions/orders/{id} [put]
func (h *ActionsHandler) UpdateOrder(c *gin.Context) {
	var in models.OrderInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid form data")
		return
	}
	c.JSON(http.StatusOK, h.actions.UpdateOrder(c.Request.Context(), c.Param("id"), in))
}

// DeleteOrder godoc
// @Summary     Delete order form action
// @Tags        actions
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Order ID"
// @Success     200 {object} models.ActionResult
// @Router      /actions/orders/{id} [delete]
func (h *ActionsHandler) DeleteOrder(c *gin.Context) {
	c.JSON(http.StatusOK, h.actions.DeleteOrder(c.Request.Context(), c.Param("id")))
}
