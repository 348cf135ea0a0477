package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"orders-backend/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetDashboard godoc
// @Summary     Dashboard
// @Description Returns the current user together with the order list
// @Tags        dashboard
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DashboardResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	resp, err := h.dashboard.Load(c.Request.Context())
	if err != nil {
		writeFailure(c, err, "", "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}
