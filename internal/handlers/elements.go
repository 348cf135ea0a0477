package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"orders-backend/internal/dal"
)

type ElementsHandler struct {
	dal *dal.DAL
}

func NewElementsHandler(d *dal.DAL) *ElementsHandler {
	return &ElementsHandler{dal: d}
}

// ListElements godoc
// @Summary     List chemical elements
// @Tags        elements
// @Produce     json
// @Success     200 {array}  models.ElementView
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/element [get]
func (h *ElementsHandler) ListElements(c *gin.Context) {
	elements, err := h.dal.GetElements(c.Request.Context())
	if err != nil {
		writeFailure(c, err, "", "Failed to fetch elements")
		return
	}
	c.JSON(http.StatusOK, elements)
}

// GetElement godoc
// @Summary     Get a chemical element by symbol
// @Tags        elements
// @Produce     json
// @Param       symbol path string true "Element symbol, case-insensitive"
// @Success     200 {object} models.ElementView
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/element/{symbol} [get]
func (h *ElementsHandler) GetElement(c *gin.Context) {
	element, err := h.dal.GetElement(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeFailure(c, err, "", "Failed to fetch element")
		return
	}
	if element == nil {
		respondError(c, http.StatusNotFound, "Element not found")
		return
	}
	c.JSON(http.StatusOK, element)
}
