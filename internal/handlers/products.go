package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"orders-backend/internal/dal"
	"orders-backend/internal/services"
)

const maxImageSize = 10 << 20

type ProductsHandler struct {
	dal      *dal.DAL
	products *services.ProductService
}

func NewProductsHandler(d *dal.DAL, products *services.ProductService) *ProductsHandler {
	return &ProductsHandler{dal: d, products: products}
}

// ListProducts godoc
// @Summary     List products
// @Description Returns every product ordered by id with numeric prices
// @Tags        products
// @Produce     json
// @Success     200 {array}  models.ProductView
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/product [get]
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	products, err := h.dal.GetAllProducts(c.Request.Context())
	if err != nil {
		writeFailure(c, err, "", "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary     Get a product
// @Tags        products
// @Produce     json
// @Param       id path string true "Product ID"
// @Success     200 {object} models.ProductView
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/product/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	product, err := h.dal.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, err, "", "Failed to fetch product")
		return
	}
	if product == nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

// UploadImage godoc
// @Summary     Upload a product image
// @Description Stores the image in object storage and records its public URL on the product
// @Tags        products
// @Accept      multipart/form-data
// @Produce     json
// @Param       id    path     string true "Product ID"
// @Param       image formData file   true "Image file"
// @Success     200 {object} models.ProductView
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /api/product/{id}/image [put]
func (h *ProductsHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		respondError(c, http.StatusBadRequest, "image file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read image file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	product, err := h.products.UploadImage(c.Request.Context(), c.Param("id"), fileHeader.Filename, contentType, data)
	if err != nil {
		writeFailure(c, err, "Product not found", "Failed to upload product image")
		return
	}
	c.JSON(http.StatusOK, product)
}
