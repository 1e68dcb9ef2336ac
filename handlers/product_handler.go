package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hakeemmukif/distraction-shop-v2/clients"
	"github.com/hakeemmukif/distraction-shop-v2/models"
)

// ProductHandler serves the storefront catalog, which lives in the payments
// provider's product metadata rather than a local database.
type ProductHandler struct {
	catalog Catalog
}

func NewProductHandler(catalog Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts handles GET /products?category=&limit=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	category := c.DefaultQuery("category", "home")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 100 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "limit must be between 1 and 100",
		})
		return
	}

	products, err := h.catalog.ListProducts(category, limit)
	if err != nil {
		log.Printf("Failed to list products: %v", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "UPSTREAM_ERROR",
			Message: "Failed to fetch products",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductsResponse{
		Products: products,
		Total:    len(products),
	})
}

// GetProduct handles GET /products/:productId
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Param("productId"))
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "NOT_FOUND",
				Message: "Product not found or inactive",
			})
			return
		}
		log.Printf("Failed to fetch product: %v", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "UPSTREAM_ERROR",
			Message: "Failed to fetch product",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}
