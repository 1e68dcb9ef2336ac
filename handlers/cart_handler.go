package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hakeemmukif/distraction-shop-v2/cart"
	"github.com/hakeemmukif/distraction-shop-v2/clients"
	"github.com/hakeemmukif/distraction-shop-v2/models"
)

// Catalog is the product lookup the cart and checkout handlers need.
// *clients.PaymentsClient satisfies it.
type Catalog interface {
	ListProducts(category string, limit int) ([]models.Product, error)
	GetProduct(id string) (models.Product, error)
}

// CartHandler owns the per-session carts. Cart values themselves are
// immutable; the handler swaps a session's value under its lock after each
// engine operation.
type CartHandler struct {
	mu      sync.RWMutex
	carts   map[string]cart.Cart
	catalog Catalog
}

func NewCartHandler(catalog Catalog) *CartHandler {
	return &CartHandler{
		carts:   make(map[string]cart.Cart),
		catalog: catalog,
	}
}

// CreateCart handles POST /carts
func (h *CartHandler) CreateCart(c *gin.Context) {
	cartID := uuid.NewString()

	h.mu.Lock()
	h.carts[cartID] = cart.Cart{}
	h.mu.Unlock()

	log.Printf("Created cart %s", cartID)

	c.JSON(http.StatusCreated, models.CreateCartResponse{CartID: cartID})
}

// GetCart handles GET /carts/:cartId
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID := c.Param("cartId")

	h.mu.RLock()
	value, exists := h.carts[cartID]
	h.mu.RUnlock()

	if !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cartID, value))
}

// AddItem handles POST /carts/:cartId/items. The line's price, name and
// stock ceiling come from the live catalog, never from the client.
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID := c.Param("cartId")

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	line, errResp := h.resolveLine(req.ProductID, req.Size, req.Quantity)
	if errResp != nil {
		c.JSON(errResp.status, errResp.body)
		return
	}

	h.mu.Lock()
	value, exists := h.carts[cartID]
	if !exists {
		h.mu.Unlock()
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}

	updated, err := value.Add(line)
	if err != nil {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "STOCK_EXCEEDED",
			Message: "Requested quantity exceeds available stock",
		})
		return
	}
	h.carts[cartID] = updated
	h.mu.Unlock()

	log.Printf("Added %d x %s (%s) to cart %s", line.Quantity, line.ProductID, line.Size, cartID)

	c.JSON(http.StatusOK, cartResponse(cartID, updated))
}

// UpdateItem handles PUT /carts/:cartId/items. Quantity zero or below
// removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID := c.Param("cartId")

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.mu.Lock()
	value, exists := h.carts[cartID]
	if !exists {
		h.mu.Unlock()
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}

	updated, err := value.UpdateQuantity(req.ProductID, req.Size, req.Quantity)
	if err != nil {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "STOCK_EXCEEDED",
			Message: "Requested quantity exceeds available stock",
		})
		return
	}
	h.carts[cartID] = updated
	h.mu.Unlock()

	c.JSON(http.StatusOK, cartResponse(cartID, updated))
}

// RemoveItem handles DELETE /carts/:cartId/items?product_id=&size=.
// Removing an absent line is a no-op, not an error.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID := c.Param("cartId")
	productID := c.Query("product_id")
	size := c.Query("size")

	if productID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "product_id query parameter is required",
		})
		return
	}

	h.mu.Lock()
	value, exists := h.carts[cartID]
	if !exists {
		h.mu.Unlock()
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}

	updated := value.Remove(productID, size)
	h.carts[cartID] = updated
	h.mu.Unlock()

	c.JSON(http.StatusOK, cartResponse(cartID, updated))
}

// ClearCart handles DELETE /carts/:cartId
func (h *CartHandler) ClearCart(c *gin.Context) {
	cartID := c.Param("cartId")

	h.mu.Lock()
	value, exists := h.carts[cartID]
	if !exists {
		h.mu.Unlock()
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}
	updated := value.Clear()
	h.carts[cartID] = updated
	h.mu.Unlock()

	c.JSON(http.StatusOK, cartResponse(cartID, updated))
}

// Cart returns a session's cart value (used by checkout).
func (h *CartHandler) Cart(cartID string) (cart.Cart, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	value, exists := h.carts[cartID]
	return value, exists
}

type handlerError struct {
	status int
	body   models.ErrorResponse
}

// resolveLine turns a requested product+size into a catalog-backed cart line.
func (h *CartHandler) resolveLine(productID, size string, quantity int) (cart.Line, *handlerError) {
	product, err := h.catalog.GetProduct(productID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return cart.Line{}, &handlerError{http.StatusNotFound, models.ErrorResponse{
				Error:   "NOT_FOUND",
				Message: "Product not found",
			}}
		}
		return cart.Line{}, &handlerError{http.StatusBadGateway, models.ErrorResponse{
			Error:   "UPSTREAM_ERROR",
			Message: "Failed to fetch product",
			Details: err.Error(),
		}}
	}

	stock := 0
	if len(product.Sizes) == 0 {
		if size != "" && size != "One Size" {
			return cart.Line{}, &handlerError{http.StatusBadRequest, models.ErrorResponse{
				Error:   "INVALID_INPUT",
				Message: "Product has no sizes",
			}}
		}
		// Sizeless products are one-offs (preloved pieces).
		size = "One Size"
		stock = 1
	} else {
		found := false
		for _, s := range product.Sizes {
			if s.Label == size {
				stock = s.Stock
				found = true
				break
			}
		}
		if !found {
			return cart.Line{}, &handlerError{http.StatusBadRequest, models.ErrorResponse{
				Error:   "INVALID_INPUT",
				Message: "Unknown size for this product",
			}}
		}
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}

	return cart.Line{
		ProductID: product.ID,
		Size:      size,
		Name:      product.Name,
		Image:     image,
		UnitPrice: product.Price,
		Quantity:  quantity,
		Stock:     stock,
	}, nil
}

func cartResponse(cartID string, value cart.Cart) models.CartResponse {
	items := value.Lines
	if items == nil {
		items = []cart.Line{}
	}
	return models.CartResponse{
		CartID:    cartID,
		Items:     items,
		ItemCount: value.ItemCount(),
		Total:     value.Total(),
	}
}
