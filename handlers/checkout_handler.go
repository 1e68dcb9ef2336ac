package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hakeemmukif/distraction-shop-v2/cart"
	"github.com/hakeemmukif/distraction-shop-v2/clients"
	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/schedule"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

// SessionCreator opens hosted checkout sessions with the payments provider.
type SessionCreator interface {
	CreateCheckoutSession(items []clients.LineItem, customerEmail, itemsMetadata string) (models.CheckoutResponse, error)
}

type CheckoutHandler struct {
	carts    *CartHandler
	catalog  Catalog
	payments SessionCreator
	settings *store.Settings
	override *schedule.OverrideState
	now      func() time.Time
}

func NewCheckoutHandler(carts *CartHandler, catalog Catalog, payments SessionCreator, settings *store.Settings, override *schedule.OverrideState) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		catalog:  catalog,
		payments: payments,
		settings: settings,
		override: override,
		now:      time.Now,
	}
}

// Checkout handles POST /checkout. It refuses while the shop is closed,
// re-validates the cart against live stock, then hands off to the provider's
// hosted payment page.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	week, loc := h.settings.Schedule()
	if status := week.Evaluate(loc, h.override.Get(), h.now()); !status.IsOpen {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "SHOP_CLOSED",
			Message: "The shop is currently closed",
		})
		return
	}

	value, exists := h.carts.Cart(req.CartID)
	if !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}
	if len(value.Lines) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "EMPTY_CART",
			Message: "Cannot checkout an empty cart",
		})
		return
	}

	if errResp := h.revalidateStock(value); errResp != nil {
		c.JSON(errResp.status, errResp.body)
		return
	}

	items := make([]clients.LineItem, 0, len(value.Lines))
	metadata := make([]models.OrderItem, 0, len(value.Lines))
	for _, line := range value.Lines {
		items = append(items, clients.LineItem{
			Name:       fmt.Sprintf("%s (%s)", line.Name, line.Size),
			UnitAmount: line.UnitPrice,
			Currency:   "myr",
			Quantity:   line.Quantity,
		})
		metadata = append(metadata, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "CHECKOUT_ERROR",
			Message: "Failed to encode cart items",
		})
		return
	}

	session, err := h.payments.CreateCheckoutSession(items, req.CustomerEmail, string(metadataJSON))
	if err != nil {
		log.Printf("Failed to create checkout session for cart %s: %v", req.CartID, err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "UPSTREAM_ERROR",
			Message: "Failed to create checkout session",
			Details: err.Error(),
		})
		return
	}

	log.Printf("Checkout session %s created for cart %s (%d items, total %d)",
		session.SessionID, req.CartID, value.ItemCount(), value.Total())

	c.JSON(http.StatusOK, session)
}

// revalidateStock re-reads each line's product so a cart built from a stale
// catalog cannot buy more than is left.
func (h *CheckoutHandler) revalidateStock(value cart.Cart) *handlerError {
	for _, line := range value.Lines {
		product, err := h.catalog.GetProduct(line.ProductID)
		if err != nil {
			return &handlerError{http.StatusConflict, models.ErrorResponse{
				Error:   "STOCK_CHANGED",
				Message: "A product in the cart is no longer available",
				Details: line.ProductID,
			}}
		}
		if len(product.Sizes) == 0 {
			// One-offs carry no stock metadata: exactly one unit exists
			// until the sale webhook deactivates the product.
			if line.Quantity > 1 {
				return &handlerError{http.StatusConflict, models.ErrorResponse{
					Error:   "STOCK_CHANGED",
					Message: fmt.Sprintf("Only one %s is available", product.Name),
					Details: line.ProductID,
				}}
			}
			continue
		}
		for _, size := range product.Sizes {
			if size.Label == line.Size && line.Quantity > size.Stock {
				return &handlerError{http.StatusConflict, models.ErrorResponse{
					Error:   "STOCK_CHANGED",
					Message: fmt.Sprintf("Only %d of %s (%s) available", size.Stock, product.Name, size.Label),
					Details: line.ProductID,
				}}
			}
		}
	}
	return nil
}
