package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

// OrderHandler serves customer-facing order lookups and the back-office
// order views.
type OrderHandler struct {
	orders *store.Orders
}

func NewOrderHandler(orders *store.Orders) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// BySession handles GET /orders/by-session?session_id=
func (h *OrderHandler) BySession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "session_id query parameter is required",
		})
		return
	}

	order, ok := h.orders.BySession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "No order found for this session",
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// Lookup handles GET /orders/lookup?email=
func (h *OrderHandler) Lookup(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "email query parameter is required",
		})
		return
	}

	orders := h.orders.ByEmail(email)
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, models.OrdersResponse{Orders: orders, Total: len(orders)})
}

// List handles GET /admin/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders := h.orders.List()
	c.JSON(http.StatusOK, models.OrdersResponse{Orders: orders, Total: len(orders)})
}

// UpdateStatus handles PUT /superadmin/orders/:orderNumber
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	order, ok := h.orders.UpdateStatus(c.Param("orderNumber"), req.Status)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, order)
}
