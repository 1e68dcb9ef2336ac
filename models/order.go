package models

import "time"

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// Order is a completed purchase recorded from a payment webhook. OrderNumber
// is the customer-facing reference; SessionID ties the order back to the
// provider's checkout session.
type Order struct {
	OrderNumber   string      `json:"order_number"`
	SessionID     string      `json:"session_id"`
	CustomerEmail string      `json:"customer_email"`
	CustomerName  string      `json:"customer_name,omitempty"`
	Status        string      `json:"status"`
	Total         int64       `json:"total"`
	Currency      string      `json:"currency"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
}

type OrdersResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

type UpdateOrderRequest struct {
	Status string `json:"status" binding:"required,oneof=paid processing shipped delivered cancelled"`
}

type CheckoutRequest struct {
	CartID        string `json:"cart_id" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
}

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
