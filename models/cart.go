package models

import "github.com/hakeemmukif/distraction-shop-v2/cart"

type CreateCartResponse struct {
	CartID string `json:"cart_id"`
}

// CartResponse is a cart with its derived totals, as served to clients.
type CartResponse struct {
	CartID    string      `json:"cart_id"`
	Items     []cart.Line `json:"items"`
	ItemCount int         `json:"item_count"`
	Total     int64       `json:"total"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}
