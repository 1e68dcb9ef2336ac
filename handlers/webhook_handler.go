package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

// SignatureVerifier checks the provider's HMAC signature over a raw webhook
// body.
type SignatureVerifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}

// StockDecrementer writes post-sale stock back to the provider's metadata.
type StockDecrementer interface {
	DecrementStock(productID, size string, quantity int) error
}

// OrderPublisher pushes confirmed orders onto the fulfillment queue.
// *rabbitmq.Publisher satisfies it.
type OrderPublisher interface {
	PublishOrderPlaced(order models.Order) error
}

const signatureHeader = "X-Payment-Signature"

type WebhookHandler struct {
	verifier  SignatureVerifier
	stock     StockDecrementer
	orders    *store.Orders
	publisher OrderPublisher
}

func NewWebhookHandler(verifier SignatureVerifier, stock StockDecrementer, orders *store.Orders, publisher OrderPublisher) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		stock:     stock,
		orders:    orders,
		publisher: publisher,
	}
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			AmountTotal   int64             `json:"amount_total"`
			Currency      string            `json:"currency"`
			CustomerEmail string            `json:"customer_email"`
			CustomerName  string            `json:"customer_name"`
			PaymentStatus string            `json:"payment_status"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// HandleEvent handles POST /webhooks/payment. Only completed checkout
// sessions produce orders; every other event type is acknowledged and
// dropped so the provider stops retrying it.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Failed to read request body",
		})
		return
	}

	signature := c.GetHeader(signatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "MISSING_SIGNATURE",
			Message: "Missing " + signatureHeader + " header",
		})
		return
	}
	if !h.verifier.VerifyWebhookSignature(body, signature) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_SIGNATURE",
			Message: "Webhook signature verification failed",
		})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Malformed webhook payload",
			Details: err.Error(),
		})
		return
	}

	if event.Type != "checkout.session.completed" {
		log.Printf("Ignoring webhook event %s (%s)", event.ID, event.Type)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	session := event.Data.Object

	var items []models.OrderItem
	if raw := session.Metadata["items"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("Failed to parse items metadata for session %s: %v", session.ID, err)
		}
	}
	if len(items) == 0 {
		log.Printf("No items in session %s metadata, nothing to record", session.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	email := session.CustomerEmail
	if email == "" {
		email = session.Metadata["customer_email"]
	}

	order, err := h.orders.Record(models.Order{
		SessionID:     session.ID,
		CustomerEmail: email,
		CustomerName:  session.CustomerName,
		Status:        "paid",
		Total:         session.AmountTotal,
		Currency:      session.Currency,
		Items:         items,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSession) {
			log.Printf("Duplicate webhook for session %s, already recorded", session.ID)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "ORDER_ERROR",
			Message: "Failed to record order",
			Details: err.Error(),
		})
		return
	}

	log.Printf("Recorded order %s from session %s (%d items)", order.OrderNumber, session.ID, len(items))

	// Stock writes and the fulfillment publish are best-effort: the payment
	// already happened, so failures here must not make the provider retry.
	for _, item := range items {
		if err := h.stock.DecrementStock(item.ProductID, item.Size, item.Quantity); err != nil {
			log.Printf("Failed to decrement stock for %s (%s): %v", item.ProductID, item.Size, err)
		}
	}

	if err := h.publisher.PublishOrderPlaced(order); err != nil {
		log.Printf("Failed to publish order %s to fulfillment queue: %v", order.OrderNumber, err)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
