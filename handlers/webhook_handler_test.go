package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

const webhookTestSecret = "whsec_test"

type hmacVerifier struct{ secret string }

func (v hmacVerifier) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(body)
	return hmac.Equal([]byte(hex.EncodeToString(mac.Sum(nil))), []byte(signature))
}

type fakeStock struct {
	decrements []string
}

func (f *fakeStock) DecrementStock(productID, size string, quantity int) error {
	f.decrements = append(f.decrements, productID+"/"+size)
	return nil
}

type fakePublisher struct {
	published []models.Order
}

func (f *fakePublisher) PublishOrderPlaced(order models.Order) error {
	f.published = append(f.published, order)
	return nil
}

type webhookFixture struct {
	router    *gin.Engine
	orders    *store.Orders
	stock     *fakeStock
	publisher *fakePublisher
}

func newWebhookFixture() *webhookFixture {
	orders := store.NewOrders()
	stock := &fakeStock{}
	publisher := &fakePublisher{}
	h := NewWebhookHandler(hmacVerifier{webhookTestSecret}, stock, orders, publisher)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/webhooks/payment", h.HandleEvent)

	return &webhookFixture{router: router, orders: orders, stock: stock, publisher: publisher}
}

func sign(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func (f *webhookFixture) deliver(body, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Payment-Signature", signature)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func completedSession(sessionID string) string {
	items, _ := json.Marshal([]models.OrderItem{
		{ProductID: "prod_tee", Name: "Logo Tee", Size: "M", Quantity: 2, Price: 4500},
	})
	event := map[string]any{
		"id":   "evt_1",
		"type": "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":             sessionID,
				"amount_total":   9000,
				"currency":       "myr",
				"customer_email": "buyer@example.com",
				"payment_status": "paid",
				"metadata":       map[string]string{"items": string(items)},
			},
		},
	}
	body, _ := json.Marshal(event)
	return string(body)
}

func TestWebhookRecordsOrder(t *testing.T) {
	f := newWebhookFixture()
	body := completedSession("cs_1")

	w := f.deliver(body, sign(body, webhookTestSecret))
	require.Equal(t, http.StatusOK, w.Code)

	order, ok := f.orders.BySession("cs_1")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, "buyer@example.com", order.CustomerEmail)
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, int64(9000), order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	assert.Equal(t, []string{"prod_tee/M"}, f.stock.decrements)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, order.OrderNumber, f.publisher.published[0].OrderNumber)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newWebhookFixture()
	body := completedSession("cs_1")

	w := f.deliver(body, "deadbeef")
	require.Equal(t, http.StatusBadRequest, w.Code)

	_, ok := f.orders.BySession("cs_1")
	assert.False(t, ok)
	assert.Empty(t, f.publisher.published)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	f := newWebhookFixture()

	w := f.deliver(completedSession("cs_1"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookDuplicateSessionRecordedOnce(t *testing.T) {
	f := newWebhookFixture()
	body := completedSession("cs_1")
	signature := sign(body, webhookTestSecret)

	require.Equal(t, http.StatusOK, f.deliver(body, signature).Code)
	// Provider retries the same event; it must be acknowledged, not re-recorded.
	require.Equal(t, http.StatusOK, f.deliver(body, signature).Code)

	assert.Len(t, f.orders.List(), 1)
	assert.Len(t, f.publisher.published, 1)
	assert.Len(t, f.stock.decrements, 1)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	f := newWebhookFixture()
	body := `{"id":"evt_2","type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`

	w := f.deliver(body, sign(body, webhookTestSecret))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, f.orders.List())
	assert.Empty(t, f.publisher.published)
}

func TestWebhookSessionWithoutItems(t *testing.T) {
	f := newWebhookFixture()
	body := `{"id":"evt_3","type":"checkout.session.completed","data":{"object":{"id":"cs_empty","metadata":{}}}}`

	w := f.deliver(body, sign(body, webhookTestSecret))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.orders.List())
}
