package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hakeemmukif/distraction-shop-v2/models"
)

// Orders records completed orders delivered by the payment webhook.
// In-memory with a session-id index; duplicate webhook deliveries for the
// same checkout session are rejected so retries don't double-record.
type Orders struct {
	mu        sync.RWMutex
	byNumber  map[string]*models.Order
	bySession map[string]string
	sequence  []string
}

func NewOrders() *Orders {
	return &Orders{
		byNumber:  make(map[string]*models.Order),
		bySession: make(map[string]string),
	}
}

// ErrDuplicateSession is returned when an order for the checkout session was
// already recorded.
var ErrDuplicateSession = fmt.Errorf("order already recorded for session")

// Record stores a new order, assigning its order number.
func (s *Orders) Record(order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySession[order.SessionID]; exists {
		return models.Order{}, ErrDuplicateSession
	}

	order.OrderNumber = generateOrderNumber()
	order.CreatedAt = time.Now().UTC()
	if order.Status == "" {
		order.Status = "paid"
	}

	stored := order
	s.byNumber[order.OrderNumber] = &stored
	s.bySession[order.SessionID] = order.OrderNumber
	s.sequence = append(s.sequence, order.OrderNumber)
	return order, nil
}

// BySession returns the order created from the given checkout session.
func (s *Orders) BySession(sessionID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	number, ok := s.bySession[sessionID]
	if !ok {
		return models.Order{}, false
	}
	return *s.byNumber[number], true
}

// ByEmail returns all orders for a customer email, newest first.
func (s *Orders) ByEmail(email string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orders []models.Order
	for i := len(s.sequence) - 1; i >= 0; i-- {
		o := s.byNumber[s.sequence[i]]
		if strings.EqualFold(o.CustomerEmail, email) {
			orders = append(orders, *o)
		}
	}
	return orders
}

// List returns all recorded orders, newest first.
func (s *Orders) List() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]models.Order, 0, len(s.sequence))
	for i := len(s.sequence) - 1; i >= 0; i-- {
		orders = append(orders, *s.byNumber[s.sequence[i]])
	}
	return orders
}

// UpdateStatus moves an order through its fulfillment states.
func (s *Orders) UpdateStatus(orderNumber, status string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.byNumber[orderNumber]
	if !ok {
		return models.Order{}, false
	}
	order.Status = status
	return *order, true
}

func generateOrderNumber() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(timestamp) > 8 {
		timestamp = timestamp[len(timestamp)-8:]
	}
	return fmt.Sprintf("ORD-%s-%s", timestamp, strings.ToUpper(hex.EncodeToString(buf)))
}
