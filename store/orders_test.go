package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakeemmukif/distraction-shop-v2/models"
)

func sampleOrder(sessionID, email string) models.Order {
	return models.Order{
		SessionID:     sessionID,
		CustomerEmail: email,
		Total:         9000,
		Currency:      "myr",
		Items: []models.OrderItem{
			{ProductID: "prod_tee", Name: "Logo Tee", Size: "M", Quantity: 2, Price: 4500},
		},
	}
}

func TestRecordAssignsNumberAndDefaults(t *testing.T) {
	orders := NewOrders()

	order, err := orders.Record(sampleOrder("cs_1", "a@example.com"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, "paid", order.Status)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestRecordRejectsDuplicateSession(t *testing.T) {
	orders := NewOrders()

	_, err := orders.Record(sampleOrder("cs_1", "a@example.com"))
	require.NoError(t, err)

	_, err = orders.Record(sampleOrder("cs_1", "a@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateSession)
	assert.Len(t, orders.List(), 1)
}

func TestBySession(t *testing.T) {
	orders := NewOrders()
	recorded, err := orders.Record(sampleOrder("cs_1", "a@example.com"))
	require.NoError(t, err)

	found, ok := orders.BySession("cs_1")
	require.True(t, ok)
	assert.Equal(t, recorded.OrderNumber, found.OrderNumber)

	_, ok = orders.BySession("cs_other")
	assert.False(t, ok)
}

func TestByEmailIsCaseInsensitiveAndNewestFirst(t *testing.T) {
	orders := NewOrders()
	first, err := orders.Record(sampleOrder("cs_1", "Buyer@Example.com"))
	require.NoError(t, err)
	second, err := orders.Record(sampleOrder("cs_2", "buyer@example.com"))
	require.NoError(t, err)
	_, err = orders.Record(sampleOrder("cs_3", "other@example.com"))
	require.NoError(t, err)

	found := orders.ByEmail("BUYER@example.com")
	require.Len(t, found, 2)
	assert.Equal(t, second.OrderNumber, found[0].OrderNumber)
	assert.Equal(t, first.OrderNumber, found[1].OrderNumber)
}

func TestUpdateStatus(t *testing.T) {
	orders := NewOrders()
	recorded, err := orders.Record(sampleOrder("cs_1", "a@example.com"))
	require.NoError(t, err)

	updated, ok := orders.UpdateStatus(recorded.OrderNumber, "shipped")
	require.True(t, ok)
	assert.Equal(t, "shipped", updated.Status)

	found, _ := orders.BySession("cs_1")
	assert.Equal(t, "shipped", found.Status)

	_, ok = orders.UpdateStatus("ORD-UNKNOWN", "shipped")
	assert.False(t, ok)
}
