package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hakeemmukif/distraction-shop-v2/models"
)

// OrderPlacedEvent is the message fulfillment consumers receive once the
// payment provider confirms a checkout session.
type OrderPlacedEvent struct {
	Event string       `json:"event"`
	Order models.Order `json:"order"`
}

type Publisher struct {
	pool      *ChannelPool
	queueName string
}

func NewPublisher(pool *ChannelPool, queueName string) *Publisher {
	return &Publisher{
		pool:      pool,
		queueName: queueName,
	}
}

// PublishOrderPlaced enqueues a confirmed order for fulfillment.
func (p *Publisher) PublishOrderPlaced(order models.Order) error {
	ch, err := p.pool.Get()
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.Put(ch)

	body, err := json.Marshal(OrderPlacedEvent{Event: "order.placed", Order: order})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	log.Printf("Published order.placed for %s", order.OrderNumber)
	return nil
}
