package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// Event routing keys published on the order queue.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	PaymentCaptured    = "payment.captured"
)

// Client holds the RabbitMQ connection and channel used to publish order
// lifecycle events. The broker is optional: services treat a nil *Client
// as "events disabled" and skip publication.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

const queueName = "order_events"

// NewClient connects to RabbitMQ and declares the durable order-events
// queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", queueName, err)
	}

	log.Printf("RabbitMQ client connected, %s queue declared", queueName)
	return &Client{conn: conn, channel: ch}, nil
}

// Close closes the channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing events client: %v", errs)
	}
	return nil
}

// envelope is the wire shape of every published event.
type envelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Publish sends one event to the order queue as persistent JSON.
func (c *Client) Publish(event string, data interface{}) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("events channel is not available")
	}

	body, err := json.Marshal(envelope{Event: event, Timestamp: time.Now(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	err = c.channel.Publish(
		"",        // default exchange
		queueName, // routing key: the queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}
	return nil
}

// Consume registers a handler for order events. Messages are acked on a
// nil handler error and nacked (requeued) otherwise.
func (c *Client) Consume(handler func(msg amqp.Delivery) error) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("events channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		queueName,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				log.Printf("Error processing event %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, true); nackErr != nil {
					log.Printf("Error nacking event %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking event %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
