// Package rabbitmq publishes and consumes order events over a topic exchange.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	mu      sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL        string
	Exchange   string
	Queue      string
	BindingKey string
}

// DefaultConfig routes every order.* event into one durable queue.
func DefaultConfig(url string) Config {
	return Config{
		URL:        url,
		Exchange:   "orders",
		Queue:      "kitchen.order_events",
		BindingKey: "order.#",
	}
}

var ErrChannelClosed = errors.New("rabbitmq channel is not available")

// NewClient connects, declares the exchange and queue, and binds them.
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

	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info().Str("exchange", cfg.Exchange).Str("queue", cfg.Queue).Msg("rabbitmq client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
	}, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.BindingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", cfg.Queue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
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
	return errors.Join(errs...)
}

// Publish sends a persistent message to an exchange.
func (c *Client) Publish(exchange, routingKey, contentType string, body []byte) error {
	if c.channel == nil {
		return ErrChannelClosed
	}

	// amqp channels are not safe for concurrent publishes.
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  contentType,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

// Handler processes one delivery. A nil error acks it; an error nacks it
// without requeue.
type Handler func(msg amqp.Delivery) error

// ConsumeOrderEvents consumes the order queue until ctx is cancelled or the
// channel closes.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler Handler) error {
	if c.channel == nil {
		return ErrChannelClosed
	}

	msgs, err := c.channel.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Info().Str("queue", c.cfg.Queue).Msg("waiting for order events")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Warn().Str("queue", c.cfg.Queue).Msg("order event stream closed")
					return
				}
				Dispatch(msg, handler)
			}
		}
	}()

	return nil
}

// Dispatch runs handler on msg and acknowledges it accordingly. Failed
// messages are not requeued so a poison message cannot loop.
func Dispatch(msg amqp.Delivery, handler Handler) {
	if err := handler(msg); err != nil {
		log.Error().Err(err).Uint64("tag", msg.DeliveryTag).Str("routing_key", msg.RoutingKey).Msg("failed to process order event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Error().Err(nackErr).Uint64("tag", msg.DeliveryTag).Msg("failed to nack message")
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.Error().Err(ackErr).Uint64("tag", msg.DeliveryTag).Msg("failed to ack message")
	}
}
