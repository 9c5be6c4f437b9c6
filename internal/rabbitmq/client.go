package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/LibraryApp/internal/config"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

const publishTimeout = 5 * time.Second

// publisherChannel часть *amqp.Channel, которой пользуется клиент
type publisherChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Client публикует события по займам в очередь RabbitMQ
type Client struct {
	conn    *amqp.Connection
	channel publisherChannel
	queue   string
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет durable очередь
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// идемпотентно: если очередь уже есть, ничего не произойдёт
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("rabbitmq connected", "queue", q.Name, "messages", q.Messages)
	return &Client{conn: conn, channel: ch, queue: q.Name, logger: logger}, nil
}

// Close закрывает канал и соединение
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("error closing rabbitmq channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("error closing rabbitmq connection", "error", err)
		}
	}
}

// PublishLoanEvent реализует ports.LoanEventPublisher
func (c *Client) PublishLoanEvent(ctx context.Context, payload payloads.LoanEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(publishCtx, "", c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    payload.EventID.String(),
		Type:         payload.Event,
		Timestamp:    payload.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Debug("loan event published", "queue", c.queue, "event", payload.Event, "loan_id", payload.LoanID)
	return nil
}

// NopPublisher используется, когда RABBITMQ_URL не задан
type NopPublisher struct{}

func (NopPublisher) PublishLoanEvent(context.Context, payloads.LoanEventPayload) error {
	return nil
}
