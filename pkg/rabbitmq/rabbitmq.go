package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
)

const welcomeQueue = "signup_notifications"

// WelcomeMessage is the payload published for each successful signup and
// consumed by the mail dispatcher.
type WelcomeMessage struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL    string
	Logger zerolog.Logger
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  zerolog.Logger
}

// NewClient connects to RabbitMQ and declares the signup notification
// queue as durable so pending welcome emails survive broker restarts.
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
		welcomeQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", welcomeQueue, err)
	}

	cfg.Logger.Info().Str("queue", welcomeQueue).Msg("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  cfg.Logger,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
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
		return fmt.Errorf("errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// SendWelcome enqueues a welcome message for the mail dispatcher. This
// satisfies the user service's Notifier interface, making delivery a
// decoupled post-commit step.
func (c *Client) SendWelcome(email, username string) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(WelcomeMessage{Email: email, Username: username})
	if err != nil {
		return fmt.Errorf("failed to marshal welcome message: %w", err)
	}

	err = c.channel.Publish(
		"",           // exchange: default exchange
		welcomeQueue, // routing key: the queue name
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish welcome message: %w", err)
	}
	return nil
}

// ConsumeWelcomeMessages delivers queued welcome messages to handler in a
// background goroutine. A handler error nacks the message for requeue; a
// message that cannot even be decoded is dropped.
func (c *Client) ConsumeWelcomeMessages(handler func(WelcomeMessage) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		welcomeQueue,
		"",    // consumer tag
		false, // auto-ack off, acknowledge after handling
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			var welcome WelcomeMessage
			if err := json.Unmarshal(msg.Body, &welcome); err != nil {
				c.logger.Error().Err(err).Msg("dropping malformed welcome message")
				if nackErr := msg.Nack(false, false); nackErr != nil {
					c.logger.Error().Err(nackErr).Msg("failed to nack message")
				}
				continue
			}

			if err := handler(welcome); err != nil {
				c.logger.Warn().Err(err).Str("email", welcome.Email).Msg("welcome delivery failed, requeueing")
				if nackErr := msg.Nack(false, true); nackErr != nil {
					c.logger.Error().Err(nackErr).Msg("failed to nack message")
				}
				continue
			}

			if ackErr := msg.Ack(false); ackErr != nil {
				c.logger.Error().Err(ackErr).Msg("failed to ack message")
			}
		}
	}()

	return nil
}
