package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher hands verification codes to the mail worker through a durable
// RabbitMQ queue. Delivery to the inbox is the worker's job; a successful
// publish is what "sent" means here.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   zerolog.Logger
}

type otpMessage struct {
	To     string    `json:"to"`
	Code   string    `json:"code"`
	SentAt time.Time `json:"sent_at"`
}

// NewPublisher dials the broker and declares the queue. The queue is durable
// so pending codes survive a broker restart.
func NewPublisher(url, queue string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, queue: queue, log: log}, nil
}

// SendOTP publishes the code for toAddress as a persistent JSON message.
func (p *Publisher) SendOTP(ctx context.Context, toAddress, code string) error {
	body, err := json.Marshal(otpMessage{
		To:     toAddress,
		Code:   code,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal otp message: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish otp message: %w", err)
	}

	p.log.Debug().Str("queue", p.queue).Msg("verification code queued")
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return fmt.Errorf("amqp channel close: %w", err)
	}
	return p.conn.Close()
}
