package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends events to RabbitMQ. Errors are logged and returned so
// callers can ignore failures without interrupting the request flow.
type Publisher struct {
	URL    string
	Logger logrus.FieldLogger
}

func NewPublisher(url string, logger logrus.FieldLogger) *Publisher {
	return &Publisher{URL: url, Logger: logger}
}

func (p *Publisher) PublishUserRegistered(ctx context.Context, userID string, email string, role string) error {
	if p == nil || p.URL == "" {
		return nil
	}
	event := UserRegisteredEvent{
		UserID:       userID,
		Email:        email,
		Role:         role,
		RegisteredAt: time.Now().UTC(),
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.logError("dial failed", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logError("channel open failed", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so events survive broker restarts; declare is idempotent.
	if _, err := ch.QueueDeclare(UserRegisteredQueueName, true, false, false, false, nil); err != nil {
		p.logError("queue declare failed", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logError("marshal event failed", err)
		return err
	}

	if err := ch.PublishWithContext(ctx,
		"",
		UserRegisteredQueueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		p.logError("publish failed", err)
		return err
	}
	return nil
}

func (p *Publisher) logError(msg string, err error) {
	if p.Logger == nil {
		return
	}
	p.Logger.WithError(err).Warn("rabbitmq: " + msg)
}
