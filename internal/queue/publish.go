package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vmunix/mediagrab/internal/media"
)

// Publisher sends download requests to a queue.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Encode builds a persistent JSON message for req.
func Encode(req media.Request) (amqp.Publishing, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode message: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}, nil
}

// PublishTo sends req to queue through the default exchange.
func PublishTo(ctx context.Context, p Publisher, queue string, req media.Request) error {
	msg, err := Encode(req)
	if err != nil {
		return err
	}
	if err := p.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Publish connects to uri, declares queue and sends a single request.
func Publish(ctx context.Context, uri, queue string, req media.Request) error {
	conn, err := dial(uri, "mediagrab-publisher")
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	if _, err := declare(ch, queue); err != nil {
		return err
	}
	return PublishTo(ctx, ch, queue, req)
}
