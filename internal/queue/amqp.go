package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	connectionName = "mediagrab-consumer"
	consumerTag    = "mediagrab"
	dialTimeout    = 30 * time.Second
	heartbeat      = 10 * time.Second
)

// amqpSession owns a connection, its channel and the delivery stream.
type amqpSession struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
}

func (s *amqpSession) Deliveries() <-chan amqp.Delivery {
	return s.deliveries
}

func (s *amqpSession) Close() error {
	// closing the connection also closes the channel
	return s.conn.Close()
}

// AMQPDialer connects to uri, declares the durable queue and subscribes
// with prefetch 1 and manual acknowledgements. amqps:// URIs use TLS.
func AMQPDialer(uri, queue string, log *slog.Logger) Dialer {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context) (Session, error) {
		conn, err := dial(uri, connectionName)
		if err != nil {
			logAuthHint(log, err)
			return nil, err
		}

		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open channel: %w", err)
		}
		if err := ch.Qos(1, 0, false); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set qos: %w", err)
		}
		if _, err := declare(ch, queue); err != nil {
			_ = conn.Close()
			return nil, err
		}

		deliveries, err := ch.ConsumeWithContext(ctx, queue, consumerTag, false, false, false, false, nil)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("consume %s: %w", queue, err)
		}
		log.Info("subscribed", "queue", queue)
		return &amqpSession{conn: conn, ch: ch, deliveries: deliveries}, nil
	}
}

func dial(uri, name string) (*amqp.Connection, error) {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(name)

	conn, err := amqp.DialConfig(uri, amqp.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Properties: props,
		Dial:       amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	return conn, nil
}

func declare(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return q, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return q, nil
}

func logAuthHint(log *slog.Logger, err error) {
	switch {
	case errors.Is(err, amqp.ErrCredentials):
		log.Error("broker rejected credentials; check user and password (for CloudAMQP use the instance URL)")
	case errors.Is(err, amqp.ErrVhost):
		log.Error("broker rejected vhost; check the configured vhost")
	}
}
