// Package queue consumes download requests from a RabbitMQ queue and
// publishes them for testing.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vmunix/mediagrab/internal/download"
	"github.com/vmunix/mediagrab/internal/media"
)

// State is the consumer's connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConsuming    State = "consuming"
	StateStopped      State = "stopped"
)

const (
	initialRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
)

// Session is an open broker subscription. Deliveries is closed when the
// connection drops.
type Session interface {
	Deliveries() <-chan amqp.Delivery
	Close() error
}

// Dialer opens a new Session.
type Dialer func(ctx context.Context) (Session, error)

// Downloader runs a request through the download pipeline.
type Downloader interface {
	Download(ctx context.Context, req media.Request) (*download.Result, error)
}

// Consumer processes one message at a time and acknowledges every message
// regardless of outcome, so a permanently failing URL is never redelivered.
type Consumer struct {
	dial       Dialer
	downloader Downloader
	errlog     *download.ErrorLog
	newBackOff func() backoff.BackOff
	log        *slog.Logger

	mu       sync.Mutex
	state    State
	onChange func(from, to State)
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithBackOff replaces the reconnect policy.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Consumer) { c.newBackOff = f }
}

// WithErrorLog records undecodable messages. Pipeline failures are already
// recorded by the pipeline itself.
func WithErrorLog(l *download.ErrorLog) Option {
	return func(c *Consumer) { c.errlog = l }
}

// WithStateHook is called on every state change.
func WithStateHook(f func(from, to State)) Option {
	return func(c *Consumer) { c.onChange = f }
}

// NewConsumer creates a consumer in the Disconnected state.
func NewConsumer(dial Dialer, downloader Downloader, log *slog.Logger, opts ...Option) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	c := &Consumer{
		dial:       dial,
		downloader: downloader,
		newBackOff: defaultBackOff,
		log:        log.With("component", "consumer"),
		state:      StateDisconnected,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialRetryDelay
	b.MaxInterval = maxRetryDelay
	b.MaxElapsedTime = 0
	return b
}

// State returns the current connection state.
func (c *Consumer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Consumer) setState(to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	hook := c.onChange
	c.mu.Unlock()

	if from == to {
		return
	}
	c.log.Debug("state changed", "from", string(from), "to", string(to))
	if hook != nil {
		hook(from, to)
	}
}

// Run connects and consumes until ctx is canceled. A message being
// processed when ctx is canceled runs to completion and is acknowledged
// before the session is closed.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.setState(StateStopped)
	b := c.newBackOff()

	for ctx.Err() == nil {
		c.setState(StateConnecting)
		sess, err := c.dial(ctx)
		if err != nil {
			c.setState(StateDisconnected)
			if ctx.Err() != nil {
				return nil
			}
			delay := b.NextBackOff()
			if delay == backoff.Stop {
				delay = maxRetryDelay
			}
			c.log.Warn("broker connect failed", "error", err, "retry_in", delay.String())
			if !sleep(ctx, delay) {
				return nil
			}
			continue
		}

		b.Reset()
		c.setState(StateConsuming)
		c.log.Info("consuming")

		dropped := c.consume(ctx, sess)
		if err := sess.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			c.log.Debug("session close failed", "error", err)
		}
		if !dropped {
			return nil
		}
		c.setState(StateDisconnected)
		c.log.Warn("broker connection lost, reconnecting")
	}
	return nil
}

// consume handles deliveries until the session drops (true) or ctx is
// canceled (false).
func (c *Consumer) consume(ctx context.Context, sess Session) bool {
	deliveries := sess.Deliveries()
	for {
		select {
		case <-ctx.Done():
			return false
		case d, ok := <-deliveries:
			if !ok {
				return ctx.Err() == nil
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	defer func() {
		if err := d.Ack(false); err != nil {
			c.log.Warn("ack failed", "delivery_tag", d.DeliveryTag, "error", err)
		}
	}()

	req, err := Decode(d.Body)
	if err != nil {
		c.log.Warn("invalid message dropped", "error", err, "body", truncate(string(d.Body), 200))
		if c.errlog != nil {
			c.errlog.RecordInvalid(truncate(string(d.Body), 200), err)
		}
		return
	}

	c.log.Info("message received", "url", req.URL, "media_type", req.Type().String())
	res, err := c.downloader.Download(context.WithoutCancel(ctx), req)
	if err != nil {
		// already recorded by the pipeline
		c.log.Warn("message dropped", "url", req.URL, "error", err)
		return
	}
	c.log.Info("message processed", "url", req.URL, "path", res.Path)
}

// message is the wire form of a queue body. media_type is kept raw so a
// non-string value falls back to video instead of failing the decode.
type message struct {
	URL       string          `json:"url"`
	MediaType json.RawMessage `json:"media_type"`
}

// Decode parses a queue message body. An absent or unrecognized media_type
// becomes video.
func Decode(body []byte) (media.Request, error) {
	var msg message
	if err := json.Unmarshal(body, &msg); err != nil {
		return media.Request{}, err
	}
	req := media.Request{URL: msg.URL}

	var mt string
	if json.Unmarshal(msg.MediaType, &mt) == nil {
		if _, ok := media.ParseType(mt); ok {
			req.MediaType = mt
		}
	}
	return req, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
