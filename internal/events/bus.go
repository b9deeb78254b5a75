package events

import (
	"context"
	"log/slog"
	"sync"
)

// subscription is one subscriber channel. An empty eventType receives
// every event.
type subscription struct {
	eventType string
	ch        chan Event
}

// Bus fans published events out to subscribers.
type Bus struct {
	mu      sync.RWMutex
	subs    []subscription
	history *History // may be nil
	logger  *slog.Logger
	closed  bool
}

// NewBus creates a new event bus. history may be nil.
func NewBus(history *History, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		history: history,
		logger:  logger.With("component", "events"),
	}
}

// Publish records an event and hands it to subscribers without blocking.
// Slow subscribers miss events.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if b.history != nil {
		if _, err := b.history.Append(e); err != nil {
			b.logger.Error("failed to record event", "type", e.EventType(), "error", err)
		}
	}

	// Sends never block, so delivery can hold the read lock. Unsubscribe
	// and Close take the write lock before closing a channel.
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	for _, s := range b.subs {
		if s.eventType != "" && s.eventType != e.EventType() {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"download_id", e.EntityID())
		}
	}
	return nil
}

// Subscribe returns a channel for events of a specific type. The channel is
// closed by Unsubscribe or Close.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.subscribe(eventType, bufferSize)
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.subscribe("", bufferSize)
}

func (b *Bus) subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, subscription{eventType: eventType, ch: ch})
	return ch
}

// Unsubscribe removes and closes a subscription channel. Unknown channels
// are ignored.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.ch == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(s.ch)
			return
		}
	}
}

// Close closes every subscriber channel. Later publishes are only recorded.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	return nil
}
