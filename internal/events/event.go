// Package events carries download lifecycle notifications from the pipeline
// to in-process subscribers and keeps a short in-memory history.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityID() string // download ID
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"download_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityID() string      { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, downloadID string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		ID:        downloadID,
		Timestamp: time.Now(),
	}
}
