package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// DefaultHistorySize is how many events a History keeps.
const DefaultHistorySize = 500

// Record is a stored event with its JSON payload.
type Record struct {
	Seq        int64           `json:"seq"`
	EventType  string          `json:"type"`
	DownloadID string          `json:"download_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// History keeps the most recent events in memory. Older events are dropped
// once capacity is reached; nothing survives a restart.
type History struct {
	mu       sync.Mutex
	records  []Record
	capacity int
	seq      int64
}

// NewHistory creates a history holding up to capacity events.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity}
}

// Append stores an event and returns its sequence number.
func (h *History) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	r := Record{
		Seq:        h.seq,
		EventType:  e.EventType(),
		DownloadID: e.EntityID(),
		OccurredAt: e.OccurredAt(),
		Payload:    payload,
	}
	if len(h.records) == h.capacity {
		copy(h.records, h.records[1:])
		h.records[len(h.records)-1] = r
	} else {
		h.records = append(h.records, r)
	}
	return r.Seq, nil
}

// Recent returns up to limit records, newest first, skipping offset, along
// with the number of records held.
func (h *History) Recent(limit, offset int) ([]Record, int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := len(h.records)
	if offset >= total || limit <= 0 {
		return []Record{}, total
	}
	end := total - offset
	start := max(end-limit, 0)

	out := make([]Record, 0, end-start)
	for i := end - 1; i >= start; i-- {
		out = append(out, h.records[i])
	}
	return out, total
}

// ForDownload returns the records of one download, oldest first.
func (h *History) ForDownload(id string) []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []Record
	for _, r := range h.records {
		if r.DownloadID == id {
			out = append(out, r)
		}
	}
	return out
}
