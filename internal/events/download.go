package events

import "github.com/vmunix/mediagrab/internal/media"

// Event type constants
const (
	EventDownloadStarted   = "download.started"
	EventDownloadExtracted = "download.extracted"
	EventDownloadCompleted = "download.completed"
	EventDownloadFailed    = "download.failed"
)

// DownloadStarted is emitted once a request passed validation.
type DownloadStarted struct {
	BaseEvent
	URL       string     `json:"url"`
	MediaType media.Type `json:"media_type"`
}

// DownloadExtracted is emitted when the extractor produced a file.
type DownloadExtracted struct {
	BaseEvent
	Title  string `json:"title"`
	Source string `json:"source,omitempty"` // artist or channel
}

// DownloadCompleted is emitted when the file reached its final path.
type DownloadCompleted struct {
	BaseEvent
	Path string `json:"path"`
}

// DownloadFailed is emitted when any step fails.
type DownloadFailed struct {
	BaseEvent
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}
