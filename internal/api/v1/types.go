// internal/api/v1/types.go
package v1

import (
	"github.com/vmunix/mediagrab/internal/download"
	"github.com/vmunix/mediagrab/internal/events"
	"github.com/vmunix/mediagrab/internal/media"
)

// downloadResponse is the response for a successful download.
type downloadResponse struct {
	Status    string     `json:"status"`
	Path      string     `json:"path"`
	MediaType media.Type `json:"media_type"`
	ID        string     `json:"id"`
}

// errorResponse carries a string detail, or a field list for validation errors.
type errorResponse struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Detail any    `json:"detail"`
}

// statusResponse is the response for GET /status.
type statusResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version,omitempty"`
	Plex      string         `json:"plex"`
	Queue     string         `json:"queue"`
	Downloads download.Stats `json:"downloads"`
}

// VerifyResponse is the response for GET /verify.
type VerifyResponse struct {
	Connections struct {
		Plex     bool   `json:"plex"`
		PlexName string `json:"plex_name,omitempty"`
		PlexErr  string `json:"plex_error,omitempty"`
		Queue    bool   `json:"queue"`
		QueueErr string `json:"queue_error,omitempty"`
	} `json:"connections"`
}

// listEventsResponse is the response for GET /events.
type listEventsResponse struct {
	Items  []events.Record `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
