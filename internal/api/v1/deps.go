package v1

import (
	"context"
	"errors"

	"github.com/vmunix/mediagrab/internal/download"
	"github.com/vmunix/mediagrab/internal/events"
	"github.com/vmunix/mediagrab/internal/media"
	"github.com/vmunix/mediagrab/internal/mediaserver"
)

//go:generate mockgen -source=deps.go -destination=mocks/mock_deps.go -package=mocks

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Downloader runs requests through the download pipeline.
type Downloader interface {
	Download(ctx context.Context, req media.Request) (*download.Result, error)
	Stats() download.Stats
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Downloader Downloader

	// Optional dependencies (nil if not configured)
	Plex       mediaserver.MediaServer // probed by /verify
	QueueState func() string           // nil when the consumer is disabled
	Bus        *events.Bus             // streamed by /events/stream
	History    *events.History         // listed by /events
	Version    string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Downloader == nil {
		return errors.New("downloader is required")
	}
	return nil
}
