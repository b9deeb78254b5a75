// Package mediaserver notifies a media library server (Plex) that new files
// have landed so it can rescan its catalog.
package mediaserver

import (
	"context"
	"errors"
)

//go:generate mockgen -source=mediaserver.go -destination=mocks/mock_mediaserver.go -package=mocks

// ErrLibraryNotFound indicates no library section matched the configured name.
var ErrLibraryNotFound = errors.New("library not found")

// MediaServer defines the interface for media server operations.
// This abstraction allows supporting multiple media servers (Plex, Jellyfin, Emby, etc.).
type MediaServer interface {
	// RefreshLibrary triggers a full refresh of the named library section.
	RefreshLibrary(ctx context.Context, libraryName string) error

	// GetIdentity returns the server name and version. Used as a startup probe.
	GetIdentity(ctx context.Context) (*Identity, error)
}

// Ensure PlexClient implements MediaServer.
var _ MediaServer = (*PlexClient)(nil)
