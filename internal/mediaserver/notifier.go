// internal/mediaserver/notifier.go
package mediaserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/mediagrab/internal/media"
)

// probeTimeout bounds the startup identity check.
const probeTimeout = 10 * time.Second

// Libraries maps media types to library section names. Empty per-type
// entries fall back to Default.
type Libraries struct {
	Default string
	Video   string
	Audio   string
	Picture string
}

// For returns the library name to rescan for t.
func (l Libraries) For(t media.Type) string {
	var name string
	switch t {
	case media.TypeAudio:
		name = l.Audio
	case media.TypePicture:
		name = l.Picture
	default:
		name = l.Video
	}
	if name == "" {
		return l.Default
	}
	return name
}

// Notifier asks the media server to rescan after a download. It is
// best-effort: failures are logged and never returned.
type Notifier struct {
	server    MediaServer // nil when disabled
	libraries Libraries
	log       *slog.Logger
}

// NewNotifier creates a notifier. A nil server yields a disabled notifier.
func NewNotifier(server MediaServer, libraries Libraries, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{
		server:    server,
		libraries: libraries,
		log:       log.With("component", "notifier"),
	}
}

// Enabled reports whether notifications will be sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.server != nil
}

// Server returns the media server, or nil when disabled.
func (n *Notifier) Server() MediaServer {
	if n == nil {
		return nil
	}
	return n.server
}

// Notify triggers a rescan of the library for t.
func (n *Notifier) Notify(ctx context.Context, t media.Type) {
	if n == nil {
		return
	}
	if n.server == nil {
		n.log.Warn("media server not configured, skipping library scan", "media_type", t.String())
		return
	}

	library := n.libraries.For(t)
	if err := n.server.RefreshLibrary(ctx, library); err != nil {
		n.log.Warn("library scan failed", "library", library, "media_type", t.String(), "error", err)
		return
	}
	n.log.Info("library scan triggered", "library", library, "media_type", t.String())
}

// Config holds media server connection settings.
type Config struct {
	URL       string
	Token     string
	Libraries Libraries
}

// Configured reports whether URL, token and a library are all present.
func (c Config) Configured() bool {
	return c.URL != "" && c.Token != "" && c.Libraries.Default != ""
}

// Partial reports whether some but not all required settings are present.
// The library always has a default, so only URL and token count.
func (c Config) Partial() bool {
	return !c.Configured() && (c.URL != "" || c.Token != "")
}

// Connect builds a notifier from cfg. When cfg is incomplete or the server
// does not answer the identity probe, the notifier is disabled and a warning
// is logged once.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	if !cfg.Configured() {
		if cfg.Partial() {
			log.Warn("plex configuration incomplete (need url, token and library), notifications disabled")
		} else {
			log.Info("plex not configured, notifications disabled")
		}
		return NewNotifier(nil, cfg.Libraries, log)
	}

	client := NewPlexClient(cfg.URL, cfg.Token, log)
	return Probe(ctx, client, cfg.Libraries, log)
}

// Probe checks server with an identity request and returns an enabled notifier
// on success, or a disabled one.
func Probe(ctx context.Context, server MediaServer, libraries Libraries, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	identity, err := server.GetIdentity(ctx)
	if err != nil {
		log.Warn("plex unavailable, notifications disabled", "error", err)
		return NewNotifier(nil, libraries, log)
	}
	log.Info("connected to plex", "name", identity.Name, "version", identity.Version, "library", libraries.Default)
	return NewNotifier(server, libraries, log)
}
