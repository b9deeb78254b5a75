package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vmunix/mediagrab/internal/media"
)

// DefaultErrorLog is the failure log path used when none is configured.
const DefaultErrorLog = "download_errors.log"

// ErrorLog appends one record per failed download. Each record is a single
// write, so concurrent callers never interleave.
type ErrorLog struct {
	log    *slog.Logger
	closer io.Closer
}

// OpenErrorLog opens (or creates) path for appending.
func OpenErrorLog(path string) (*ErrorLog, error) {
	if path == "" {
		path = DefaultErrorLog
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open error log: %w", err)
	}
	el := NewErrorLog(f)
	el.closer = f
	return el, nil
}

// NewErrorLog writes failure records to w.
func NewErrorLog(w io.Writer) *ErrorLog {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelError})
	return &ErrorLog{log: slog.New(h)}
}

// Record writes a failure record. A nil ErrorLog discards it.
func (l *ErrorLog) Record(url string, mt media.Type, err error) {
	if l == nil {
		return
	}
	l.log.LogAttrs(context.Background(), slog.LevelError, "download failed",
		slog.String("url", url),
		slog.String("media_type", mt.String()),
		slog.String("error", err.Error()),
	)
}

// RecordInvalid writes a record for a message that could not be decoded.
func (l *ErrorLog) RecordInvalid(body string, err error) {
	if l == nil {
		return
	}
	l.log.LogAttrs(context.Background(), slog.LevelError, "invalid message",
		slog.String("body", body),
		slog.String("error", err.Error()),
	)
}

// Close closes the underlying file, if any.
func (l *ErrorLog) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
