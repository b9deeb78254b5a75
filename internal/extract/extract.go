// Package extract wraps the external tools that fetch media: yt-dlp for
// video and audio, and a plain HTTP fetch for pictures.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmunix/mediagrab/internal/media"
)

//go:generate mockgen -source=extract.go -destination=mocks/mock_extractor.go -package=mocks

var (
	// ErrNoOutput indicates the tool exited cleanly but produced no file.
	ErrNoOutput = errors.New("no media produced")
	// ErrNotImage indicates a picture URL did not return image content.
	ErrNotImage = errors.New("content is not an image")
	// ErrYtDlpMissing indicates no yt-dlp executable could be found.
	ErrYtDlpMissing = errors.New("yt-dlp executable not found")
)

// Job describes one extraction. Output files are written under Dir.
type Job struct {
	ID   string
	URL  string
	Type media.Type
	Dir  string
}

// Result is a file produced by an extraction along with its metadata.
type Result struct {
	Path     string
	Metadata media.Metadata
}

// Extractor fetches the media behind a URL.
type Extractor interface {
	Extract(ctx context.Context, job Job) (*Result, error)
}

// Router sends picture jobs to Pictures and everything else to Media.
type Router struct {
	Media    Extractor
	Pictures Extractor
}

// Extract implements Extractor.
func (r *Router) Extract(ctx context.Context, job Job) (*Result, error) {
	ex := r.Media
	if job.Type == media.TypePicture {
		ex = r.Pictures
	}
	if ex == nil {
		return nil, fmt.Errorf("no extractor for %s", job.Type)
	}
	return ex.Extract(ctx, job)
}
