package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vmunix/mediagrab/internal/media"
)

// maxPictureSize caps a single picture download.
const maxPictureSize = 200 << 20

// HTTPFetcher downloads pictures directly.
type HTTPFetcher struct {
	client *http.Client
	log    *slog.Logger
}

// NewHTTPFetcher creates a picture fetcher. A nil client uses a default
// client with a five minute timeout.
func NewHTTPFetcher(client *http.Client, log *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	if log == nil {
		log = slog.Default()
	}
	return &HTTPFetcher{client: client, log: log.With("component", "fetcher")}
}

// Extract implements Extractor.
func (f *HTTPFetcher) Extract(ctx context.Context, job Job) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch picture: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch picture: unexpected status: %d", resp.StatusCode)
	}

	tmp := filepath.Join(job.Dir, job.ID+".part")
	if err := writeLimited(tmp, resp.Body, maxPictureSize); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}

	mt, err := mimetype.DetectFile(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	name := remoteName(job.URL, resp.Header.Get("Content-Disposition"))
	ext := path.Ext(name)
	if ext == "" || !mimetype.EqualsAny(extensionType(ext), mt.String()) {
		ext = mt.Extension()
	}
	title := strings.TrimSuffix(name, path.Ext(name))

	dest := filepath.Join(job.Dir, job.ID+ext)
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("rename picture: %w", err)
	}

	f.log.Info("picture fetched", "job_id", job.ID, "url", job.URL, "content_type", mt.String(), "path", dest)
	return &Result{
		Path:     dest,
		Metadata: media.Metadata{Title: title, Ext: strings.TrimPrefix(ext, ".")},
	}, nil
}

func writeLimited(dst string, r io.Reader, limit int64) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(out, io.LimitReader(r, limit+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write picture: %w", err)
	}
	if n > limit {
		return fmt.Errorf("picture exceeds %d bytes", limit)
	}
	return nil
}

// remoteName prefers the Content-Disposition filename and falls back to
// the last segment of the URL path.
func remoteName(rawURL, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			return path.Base(params["filename"])
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}

// extensionType maps a file extension to its registered MIME type.
func extensionType(ext string) string {
	t, _, _ := strings.Cut(mime.TypeByExtension(strings.ToLower(ext)), ";")
	return t
}
