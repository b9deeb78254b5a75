// Package download runs the download-and-organize pipeline shared by the
// HTTP and queue entry points: extract the media into a staging directory,
// move it into the library tree and ask the media server to rescan.
package download

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/mediagrab/internal/events"
	"github.com/vmunix/mediagrab/internal/extract"
	"github.com/vmunix/mediagrab/internal/importer"
	"github.com/vmunix/mediagrab/internal/media"
)

// stagingDir is created under the download root for in-progress extractions.
const stagingDir = ".incoming"

// Notifier is told about every successful download.
type Notifier interface {
	Notify(ctx context.Context, t media.Type)
}

// EventPublisher receives download lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Result describes a completed download.
type Result struct {
	ID   string     `json:"id"`
	Path string     `json:"path"`
	Type media.Type `json:"media_type"`
}

// Pipeline downloads a single URL and files it. It holds no per-request
// state, so concurrent calls are independent.
type Pipeline struct {
	extractor extract.Extractor
	importer  *importer.Importer
	notifier  Notifier
	errors    *ErrorLog
	tracker   *Tracker
	events    EventPublisher
	log       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEvents publishes lifecycle events to pub.
func WithEvents(pub EventPublisher) Option {
	return func(p *Pipeline) { p.events = pub }
}

// NewPipeline creates a pipeline. notifier and errlog may be nil.
func NewPipeline(ex extract.Extractor, imp *importer.Importer, notifier Notifier, errlog *ErrorLog, log *slog.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	p := &Pipeline{
		extractor: ex,
		importer:  imp,
		notifier:  notifier,
		errors:    errlog,
		tracker:   NewTracker(),
		log:       log.With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stats reports running jobs and totals since startup.
func (p *Pipeline) Stats() Stats {
	return p.tracker.Stats()
}

// Download validates req, extracts it and moves the result into place.
// Failures are recorded in the error log and returned as *Error. The
// notifier runs only after a successful import and cannot fail the call.
func (p *Pipeline) Download(ctx context.Context, req media.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, p.fail("", req, KindValidation, err)
	}

	mt := req.Type()
	id := uuid.NewString()
	log := p.log.With("job_id", id, "url", req.URL, "media_type", mt.String())
	start := time.Now()
	p.tracker.Start(id, req.URL, mt)
	p.publish(ctx, &events.DownloadStarted{
		BaseEvent: events.NewBaseEvent(events.EventDownloadStarted, id),
		URL:       req.URL,
		MediaType: mt,
	})

	dir := filepath.Join(p.importer.Root(), stagingDir, id)
	if err := os.MkdirAll(dir, importer.DirMode); err != nil {
		return nil, p.fail(id, req, KindStorage, fmt.Errorf("create staging dir: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("staging cleanup failed", "dir", dir, "error", err)
		}
	}()

	p.transition(id, StatusExtracting)
	log.Info("download started")
	res, err := p.extractor.Extract(ctx, extract.Job{ID: id, URL: req.URL, Type: mt, Dir: dir})
	if err != nil {
		return nil, p.fail(id, req, KindExtraction, err)
	}
	p.publish(ctx, &events.DownloadExtracted{
		BaseEvent: events.NewBaseEvent(events.EventDownloadExtracted, id),
		Title:     res.Metadata.Title,
		Source:    cmp.Or(res.Metadata.Artist, res.Metadata.Channel),
	})

	p.transition(id, StatusImporting)
	dest, err := p.importer.Import(res.Path, mt, res.Metadata)
	if err != nil {
		return nil, p.fail(id, req, KindStorage, err)
	}
	if err := p.tracker.Complete(id, dest); err != nil {
		log.Debug("tracker update failed", "error", err)
	}

	log.Info("download completed", "path", dest, "duration_ms", time.Since(start).Milliseconds())
	p.publish(ctx, &events.DownloadCompleted{
		BaseEvent: events.NewBaseEvent(events.EventDownloadCompleted, id),
		Path:      dest,
	})

	if p.notifier != nil {
		p.notifier.Notify(ctx, mt)
	}
	return &Result{ID: id, Path: dest, Type: mt}, nil
}

func (p *Pipeline) publish(ctx context.Context, e events.Event) {
	if p.events == nil {
		return
	}
	if err := p.events.Publish(ctx, e); err != nil {
		p.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

func (p *Pipeline) transition(id string, to Status) {
	if err := p.tracker.Transition(id, to); err != nil {
		p.log.Debug("tracker update failed", "job_id", id, "error", err)
	}
}

func (p *Pipeline) fail(id string, req media.Request, kind Kind, cause error) error {
	err := &Error{Kind: kind, URL: req.URL, Err: cause}
	p.errors.Record(req.URL, req.Type(), err)
	if id != "" {
		if terr := p.tracker.Fail(id, err); terr != nil {
			p.log.Debug("tracker update failed", "job_id", id, "error", terr)
		}
		p.publish(context.Background(), &events.DownloadFailed{
			BaseEvent: events.NewBaseEvent(events.EventDownloadFailed, id),
			Kind:      string(kind),
			Reason:    cause.Error(),
		})
	}

	level := slog.LevelError
	var verrs media.ValidationErrors
	if errors.As(cause, &verrs) {
		level = slog.LevelWarn
	}
	p.log.Log(context.Background(), level, "download failed", "job_id", id, "url", req.URL, "kind", string(kind), "error", cause)
	return err
}
