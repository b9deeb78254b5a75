package download

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/mediagrab/internal/events"
	"github.com/vmunix/mediagrab/internal/extract"
	"github.com/vmunix/mediagrab/internal/extract/mocks"
	"github.com/vmunix/mediagrab/internal/importer"
	"github.com/vmunix/mediagrab/internal/media"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []media.Type
}

func (n *recordingNotifier) Notify(_ context.Context, t media.Type) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, t)
}

type pipelineFixture struct {
	root      string
	extractor *mocks.MockExtractor
	notifier  *recordingNotifier
	errlog    *bytes.Buffer
	pipeline  *Pipeline
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &pipelineFixture{
		root:      t.TempDir(),
		extractor: mocks.NewMockExtractor(ctrl),
		notifier:  &recordingNotifier{},
		errlog:    &bytes.Buffer{},
	}
	f.pipeline = NewPipeline(f.extractor, importer.New(f.root, nil), f.notifier, NewErrorLog(f.errlog), nil)
	return f
}

// produce returns an Extract stub that writes a file into the job's staging dir.
func produce(meta media.Metadata) func(context.Context, extract.Job) (*extract.Result, error) {
	return func(_ context.Context, job extract.Job) (*extract.Result, error) {
		path := filepath.Join(job.Dir, job.ID+"."+meta.Ext)
		if err := os.WriteFile(path, []byte("media"), 0o600); err != nil {
			return nil, err
		}
		return &extract.Result{Path: path, Metadata: meta}, nil
	}
}

func TestPipeline_Download_Audio(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.EXPECT().
		Extract(gomock.Any(), gomock.Any()).
		DoAndReturn(produce(media.Metadata{Title: "T", Artist: "A", Album: "B", Ext: "mp3"}))

	res, err := f.pipeline.Download(context.Background(), media.Request{URL: "https://x.test/watch?v=1", MediaType: "audio"})
	require.NoError(t, err)

	want := filepath.Join(f.root, "audio", "A", "B", "T.mp3")
	assert.Equal(t, want, res.Path)
	assert.Equal(t, media.TypeAudio, res.Type)
	assert.FileExists(t, want)

	info, err := os.Stat(want)
	require.NoError(t, err)
	assert.Equal(t, importer.FileMode, info.Mode().Perm())

	assert.Equal(t, []media.Type{media.TypeAudio}, f.notifier.calls)
	assert.Empty(t, f.errlog.String())

	stats := f.pipeline.Stats()
	assert.Empty(t, stats.Active)
	assert.Equal(t, int64(1), stats.Completed)
}

func TestPipeline_Download_ArtistOnly(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.EXPECT().
		Extract(gomock.Any(), gomock.Any()).
		DoAndReturn(produce(media.Metadata{Title: "T", Artist: "A", Ext: "mp3"}))

	res, err := f.pipeline.Download(context.Background(), media.Request{URL: "https://x.test/a", MediaType: "audio"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.root, "audio", "A", "T.mp3"), res.Path)
}

func TestPipeline_Download_DefaultsToVideo(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.EXPECT().
		Extract(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, job extract.Job) (*extract.Result, error) {
			assert.Equal(t, media.TypeVideo, job.Type)
			return produce(media.Metadata{Title: "Clip", Channel: "Chan", Ext: "mp4"})(ctx, job)
		})

	res, err := f.pipeline.Download(context.Background(), media.Request{URL: "https://x.test/v"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.root, "video", "Chan", "Clip.mp4"), res.Path)
	assert.Equal(t, []media.Type{media.TypeVideo}, f.notifier.calls)
}

func TestPipeline_Download_RemovesStaging(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.EXPECT().
		Extract(gomock.Any(), gomock.Any()).
		DoAndReturn(produce(media.Metadata{Title: "x", Ext: "jpg"}))

	_, err := f.pipeline.Download(context.Background(), media.Request{URL: "https://x.test/x.jpg", MediaType: "picture"})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(f.root, stagingDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipeline_Download_ExtractionFailed(t *testing.T) {
	f := newPipelineFixture(t)
	cause := errors.New("ERROR: Unsupported URL: https://x.test/nothing")
	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(nil, cause)

	res, err := f.pipeline.Download(context.Background(), media.Request{URL: "https://x.test/nothing"})
	require.Error(t, err)
	assert.Nil(t, res)

	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.ErrorIs(t, err, cause)

	lines := strings.Split(strings.TrimSpace(f.errlog.String()), "\n")
	require.Len(t, lines, 1, "exactly one error log record")
	assert.Contains(t, lines[0], "level=ERROR")
	assert.Contains(t, lines[0], "url=https://x.test/nothing")
	assert.Contains(t, lines[0], "Unsupported URL")

	assert.Empty(t, f.notifier.calls, "notifier must not run after a failure")
	assert.Equal(t, int64(1), f.pipeline.Stats().Failed)
}

func TestPipeline_Download_ValidationFailed(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.pipeline.Download(context.Background(), media.Request{URL: "not a url"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verrs media.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "url", verrs[0].Field)

	assert.Equal(t, 1, strings.Count(f.errlog.String(), "\n"))
	assert.Empty(t, f.notifier.calls)
}

func TestPipeline_Download_StorageFailed(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.EXPECT().
		Extract(gomock.Any(), gomock.Any()).
		Return(&extract.Result{Path: "/nonexistent/file.mp4", Metadata: media.Metadata{Title: "x", Ext: "mp4"}}, nil)

	_, err := f.pipeline.Download(context.Background(), media.Request{URL: "https://x.test/v"})
	assert.ErrorIs(t, err, ErrStorageFailed)
	assert.Empty(t, f.notifier.calls)
}

func TestPipeline_Download_NilNotifier(t *testing.T) {
	root := t.TempDir()
	ctrl := gomock.NewController(t)
	ex := mocks.NewMockExtractor(ctrl)
	ex.EXPECT().Extract(gomock.Any(), gomock.Any()).DoAndReturn(produce(media.Metadata{Title: "t", Ext: "mp4"}))

	p := NewPipeline(ex, importer.New(root, nil), nil, nil, nil)
	res, err := p.Download(context.Background(), media.Request{URL: "https://x.test/v"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "video", "t.mp4"), res.Path)
}

func TestPipeline_Download_PublishesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	ex := mocks.NewMockExtractor(ctrl)
	ex.EXPECT().
		Extract(gomock.Any(), gomock.Any()).
		DoAndReturn(produce(media.Metadata{Title: "Clip", Channel: "Chan", Ext: "mp4"}))

	history := events.NewHistory(10)
	bus := events.NewBus(history, nil)
	defer bus.Close()
	p := NewPipeline(ex, importer.New(t.TempDir(), nil), nil, nil, nil, WithEvents(bus))

	res, err := p.Download(context.Background(), media.Request{URL: "https://x.test/v"})
	require.NoError(t, err)

	records := history.ForDownload(res.ID)
	require.Len(t, records, 3)
	assert.Equal(t, events.EventDownloadStarted, records[0].EventType)
	assert.Equal(t, events.EventDownloadExtracted, records[1].EventType)
	assert.Contains(t, string(records[1].Payload), `"source":"Chan"`)
	assert.Equal(t, events.EventDownloadCompleted, records[2].EventType)
	assert.Contains(t, string(records[2].Payload), res.Path)
}

func TestPipeline_Download_PublishesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	ex := mocks.NewMockExtractor(ctrl)
	ex.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(nil, errors.New("unsupported URL"))

	bus := events.NewBus(nil, nil)
	defer bus.Close()
	failed := bus.Subscribe(events.EventDownloadFailed, 1)
	p := NewPipeline(ex, importer.New(t.TempDir(), nil), nil, nil, nil, WithEvents(bus))

	_, err := p.Download(context.Background(), media.Request{URL: "https://x.test/v"})
	require.Error(t, err)

	e := <-failed
	df, ok := e.(*events.DownloadFailed)
	require.True(t, ok)
	assert.Equal(t, string(KindExtraction), df.Kind)
	assert.Equal(t, "unsupported URL", df.Reason)
}

func TestErrorLog_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	for i := 0; i < 2; i++ {
		el, err := OpenErrorLog(path)
		require.NoError(t, err)
		el.Record("https://x.test/v", media.TypeVideo, errors.New("boom"))
		require.NoError(t, el.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "msg=\"download failed\""))
}

func TestErrorLog_Nil(t *testing.T) {
	var el *ErrorLog
	assert.NotPanics(t, func() { el.Record("u", media.TypeVideo, errors.New("x")) })
	assert.NoError(t, el.Close())
}
