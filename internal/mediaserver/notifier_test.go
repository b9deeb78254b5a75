package mediaserver_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/mediagrab/internal/media"
	"github.com/vmunix/mediagrab/internal/mediaserver"
	"github.com/vmunix/mediagrab/internal/mediaserver/mocks"
)

func TestLibraries_For(t *testing.T) {
	libs := mediaserver.Libraries{Default: "Home Videos", Audio: "Music"}

	assert.Equal(t, "Music", libs.For(media.TypeAudio))
	assert.Equal(t, "Home Videos", libs.For(media.TypeVideo))
	assert.Equal(t, "Home Videos", libs.For(media.TypePicture))
}

func TestNotifier_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := mocks.NewMockMediaServer(ctrl)
	server.EXPECT().RefreshLibrary(gomock.Any(), "Music").Return(nil)

	n := mediaserver.NewNotifier(server, mediaserver.Libraries{Default: "Home Videos", Audio: "Music"}, nil)
	assert.True(t, n.Enabled())
	n.Notify(context.Background(), media.TypeAudio)
}

func TestNotifier_NotifySwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := mocks.NewMockMediaServer(ctrl)
	server.EXPECT().RefreshLibrary(gomock.Any(), "Home Videos").Return(errors.New("connection refused"))

	n := mediaserver.NewNotifier(server, mediaserver.Libraries{Default: "Home Videos"}, nil)
	assert.NotPanics(t, func() { n.Notify(context.Background(), media.TypeVideo) })
}

func TestNotifier_Disabled(t *testing.T) {
	n := mediaserver.NewNotifier(nil, mediaserver.Libraries{}, nil)
	assert.False(t, n.Enabled())
	assert.NotPanics(t, func() { n.Notify(context.Background(), media.TypeVideo) })

	var nilNotifier *mediaserver.Notifier
	assert.False(t, nilNotifier.Enabled())
	assert.NotPanics(t, func() { nilNotifier.Notify(context.Background(), media.TypeAudio) })
}

func TestConnect_UnconfiguredMakesNoRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		cfg  mediaserver.Config
	}{
		{"empty", mediaserver.Config{}},
		{"missing token", mediaserver.Config{URL: srv.URL, Libraries: mediaserver.Libraries{Default: "Home Videos"}}},
		{"missing library", mediaserver.Config{URL: srv.URL, Token: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mediaserver.Connect(context.Background(), tt.cfg, nil)
			assert.False(t, n.Enabled())
			n.Notify(context.Background(), media.TypeVideo)
		})
	}
	assert.Equal(t, int32(0), hits.Load())
}

func TestConnect_ProbesServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<MediaContainer friendlyName="nas" version="1.0"></MediaContainer>`))
	}))
	defer srv.Close()

	n := mediaserver.Connect(context.Background(), mediaserver.Config{
		URL:       srv.URL,
		Token:     "t",
		Libraries: mediaserver.Libraries{Default: "Home Videos"},
	}, nil)
	assert.True(t, n.Enabled())
}

func TestProbe_UnavailableDisables(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := mocks.NewMockMediaServer(ctrl)
	server.EXPECT().GetIdentity(gomock.Any()).Return(nil, errors.New("dial tcp: refused"))

	n := mediaserver.Probe(context.Background(), server, mediaserver.Libraries{Default: "x"}, nil)
	assert.False(t, n.Enabled())
}

func TestConfig_Partial(t *testing.T) {
	assert.False(t, mediaserver.Config{}.Partial())
	assert.False(t, mediaserver.Config{Libraries: mediaserver.Libraries{Default: "Home Videos"}}.Partial())
	assert.True(t, mediaserver.Config{URL: "http://plex"}.Partial())
	assert.True(t, mediaserver.Config{Token: "t", Libraries: mediaserver.Libraries{Default: "Home Videos"}}.Partial())
	assert.True(t, mediaserver.Config{URL: "u", Token: "t"}.Partial())
	assert.False(t, mediaserver.Config{URL: "u", Token: "t", Libraries: mediaserver.Libraries{Default: "l"}}.Partial())
}

func TestConnect_LibraryOnlyIsNotConfigured(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	n := mediaserver.Connect(context.Background(), mediaserver.Config{
		Libraries: mediaserver.Libraries{Default: "Home Videos"},
	}, log)
	assert.False(t, n.Enabled())
	assert.Contains(t, buf.String(), "plex not configured")
	assert.NotContains(t, buf.String(), "incomplete")
}
