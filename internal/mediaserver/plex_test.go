// internal/mediaserver/plex_test.go
package mediaserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sectionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="3">
  <Directory key="1" title="Home Videos" type="movie">
    <Location path="/data/video"/>
  </Directory>
  <Directory key="2" title="Music" type="artist">
    <Location path="/data/audio"/>
  </Directory>
  <Directory key="3" title="Photos" type="photo">
    <Location path="/data/pictures"/>
  </Directory>
</MediaContainer>`

func TestPlexClient_GetSections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/sections", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Plex-Token"))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sectionsXML))
	}))
	defer server.Close()

	client := NewPlexClient(server.URL, "test-token", nil)
	sections, err := client.GetSections(context.Background())
	require.NoError(t, err, "GetSections")

	require.Len(t, sections, 3)
	assert.Equal(t, "1", sections[0].Key)
	assert.Equal(t, "Home Videos", sections[0].Title)
	assert.Equal(t, "artist", sections[1].Type)
	assert.Equal(t, "/data/pictures", sections[2].Locations[0].Path)
}

func TestPlexClient_RefreshLibrary(t *testing.T) {
	var refreshed string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			_, _ = w.Write([]byte(sectionsXML))
		case "/library/sections/2/refresh":
			refreshed = "2"
			assert.Equal(t, "test-token", r.Header.Get("X-Plex-Token"))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewPlexClient(server.URL+"/", "test-token", nil)
	require.NoError(t, client.RefreshLibrary(context.Background(), "music"))
	assert.Equal(t, "2", refreshed)
}

func TestPlexClient_RefreshLibrary_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sectionsXML))
	}))
	defer server.Close()

	client := NewPlexClient(server.URL, "test-token", nil)
	err := client.RefreshLibrary(context.Background(), "Podcasts")
	assert.ErrorIs(t, err, ErrLibraryNotFound)
}

func TestPlexClient_RefreshLibrary_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/library/sections" {
			_, _ = w.Write([]byte(sectionsXML))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewPlexClient(server.URL, "test-token", nil)
	assert.Error(t, client.RefreshLibrary(context.Background(), "Home Videos"))
}

func TestPlexClient_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewPlexClient(server.URL, "bad", nil)
	_, err := client.GetSections(context.Background())
	assert.ErrorContains(t, err, "401")
}

func TestPlexClient_ConnectionError(t *testing.T) {
	client := NewPlexClient("http://localhost:1", "token", nil)
	_, err := client.GetSections(context.Background())
	assert.Error(t, err, "expected connection error")
}

func TestPlexClient_GetIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Plex-Token"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer friendlyName="velcro" version="1.42.2.10156">
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewPlexClient(server.URL, "test-token", nil)
	identity, err := client.GetIdentity(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "velcro", identity.Name)
	assert.Equal(t, "1.42.2.10156", identity.Version)
}

func TestMatchSection(t *testing.T) {
	sections := []Section{
		{Key: "1", Title: "Home Videos"},
		{Key: "2", Title: "Music"},
	}

	tests := []struct {
		name    string
		query   string
		wantKey string
	}{
		{"exact", "Music", "2"},
		{"case insensitive", "home videos", "1"},
		{"fuzzy", "Home Video", "1"},
		{"no match", "Audiobooks", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchSection(sections, tt.query)
			if tt.wantKey == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKey, got.Key)
		})
	}
}
