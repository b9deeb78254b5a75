// internal/mediaserver/plex.go
package mediaserver

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"
)

// minSectionSimilarity is the Jaro-Winkler score a library title must reach
// to match a configured name that has no exact match.
const minSectionSimilarity = 0.85

// PlexClient interacts with the Plex Media Server API.
type PlexClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewPlexClient creates a new Plex client.
func NewPlexClient(baseURL, token string, log *slog.Logger) *PlexClient {
	return &PlexClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		log:     plexLogger(log),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func plexLogger(log *slog.Logger) *slog.Logger {
	if log == nil {
		return nil
	}
	return log.With("component", "plex")
}

// Identity holds Plex server identity information.
type Identity struct {
	Name    string
	Version string
}

// identityResponse is the XML response from root endpoint.
type identityResponse struct {
	XMLName      xml.Name `xml:"MediaContainer"`
	FriendlyName string   `xml:"friendlyName,attr"`
	Version      string   `xml:"version,attr"`
}

// Section represents a Plex library section.
type Section struct {
	Key       string     `xml:"key,attr"`
	Title     string     `xml:"title,attr"`
	Type      string     `xml:"type,attr"`
	Locations []Location `xml:"Location"`
}

// Location represents a library section's filesystem location.
type Location struct {
	Path string `xml:"path,attr"`
}

// sectionsResponse is the XML response from /library/sections.
type sectionsResponse struct {
	XMLName  xml.Name  `xml:"MediaContainer"`
	Sections []Section `xml:"Directory"`
}

func (c *PlexClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetSections returns all library sections.
func (c *PlexClient) GetSections(ctx context.Context) ([]Section, error) {
	var result sectionsResponse
	if err := c.get(ctx, "/library/sections", &result); err != nil {
		return nil, err
	}
	return result.Sections, nil
}

// FindSectionByName finds a library section by name. An exact
// (case-insensitive) title wins; otherwise the closest title above the
// similarity threshold is used. Returns nil if nothing matches.
func (c *PlexClient) FindSectionByName(ctx context.Context, name string) (*Section, error) {
	sections, err := c.GetSections(ctx)
	if err != nil {
		return nil, err
	}
	return matchSection(sections, name), nil
}

func matchSection(sections []Section, name string) *Section {
	for i := range sections {
		if strings.EqualFold(sections[i].Title, name) {
			return &sections[i]
		}
	}

	want := strings.ToLower(strings.TrimSpace(name))
	var best *Section
	var bestScore float64
	for i := range sections {
		score := float64(edlib.JaroWinklerSimilarity(want, strings.ToLower(sections[i].Title)))
		if score >= minSectionSimilarity && score > bestScore {
			best, bestScore = &sections[i], score
		}
	}
	return best
}

// RefreshSection triggers a full scan of a library section by key.
func (c *PlexClient) RefreshSection(ctx context.Context, sectionKey string) error {
	if err := c.get(ctx, fmt.Sprintf("/library/sections/%s/refresh", sectionKey), nil); err != nil {
		return fmt.Errorf("refresh section %s: %w", sectionKey, err)
	}
	return nil
}

// RefreshLibrary triggers a full scan of the named library section.
func (c *PlexClient) RefreshLibrary(ctx context.Context, libraryName string) error {
	section, err := c.FindSectionByName(ctx, libraryName)
	if err != nil {
		return fmt.Errorf("get sections: %w", err)
	}
	if section == nil {
		return fmt.Errorf("%w: %q", ErrLibraryNotFound, libraryName)
	}

	start := time.Now()
	if err := c.RefreshSection(ctx, section.Key); err != nil {
		return err
	}
	if c.log != nil {
		c.log.Debug("scan triggered", "library", section.Title, "section", section.Key, "duration_ms", time.Since(start).Milliseconds())
	}
	return nil
}

// GetIdentity returns the Plex server name and version.
func (c *PlexClient) GetIdentity(ctx context.Context) (*Identity, error) {
	var result identityResponse
	if err := c.get(ctx, "/", &result); err != nil {
		return nil, err
	}
	return &Identity{
		Name:    result.FriendlyName,
		Version: result.Version,
	}, nil
}
