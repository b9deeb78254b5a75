package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vmunix/mediagrab/internal/download"
	"github.com/vmunix/mediagrab/internal/media"
)

// Client wraps HTTP calls to a running mediagrab server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client. Downloads run synchronously on the
// server, so the timeout is generous.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Minute,
		},
	}
}

// StatusResponse mirrors GET /api/v1/status.
type StatusResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	Plex      string         `json:"plex"`
	Queue     string         `json:"queue"`
	Downloads download.Stats `json:"downloads"`
}

// DownloadResponse mirrors a successful POST /api/v1/downloads.
type DownloadResponse struct {
	Status    string     `json:"status"`
	Path      string     `json:"path"`
	MediaType media.Type `json:"media_type"`
	ID        string     `json:"id"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int             `json:"-"`
	Code       string          `json:"code"`
	Detail     json.RawMessage `json:"detail"`
}

func (e *APIError) Error() string {
	var detail string
	if err := json.Unmarshal(e.Detail, &detail); err != nil {
		detail = string(e.Detail)
	}
	if e.Code == "" {
		return fmt.Sprintf("server error %d: %s", e.StatusCode, detail)
	}
	return fmt.Sprintf("server error %d (%s): %s", e.StatusCode, e.Code, detail)
}

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Download(req media.Request) (*DownloadResponse, error) {
	var resp DownloadResponse
	if err := c.post("/api/v1/downloads", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return decodeResponse(resp, result)
}

func (c *Client) post(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return decodeResponse(resp, result)
}

func decodeResponse(resp *http.Response, result any) error {
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil {
			apiErr.Detail, _ = json.Marshal(strings.TrimSpace(string(body)))
		}
		return apiErr
	}
	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}
