// Package v1 implements the download REST API.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vmunix/mediagrab/internal/download"
	"github.com/vmunix/mediagrab/internal/media"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	log  *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{deps: deps, log: log.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Downloads
	mux.HandleFunc("POST /api/v1/downloads", limitBody(s.download))
	mux.HandleFunc("POST /download/{$}", limitBody(s.download)) // legacy
	mux.HandleFunc("POST /download/video", limitBody(s.downloadAs(media.TypeVideo)))
	mux.HandleFunc("POST /download/audio", limitBody(s.downloadAs(media.TypeAudio)))
	mux.HandleFunc("POST /download/picture", limitBody(s.downloadAs(media.TypePicture)))

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("GET /api/v1/verify", s.requirePlex(s.verify))

	// Events
	mux.HandleFunc("GET /api/v1/events", s.requireEvents(s.listEvents))
	mux.HandleFunc("GET /api/v1/events/stream", s.requireEvents(s.streamEvents))
	mux.HandleFunc("GET /api/v1/downloads/{id}/events", s.requireEvents(s.listDownloadEvents))
}

func writeError(w http.ResponseWriter, code int, errCode string, detail any) {
	writeJSON(w, code, errorResponse{Status: "error", Code: errCode, Detail: detail})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	s.handleDownload(w, r, "")
}

// downloadAs forces the media type; the path wins over any body media_type.
func (s *Server) downloadAs(t media.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.handleDownload(w, r, t)
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, forced media.Type) {
	var req media.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("malformed JSON body: %v", err))
		return
	}
	if forced != "" {
		req.MediaType = string(forced)
	}

	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	// Downloads are not preemptible; a client disconnect must not abort one.
	res, err := s.deps.Downloader.Download(context.WithoutCancel(r.Context()), req)
	if err != nil {
		if errors.Is(err, download.ErrValidation) {
			writeValidationError(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "DOWNLOAD_FAILED", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, downloadResponse{
		Status:    "success",
		Path:      res.Path,
		MediaType: res.Type,
		ID:        res.ID,
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs media.ValidationErrors
	if errors.As(err, &verrs) {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", verrs)
		return
	}
	writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:    "ok",
		Version:   s.deps.Version,
		Plex:      "disabled",
		Queue:     "disabled",
		Downloads: s.deps.Downloader.Stats(),
	}
	if s.deps.Plex != nil {
		resp.Plex = "enabled"
	}
	if s.deps.QueueState != nil {
		resp.Queue = s.deps.QueueState()
	}
	writeJSON(w, http.StatusOK, resp)
}
