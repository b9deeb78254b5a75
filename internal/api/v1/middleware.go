package v1

import "net/http"

// maxBodyBytes bounds a download request body.
const maxBodyBytes = 1 << 20

// limitBody caps the request body size.
func limitBody(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next(w, r)
	}
}

// requirePlex wraps a handler and returns 503 if Plex is not configured.
func (s *Server) requirePlex(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Plex == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Plex not configured")
			return
		}
		next(w, r)
	}
}

// requireEvents returns 503 unless the event history and bus are wired.
func (s *Server) requireEvents(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Bus == nil || s.deps.History == nil {
			writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
			return
		}
		next(w, r)
	}
}
