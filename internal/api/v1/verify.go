package v1

import (
	"context"
	"net/http"
	"time"
)

// verifyTimeout bounds each connection check.
const verifyTimeout = 10 * time.Second

// verify checks connectivity to the media server and reports the queue
// consumer state.
func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), verifyTimeout)
	defer cancel()

	resp := VerifyResponse{}

	identity, err := s.deps.Plex.GetIdentity(ctx)
	resp.Connections.Plex = err == nil
	if err != nil {
		resp.Connections.PlexErr = err.Error()
	} else {
		resp.Connections.PlexName = identity.Name
	}

	if s.deps.QueueState != nil {
		state := s.deps.QueueState()
		resp.Connections.Queue = state == "consuming"
		if !resp.Connections.Queue {
			resp.Connections.QueueErr = "consumer " + state
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
