package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const (
	maxEventLimit    = 500
	streamBufferSize = 64
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	if limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	records, total := s.deps.History.Recent(limit, offset)
	writeJSON(w, http.StatusOK, listEventsResponse{
		Items:  records,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) listDownloadEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	records := s.deps.History.ForDownload(id)
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No events for download")
		return
	}
	writeJSON(w, http.StatusOK, listEventsResponse{
		Items: records,
		Total: len(records),
		Limit: len(records),
	})
}

// streamEvents sends every published event as a server-sent event until the
// client goes away or the bus is closed.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	ch := s.deps.Bus.SubscribeAll(streamBufferSize)
	defer s.deps.Bus.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.log.Warn("event stream unsupported", "error", err)
		return
	}

	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.log.Error("marshal event", "type", e.EventType(), "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.EventType(), data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// queryInt extracts an optional integer from the query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
