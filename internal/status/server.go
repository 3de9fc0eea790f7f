// internal/status/server.go
package status

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/user/clipwatch/internal/state"
	"github.com/user/clipwatch/internal/types"
)

// Server is a lightweight HTTP handler exposing daemon state for
// debugging: recorded trigger events and the per-conversation cursors.
type Server struct {
	events  types.EventStore
	tracker *state.TrackerStore
	started time.Time
	mux     *http.ServeMux
}

// NewServer creates a status Server over the given stores.
func NewServer(events types.EventStore, tracker *state.TrackerStore) *Server {
	s := &Server{
		events:  events,
		tracker: tracker,
		started: time.Now(),
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/events/", s.handleEvent)
	s.mux.HandleFunc("GET /api/tracker", s.handleTracker)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.List(r.Context())
	if err != nil {
		slog.Error("list events failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	limit := 200
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	if len(events) > limit {
		events = events[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/events/")
	if id == "" {
		http.Error(w, `{"error":"event id required"}`, http.StatusBadRequest)
		return
	}

	event, err := s.events.Get(r.Context(), types.MessageID(id))
	if err != nil {
		http.Error(w, `{"error":"event not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(event)
}

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	cursors, err := s.tracker.All()
	if err != nil {
		slog.Error("read tracker failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cursors)
}
