package adapthttp

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleEvents streams live snapshots of the owner's data as server-sent
// events. Each event carries the full habit and completion state, so the
// client can re-render without tracking deltas.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.watcher == nil {
		http.Error(w, "live updates disabled", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.watcher.Subscribe(r.Context(), userFromContext(r.Context()).ID)
	for snap := range ch {
		data, err := json.Marshal(snap)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
		flusher.Flush()
	}
}
