package adapthttp

import (
	"fmt"
	"net/http"
	"time"
)

// handleExport streams the owner's full data set. The format query picks
// json (default) or csv.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	owner := userFromContext(r.Context()).ID
	stamp := time.Now().In(s.loc).Format("2006-01-02")

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=habits-%s.csv", stamp))
		if err := s.analytics.ExportCSV(r.Context(), owner, w); err != nil {
			writeError(w, http.StatusInternalServerError, err)
		}
	case "", "json":
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=habits-%s.json", stamp))
		if err := s.analytics.ExportJSON(r.Context(), owner, w); err != nil {
			writeError(w, http.StatusInternalServerError, err)
		}
	default:
		http.Error(w, "unknown format", http.StatusBadRequest)
	}
}
