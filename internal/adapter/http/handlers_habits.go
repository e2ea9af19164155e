package adapthttp

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"habittrack/internal/analytics"
	"habittrack/internal/app"
)

func (s *Server) handleHabits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := userFromContext(ctx).ID

	switch r.Method {
	case http.MethodGet:
		filter := analytics.ListFilter{
			Search:          r.URL.Query().Get("search"),
			Category:        r.URL.Query().Get("category"),
			SortKey:         analytics.SortKey(r.URL.Query().Get("sort")),
			IncludeArchived: boolQuery(r, "includeArchived"),
		}
		items, err := s.analytics.ListFiltered(ctx, owner, filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var input app.HabitInput
		if err := parseJSON(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		habit, err := s.habits.Create(ctx, owner, input)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"habit": habit})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleHabitByID routes /habits/{id} and its sub-resources:
//
//	GET    /habits/{id}          fetch one habit
//	PUT    /habits/{id}          update
//	DELETE /habits/{id}?purge=1  delete, optionally purging history
//	POST   /habits/{id}/archive  set the archived flag
//	GET    /habits/{id}/stats    streaks and rates
//	POST   /habits/{id}/toggle   flip completion for a day
func (s *Server) handleHabitByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/habits/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch sub {
	case "":
		s.habitResource(w, r, id)
	case "archive":
		s.habitArchive(w, r, id)
	case "stats":
		s.habitStats(w, r, id)
	case "toggle":
		s.habitToggle(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) habitResource(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	owner := userFromContext(ctx).ID

	switch r.Method {
	case http.MethodGet:
		habit, err := s.habits.Get(ctx, owner, id)
		if errors.Is(err, app.ErrHabitNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"habit": habit})

	case http.MethodPut:
		var input app.HabitInput
		if err := parseJSON(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		habit, err := s.habits.Update(ctx, owner, id, input)
		if errors.Is(err, app.ErrHabitNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"habit": habit})

	case http.MethodDelete:
		err := s.habits.Delete(ctx, owner, id, boolQuery(r, "purge"))
		if errors.Is(err, app.ErrHabitNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) habitArchive(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Archived bool `json:"archived"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err := s.habits.SetArchived(r.Context(), userFromContext(r.Context()).ID, id, req.Archived)
	if errors.Is(err, app.ErrHabitNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "archived": req.Archived})
}

func (s *Server) habitStats(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.analytics.HabitStats(r.Context(), userFromContext(r.Context()).ID, id)
	if errors.Is(err, app.ErrHabitNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) habitToggle(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// The body is optional; an empty one toggles today.
	var req struct {
		Day string `json:"day"`
	}
	if err := parseJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Day == "" {
		req.Day = s.completions.Today().String()
	}

	completed, err := s.completions.Toggle(r.Context(), userFromContext(r.Context()).ID, id, req.Day)
	switch {
	case errors.Is(err, app.ErrHabitNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, app.ErrInvalidDay), errors.Is(err, app.ErrFutureDay):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"day": req.Day, "completed": completed})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	categories, err := s.analytics.Categories(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
