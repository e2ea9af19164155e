package analytics

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"habittrack/internal/domain"
)

// Export is the JSON export document: the raw snapshot plus the export
// instant.
type Export struct {
	Habits      []domain.Habit            `json:"habits"`
	Completions []domain.CompletionEvent  `json:"completions"`
	ExportedAt  time.Time                 `json:"exportDate"`
}

// BuildExport shapes a snapshot for export. Nil slices become empty so the
// JSON document always carries arrays.
func BuildExport(habits []domain.Habit, completions []domain.CompletionEvent, now time.Time) Export {
	if habits == nil {
		habits = []domain.Habit{}
	}
	if completions == nil {
		completions = []domain.CompletionEvent{}
	}
	return Export{Habits: habits, Completions: completions, ExportedAt: now}
}

// WriteJSON writes the export document as indented JSON.
func WriteJSON(w io.Writer, ex Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ex)
}

// WriteCSV writes one row per completion with its habit's name and
// category. Completions referencing a deleted habit are skipped.
func WriteCSV(w io.Writer, habits []domain.Habit, completions []domain.CompletionEvent) error {
	byID := make(map[string]domain.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Habit Name", "Category", "Completed"}); err != nil {
		return err
	}
	for _, c := range completions {
		h, ok := byID[c.HabitID]
		if !ok {
			continue
		}
		if err := cw.Write([]string{c.OccurredOn, h.Name, h.Category, "Yes"}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
