package analytics

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"habittrack/internal/domain"
)

// SortKey selects the ordering of a filtered habit list.
type SortKey string

// Supported sort keys.
const (
	SortByName      SortKey = "name"
	SortByStreak    SortKey = "streak"
	SortByCategory  SortKey = "category"
	SortByDateAdded SortKey = "dateAdded"
)

// CategoryAll passes every category through the category filter.
const CategoryAll = "all"

// ListFilter is the UI filter state applied to a habit list.
type ListFilter struct {
	Search          string
	Category        string
	SortKey         SortKey
	IncludeArchived bool
}

// FilterHabits returns a new, filtered and sorted habit list. The search
// filter is a case-insensitive substring match on the name, the category
// filter an exact match (CategoryAll or empty passes everything), and
// archived habits are dropped unless IncludeArchived is set. Sorting by
// streak uses ComputeStreak at ref, descending; ties keep the input order.
func FilterHabits(habits []domain.Habit, events []domain.CompletionEvent, f ListFilter, ref Date) []domain.Habit {
	out := make([]domain.Habit, 0, len(habits))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, h := range habits {
		if h.Archived && !f.IncludeArchived {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(h.Name), search) {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && h.Category != f.Category {
			continue
		}
		out = append(out, h)
	}

	switch f.SortKey {
	case SortByStreak:
		streaks := make(map[string]int, len(out))
		for _, h := range out {
			streaks[h.ID] = ComputeStreak(events, h.ID, ref).Current
		}
		sort.SliceStable(out, func(i, j int) bool {
			return streaks[out[i].ID] > streaks[out[j].ID]
		})
	case SortByCategory:
		c := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Category, out[j].Category) < 0
		})
	case SortByDateAdded:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default: // SortByName
		c := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

// Categories returns the distinct non-empty categories across habits,
// sorted with the same collation the list sort uses.
func Categories(habits []domain.Habit) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, h := range habits {
		if h.Category != "" && !seen[h.Category] {
			seen[h.Category] = true
			out = append(out, h.Category)
		}
	}
	c := collate.New(language.Und)
	c.SortStrings(out)
	return out
}
