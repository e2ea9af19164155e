// Package snapshot delivers live views of an owner's habits and completions.
// Subscribers receive an immutable Snapshot whenever the underlying data
// changes, detected by periodic polling of the repositories.
package snapshot

import (
	"context"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"habittrack/internal/domain"
)

const defaultInterval = 2 * time.Second

// Snapshot is a point-in-time copy of one owner's data. Subscribers must
// treat it as read-only.
type Snapshot struct {
	Habits      []domain.Habit           `json:"habits"`
	Completions []domain.CompletionEvent `json:"completions"`
	TakenAt     time.Time                `json:"takenAt"`
}

// Watcher polls the repositories and fans snapshots out to subscribers.
type Watcher struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	interval    time.Duration
}

// NewWatcher creates a watcher polling at the given interval. A
// non-positive interval falls back to a sane default.
func NewWatcher(habits domain.HabitRepository, completions domain.CompletionRepository, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Watcher{habits: habits, completions: completions, interval: interval}
}

// Subscribe starts a polling loop for the owner and returns a channel of
// snapshots. The first snapshot is delivered immediately; afterwards one is
// sent only when the data has changed. The channel is closed when ctx is
// cancelled. Slow consumers only ever see the latest snapshot: stale
// undelivered ones are dropped.
func (w *Watcher) Subscribe(ctx context.Context, ownerID string) <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	go w.poll(ctx, ownerID, ch)
	return ch
}

func (w *Watcher) poll(ctx context.Context, ownerID string, ch chan Snapshot) {
	defer close(ch)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastHash uint64
	if snap, hash, err := w.take(ctx, ownerID); err == nil {
		lastHash = hash
		send(ch, snap)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, hash, err := w.take(ctx, ownerID)
			if err != nil || hash == lastHash {
				continue
			}
			lastHash = hash
			send(ch, snap)
		}
	}
}

// take loads the owner's data and hashes it for change detection. TakenAt
// is excluded from the hash so identical data never re-triggers delivery.
func (w *Watcher) take(ctx context.Context, ownerID string) (Snapshot, uint64, error) {
	habits, err := w.habits.ListHabits(ctx, ownerID)
	if err != nil {
		return Snapshot{}, 0, err
	}
	completions, err := w.completions.ListCompletions(ctx, ownerID)
	if err != nil {
		return Snapshot{}, 0, err
	}
	if habits == nil {
		habits = []domain.Habit{}
	}
	if completions == nil {
		completions = []domain.CompletionEvent{}
	}

	hash, err := hashstructure.Hash(struct {
		Habits      []domain.Habit
		Completions []domain.CompletionEvent
	}{habits, completions}, hashstructure.FormatV2, nil)
	if err != nil {
		return Snapshot{}, 0, err
	}
	return Snapshot{Habits: habits, Completions: completions, TakenAt: time.Now()}, hash, nil
}

// send replaces any undelivered snapshot with the newer one.
func send(ch chan Snapshot, snap Snapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- snap
}
