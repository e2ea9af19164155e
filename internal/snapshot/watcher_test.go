package snapshot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"habittrack/internal/domain"
	"habittrack/internal/snapshot"
)

// stubRepo serves a mutable habit list and an empty completion log.
type stubRepo struct {
	mu     sync.Mutex
	habits []domain.Habit
}

func (s *stubRepo) setHabits(habits []domain.Habit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = habits
}

func (s *stubRepo) ListHabits(_ context.Context, _ string) ([]domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Habit, len(s.habits))
	copy(out, s.habits)
	return out, nil
}

func (s *stubRepo) CreateHabit(_ context.Context, h domain.Habit) (*domain.Habit, error) {
	return &h, nil
}

func (s *stubRepo) UpdateHabit(_ context.Context, h domain.Habit) (*domain.Habit, error) {
	return &h, nil
}

func (s *stubRepo) DeleteHabit(_ context.Context, _, _ string) error { return nil }

func (s *stubRepo) SetArchived(_ context.Context, _, _ string, _ bool) error { return nil }

func (s *stubRepo) GetHabit(_ context.Context, _, _ string) (*domain.Habit, error) {
	return nil, nil
}

type stubCompletionRepo struct{}

func (stubCompletionRepo) CreateCompletion(_ context.Context, ownerID, habitID, day string) (*domain.CompletionEvent, error) {
	return &domain.CompletionEvent{OwnerID: ownerID, HabitID: habitID, OccurredOn: day}, nil
}

func (stubCompletionRepo) DeleteCompletionsForDay(_ context.Context, _, _, _ string) (int, error) {
	return 0, nil
}

func (stubCompletionRepo) DeleteCompletionsByHabit(_ context.Context, _, _ string) error { return nil }

func (stubCompletionRepo) CompletionExists(_ context.Context, _, _, _ string) (bool, error) {
	return false, nil
}

func (stubCompletionRepo) ListCompletions(_ context.Context, _ string) ([]domain.CompletionEvent, error) {
	return nil, nil
}

func recv(t *testing.T, ch <-chan snapshot.Snapshot) snapshot.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return snapshot.Snapshot{}
}

func TestSubscribe_DeliversInitialSnapshot(t *testing.T) {
	repo := &stubRepo{habits: []domain.Habit{{ID: "h1", Name: "Read"}}}
	w := snapshot.NewWatcher(repo, stubCompletionRepo{}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snap := recv(t, w.Subscribe(ctx, "owner-1"))
	if len(snap.Habits) != 1 || snap.Habits[0].ID != "h1" {
		t.Errorf("habits = %+v; want initial h1", snap.Habits)
	}
	if snap.Completions == nil {
		t.Error("completions should be an empty slice, not nil")
	}
}

func TestSubscribe_DeliversOnChange(t *testing.T) {
	repo := &stubRepo{habits: []domain.Habit{{ID: "h1", Name: "Read"}}}
	w := snapshot.NewWatcher(repo, stubCompletionRepo{}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := w.Subscribe(ctx, "owner-1")
	recv(t, ch)

	repo.setHabits([]domain.Habit{
		{ID: "h1", Name: "Read"},
		{ID: "h2", Name: "Run"},
	})

	snap := recv(t, ch)
	if len(snap.Habits) != 2 {
		t.Errorf("habits = %+v; want update with 2 habits", snap.Habits)
	}
}

func TestSubscribe_QuietWhenUnchanged(t *testing.T) {
	repo := &stubRepo{habits: []domain.Habit{{ID: "h1", Name: "Read"}}}
	w := snapshot.NewWatcher(repo, stubCompletionRepo{}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := w.Subscribe(ctx, "owner-1")
	recv(t, ch)

	select {
	case snap := <-ch:
		t.Errorf("unexpected snapshot for unchanged data: %+v", snap)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	w := snapshot.NewWatcher(&stubRepo{}, stubCompletionRepo{}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	ch := w.Subscribe(ctx, "owner-1")
	recv(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// The buffered slot may hold one last snapshot; the next
			// receive must observe the close.
			if _, ok := <-ch; ok {
				t.Error("channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
