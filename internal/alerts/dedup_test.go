package alerts

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Wahiduz89/spendsmart/internal/models"
)

// mapLookup is an in-memory NotificationLookup keyed by user, kind, and
// related ID.
type mapLookup struct {
	latest map[string]time.Time
	err    error
}

func lookupKey(userID uint, kind models.NotificationKind, relatedID uint) string {
	return fmt.Sprintf("%d|%s|%d", userID, kind, relatedID)
}

func (l *mapLookup) LatestNotification(userID uint, kind models.NotificationKind, relatedID uint) (*time.Time, error) {
	if l.err != nil {
		return nil, l.err
	}
	if at, ok := l.latest[lookupKey(userID, kind, relatedID)]; ok {
		return &at, nil
	}
	return nil, nil
}

func (l *mapLookup) record(userID uint, kind models.NotificationKind, relatedID uint, at time.Time) {
	if l.latest == nil {
		l.latest = make(map[string]time.Time)
	}
	l.latest[lookupKey(userID, kind, relatedID)] = at
}

func TestShouldEmit(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	t.Run("no_previous_alert", func(t *testing.T) {
		lookup := &mapLookup{}
		emit, err := ShouldEmit(lookup, 1, models.NotificationBudgetWarning, 10, window, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !emit {
			t.Error("expected emit with no previous alert")
		}
	})

	t.Run("recent_same_kind_suppressed", func(t *testing.T) {
		lookup := &mapLookup{}
		lookup.record(1, models.NotificationBudgetWarning, 10, now.Add(-time.Hour))

		emit, err := ShouldEmit(lookup, 1, models.NotificationBudgetWarning, 10, window, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if emit {
			t.Error("expected suppression of same-kind alert 1h after the previous one")
		}
	})

	t.Run("window_elapsed_emits", func(t *testing.T) {
		lookup := &mapLookup{}
		lookup.record(1, models.NotificationBudgetWarning, 10, now.Add(-25*time.Hour))

		emit, err := ShouldEmit(lookup, 1, models.NotificationBudgetWarning, 10, window, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !emit {
			t.Error("expected emit 25h after the previous alert")
		}
	})

	t.Run("exactly_at_window_boundary_emits", func(t *testing.T) {
		lookup := &mapLookup{}
		lookup.record(1, models.NotificationBudgetWarning, 10, now.Add(-window))

		emit, err := ShouldEmit(lookup, 1, models.NotificationBudgetWarning, 10, window, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !emit {
			t.Error("expected emit exactly at the window boundary")
		}
	})

	t.Run("different_kind_escapes_suppression", func(t *testing.T) {
		// A WARNING an hour ago does not suppress an EXCEEDED escalation.
		lookup := &mapLookup{}
		lookup.record(1, models.NotificationBudgetWarning, 10, now.Add(-time.Hour))

		emit, err := ShouldEmit(lookup, 1, models.NotificationBudgetExceeded, 10, window, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !emit {
			t.Error("expected EXCEEDED to emit despite a recent WARNING for the same budget")
		}
	})

	t.Run("different_budget_escapes_suppression", func(t *testing.T) {
		lookup := &mapLookup{}
		lookup.record(1, models.NotificationBudgetWarning, 10, now.Add(-time.Hour))

		emit, err := ShouldEmit(lookup, 1, models.NotificationBudgetWarning, 11, window, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !emit {
			t.Error("expected emit for a different budget")
		}
	})

	t.Run("lookup_error_propagates", func(t *testing.T) {
		lookup := &mapLookup{err: errors.New("store down")}
		if _, err := ShouldEmit(lookup, 1, models.NotificationBudgetWarning, 10, window, now); err == nil {
			t.Fatal("expected lookup error to propagate")
		}
	})
}
