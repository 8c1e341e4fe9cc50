package alerts

import (
	"time"

	"github.com/Wahiduz89/spendsmart/internal/models"
)

// DefaultDedupWindow is the lookback window during which a repeat alert of
// the same kind for the same budget is suppressed.
const DefaultDedupWindow = 24 * time.Hour

// NotificationLookup is the store capability the deduplicator needs: the
// creation time of the most recent notification matching a user, kind, and
// related entity, or nil if none exists.
type NotificationLookup interface {
	LatestNotification(userID uint, kind models.NotificationKind, relatedID uint) (*time.Time, error)
}

// ShouldEmit reports whether an alert of the given kind for the given budget
// should be emitted, or suppressed because an identical-kind alert was
// already created inside the lookback window.
//
// WARNING and EXCEEDED are distinct kinds on purpose: escalating from
// WARNING into EXCEEDED within the window still produces a fresh alert.
func ShouldEmit(lookup NotificationLookup, userID uint, kind models.NotificationKind, relatedID uint, window time.Duration, now time.Time) (bool, error) {
	latest, err := lookup.LatestNotification(userID, kind, relatedID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return true, nil
	}
	return now.Sub(*latest) >= window, nil
}
