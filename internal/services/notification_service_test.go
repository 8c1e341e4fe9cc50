package services

import (
	"testing"
	"time"

	"github.com/Wahiduz89/spendsmart/internal/models"
	"github.com/Wahiduz89/spendsmart/internal/pagination"
	"github.com/Wahiduz89/spendsmart/internal/testutil"
)

func TestGetUserNotifications(t *testing.T) {
	t.Run("newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 1, now.Add(-2*time.Hour))
		newest := testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetExceeded, 1, now)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserNotifications(user.ID, page, false, nil)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Fatalf("expected 2 notifications, got %d", result.TotalItems)
		}
		if result.Data[0].ID != newest.ID {
			t.Errorf("expected newest notification first, got %d", result.Data[0].ID)
		}
	})

	t.Run("unread_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)

		read := testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 1, time.Now())
		if err := db.Model(read).Update("is_read", true).Error; err != nil {
			t.Fatalf("failed to mark notification read: %v", err)
		}
		testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 2, time.Now())

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserNotifications(user.ID, page, true, nil)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 unread notification, got %d", result.TotalItems)
		}
	})

	t.Run("filter_by_kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 1, time.Now())
		testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetExceeded, 1, time.Now())

		kind := models.NotificationBudgetExceeded
		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserNotifications(user.ID, page, false, &kind)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 exceeded notification, got %d", result.TotalItems)
		}
	})
}

func TestUnreadCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 1, time.Now())
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 2, time.Now())

	count, err := svc.UnreadCount(user.ID)
	testutil.AssertNoError(t, err)
	if count != 2 {
		t.Errorf("expected 2 unread, got %d", count)
	}
}

func TestMarkRead(t *testing.T) {
	t.Run("marks_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)
		n := testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 1, time.Now())

		testutil.AssertNoError(t, svc.MarkRead(user.ID, n.ID))

		count, err := svc.UnreadCount(user.ID)
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected 0 unread after marking read, got %d", count)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.MarkRead(user.ID, 9999)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")
	})

	t.Run("other_users_notification", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		n := testutil.CreateTestNotification(t, db, user2.ID, models.NotificationBudgetWarning, 1, time.Now())

		err := svc.MarkRead(user1.ID, n.ID)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")
	})
}

func TestMarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 1, time.Now())
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 2, time.Now())
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 3, time.Now())

	updated, err := svc.MarkAllRead(user.ID)
	testutil.AssertNoError(t, err)
	if updated != 3 {
		t.Errorf("expected 3 notifications updated, got %d", updated)
	}

	// a second pass touches nothing
	updated, err = svc.MarkAllRead(user.ID)
	testutil.AssertNoError(t, err)
	if updated != 0 {
		t.Errorf("expected 0 notifications updated on repeat, got %d", updated)
	}
}

func TestDeleteRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)

	read := testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 1, time.Now())
	if err := db.Model(read).Update("is_read", true).Error; err != nil {
		t.Fatalf("failed to mark notification read: %v", err)
	}
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 2, time.Now())

	deleted, err := svc.DeleteRead(user.ID)
	testutil.AssertNoError(t, err)
	if deleted != 1 {
		t.Errorf("expected 1 notification deleted, got %d", deleted)
	}

	count, err := svc.UnreadCount(user.ID)
	testutil.AssertNoError(t, err)
	if count != 1 {
		t.Errorf("expected the unread notification to survive, got %d", count)
	}
}

func TestLatestNotification(t *testing.T) {
	t.Run("none_returns_nil", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)

		at, err := svc.LatestNotification(user.ID, models.NotificationBudgetWarning, 1)
		testutil.AssertNoError(t, err)
		if at != nil {
			t.Errorf("expected nil time with no notifications, got %v", at)
		}
	})

	t.Run("returns_most_recent_matching", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)
		user := testutil.CreateTestUser(t, db)

		older := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
		newer := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
		testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 7, older)
		testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 7, newer)
		// different kind and different budget must not interfere
		testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetExceeded, 7, time.Now())
		testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetWarning, 8, time.Now())

		at, err := svc.LatestNotification(user.ID, models.NotificationBudgetWarning, 7)
		testutil.AssertNoError(t, err)
		if at == nil {
			t.Fatal("expected a notification time")
		}
		if !at.Equal(newer) {
			t.Errorf("expected %v, got %v", newer, at)
		}
	})
}
