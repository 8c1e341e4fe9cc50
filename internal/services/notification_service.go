package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/models"
	"github.com/Wahiduz89/spendsmart/internal/pagination"
)

// notificationService handles notification-related business logic.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// CreateNotification persists a notification, assigning its ID and timestamps.
func (s *notificationService) CreateNotification(n *models.Notification) error {
	if err := s.db.Create(n).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserNotifications returns a paginated list of notifications, newest
// first, with optional unread and kind filters.
func (s *notificationService) GetUserNotifications(
	userID uint,
	page pagination.PageRequest,
	unreadOnly bool,
	kind *models.NotificationKind,
) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		base = base.Where("is_read = ?", false)
	}
	if kind != nil {
		base = base.Where("kind = ?", *kind)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// MarkRead marks one notification as read.
func (s *notificationService) MarkRead(userID, notificationID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification as read and returns how many
// were updated.
func (s *notificationService) MarkAllRead(userID uint) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteNotification soft-deletes one notification.
func (s *notificationService) DeleteNotification(userID, notificationID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// DeleteRead soft-deletes every read notification and returns how many were
// removed.
func (s *notificationService) DeleteRead(userID uint) (int64, error) {
	result := s.db.Where("user_id = ? AND is_read = ?", userID, true).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// LatestNotification returns the creation time of the most recent
// notification matching the kind and related record, or nil when none
// exists. This is the lookup the alert deduplicator keys on.
func (s *notificationService) LatestNotification(userID uint, kind models.NotificationKind, relatedID uint) (*time.Time, error) {
	var notification models.Notification
	err := s.db.Where("user_id = ? AND kind = ? AND related_id = ?", userID, kind, relatedID).
		Order("created_at DESC").
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &notification.CreatedAt, nil
}
