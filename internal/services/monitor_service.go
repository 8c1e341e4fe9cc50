package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Wahiduz89/spendsmart/internal/alerts"
	"github.com/Wahiduz89/spendsmart/internal/config"
	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/logger"
	"github.com/Wahiduz89/spendsmart/internal/models"
)

// monitorService runs budget monitoring passes over all active budgets and
// persists the resulting alert notifications.
type monitorService struct {
	db      *gorm.DB
	monitor *alerts.Monitor
	users   UserServicer
	prefs   PreferenceServicer
	email   EmailSender
}

// NewMonitorService wires the monitoring pass to the expense, preference,
// and notification services. Alert emails are best-effort and never fail a
// pass.
func NewMonitorService(
	db *gorm.DB,
	cfg *config.Config,
	users UserServicer,
	expenses ExpenseServicer,
	prefs PreferenceServicer,
	notifications NotificationServicer,
	email EmailSender,
) MonitorServicer {
	s := &monitorService{
		db:    db,
		users: users,
		prefs: prefs,
		email: email,
	}
	s.monitor = alerts.NewMonitor(
		s,
		expenses,
		prefs,
		notifications,
		&alertSink{service: s, notifications: notifications},
		cfg.AlertDedupWindow,
		logger.Get(),
	)
	return s
}

// ActiveBudgets lists the budgets a monitoring pass should evaluate: active
// budgets whose window covers now or is still ahead.
func (s *monitorService) ActiveBudgets(now time.Time) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("is_active = ? AND end_date >= ?", true, now).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// RunBudgetCheck executes one monitoring pass.
func (s *monitorService) RunBudgetCheck(ctx context.Context) (*alerts.RunResult, error) {
	return s.monitor.Run(ctx)
}

// alertSink persists emitted alerts and forwards them by email when the
// user has opted in.
type alertSink struct {
	service       *monitorService
	notifications NotificationServicer
}

// CreateAlert stores the notification and, if the user enabled email alerts,
// sends a copy. Email failures are logged and swallowed.
func (k *alertSink) CreateAlert(n *models.Notification) error {
	if err := k.notifications.CreateNotification(n); err != nil {
		return err
	}

	pref, err := k.service.prefs.GetPreferences(n.UserID)
	if err != nil || !pref.EmailEnabled {
		return nil
	}

	user, err := k.service.users.GetUserByID(n.UserID)
	if err != nil {
		return nil
	}

	if err := k.service.email.SendAlert(user.Email, n.Title, n.Message); err != nil {
		logger.Get().Warnw("alert email delivery failed",
			"user_id", n.UserID,
			"notification_id", n.ID,
			"error", err,
		)
	}
	return nil
}
