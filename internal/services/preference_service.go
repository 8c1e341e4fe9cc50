package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/models"
)

// preferenceService handles notification preference business logic.
type preferenceService struct {
	db *gorm.DB
}

// NewPreferenceService creates a new PreferenceServicer.
func NewPreferenceService(db *gorm.DB) PreferenceServicer {
	return &preferenceService{db: db}
}

// defaultPreferences returns the preference values applied to users who have
// never saved a preference row.
func defaultPreferences(userID uint) *models.NotificationPreference {
	return &models.NotificationPreference{
		UserID:          userID,
		BudgetAlerts:    models.DefaultBudgetAlerts,
		BudgetThreshold: models.DefaultBudgetThreshold,
		WeeklyDigest:    true,
		MonthlyReport:   true,
	}
}

// GetPreferences returns the user's stored preferences, or the defaults when
// no row exists.
func (s *preferenceService) GetPreferences(userID uint) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	if err := s.db.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultPreferences(userID), nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pref, nil
}

// UpdatePreferences applies the provided changes, creating the preference row
// on first update.
func (s *preferenceService) UpdatePreferences(userID uint, update PreferenceUpdate) (*models.NotificationPreference, error) {
	if update.BudgetThreshold != nil && (*update.BudgetThreshold < 1 || *update.BudgetThreshold > 100) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "threshold must be between 1 and 100")
	}

	var pref models.NotificationPreference
	err := s.db.Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = *defaultPreferences(userID)
		applyPreferenceUpdate(&pref, update)
		if err := s.db.Create(&pref).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &pref, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	applyPreferenceUpdate(&pref, update)
	if err := s.db.Save(&pref).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pref, nil
}

func applyPreferenceUpdate(pref *models.NotificationPreference, update PreferenceUpdate) {
	if update.BudgetAlerts != nil {
		pref.BudgetAlerts = *update.BudgetAlerts
	}
	if update.BudgetThreshold != nil {
		pref.BudgetThreshold = *update.BudgetThreshold
	}
	if update.EmailEnabled != nil {
		pref.EmailEnabled = *update.EmailEnabled
	}
	if update.WeeklyDigest != nil {
		pref.WeeklyDigest = *update.WeeklyDigest
	}
	if update.MonthlyReport != nil {
		pref.MonthlyReport = *update.MonthlyReport
	}
	if update.ExpenseReminders != nil {
		pref.ExpenseReminders = *update.ExpenseReminders
	}
}

// AlertPreference returns the budget alert switch and warning threshold used
// by budget evaluation.
func (s *preferenceService) AlertPreference(userID uint) (bool, int, error) {
	pref, err := s.GetPreferences(userID)
	if err != nil {
		return false, 0, err
	}
	threshold := pref.BudgetThreshold
	if threshold < 1 || threshold > 100 {
		threshold = models.DefaultBudgetThreshold
	}
	return pref.BudgetAlerts, threshold, nil
}
