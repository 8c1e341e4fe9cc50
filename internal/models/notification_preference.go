package models

// NotificationPreference holds per-user notification settings. Users without
// a row fall back to the defaults (budget alerts on, threshold 80).
type NotificationPreference struct {
	Base
	UserID           uint `gorm:"uniqueIndex;not null" json:"user_id"`
	BudgetAlerts     bool `gorm:"default:true" json:"budget_alerts"`
	BudgetThreshold  int  `gorm:"default:80" json:"budget_threshold"`
	EmailEnabled     bool `gorm:"default:false" json:"email_enabled"`
	WeeklyDigest     bool `gorm:"default:true" json:"weekly_digest"`
	MonthlyReport    bool `gorm:"default:true" json:"monthly_report"`
	ExpenseReminders bool `gorm:"default:false" json:"expense_reminders"`
}

// Default preference values applied when a user has no preference row.
const (
	DefaultBudgetAlerts    = true
	DefaultBudgetThreshold = 80
)
