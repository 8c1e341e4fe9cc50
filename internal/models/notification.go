package models

// NotificationKind enumerates the kinds of notifications shown to a user.
type NotificationKind string

const (
	NotificationBudgetWarning  NotificationKind = "budget_warning"
	NotificationBudgetExceeded NotificationKind = "budget_exceeded"
	NotificationExpenseRemind  NotificationKind = "expense_reminder"
	NotificationWeeklySummary  NotificationKind = "weekly_summary"
	NotificationMonthlySummary NotificationKind = "monthly_summary"
	NotificationAchievement    NotificationKind = "achievement"
	NotificationSystem         NotificationKind = "system"
)

// NotificationPriority enumerates notification priorities.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Notification records an alert or informational message for a user.
// For budget alerts, RelatedID references the triggering budget and is the
// key used for deduplication.
type Notification struct {
	Base
	UserID      uint                 `gorm:"not null;index" json:"user_id"`
	Kind        NotificationKind     `gorm:"not null;index" json:"kind"`
	Priority    NotificationPriority `gorm:"not null;default:medium" json:"priority"`
	Title       string               `gorm:"not null" json:"title"`
	Message     string               `gorm:"not null" json:"message"`
	IsRead      bool                 `gorm:"default:false;index" json:"is_read"`
	RelatedID   *uint                `gorm:"index" json:"related_id,omitempty"`
	RelatedType string               `json:"related_type,omitempty"`
	Metadata    string               `json:"metadata,omitempty"`
}
