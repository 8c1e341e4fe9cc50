package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Wahiduz89/spendsmart/internal/alerts"
	"github.com/Wahiduz89/spendsmart/internal/models"
	"github.com/Wahiduz89/spendsmart/internal/pagination"
	"github.com/Wahiduz89/spendsmart/internal/receipt"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name, description, icon, color string) (*models.Category, error)
	SeedDefaultCategories(userID uint) error
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, description, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate      *time.Time
	ToDate        *time.Time
	CategoryID    *uint
	PaymentMethod *models.PaymentMethod
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
}

// ExpenseServicer defines the contract for expense-related business logic.
// SpentBetween doubles as the spending lookup for budget evaluation.
type ExpenseServicer interface {
	CreateExpense(userID uint, categoryID *uint, amount decimal.Decimal, date time.Time, description, merchant string, paymentMethod *models.PaymentMethod, receiptID *uint) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, categoryID *uint, amount *decimal.Decimal, date *time.Time, description, merchant string, paymentMethod *models.PaymentMethod) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
	SpentBetween(userID uint, categoryID *uint, start, end time.Time) (decimal.Decimal, error)
}

// BudgetProgress contains the evaluation of a budget against its window's
// spending.
type BudgetProgress struct {
	BudgetID uint            `json:"budget_id"`
	Budgeted decimal.Decimal `json:"budgeted"`
	alerts.Evaluation
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, categoryID *uint, name string, amount decimal.Decimal, period models.BudgetPeriod, startDate, endDate time.Time) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest, isActive *bool, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, name string, amount *decimal.Decimal, period *models.BudgetPeriod, endDate *time.Time, isActive *bool) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetProgress(userID, budgetID uint) (*BudgetProgress, error)
}

// NotificationServicer defines the contract for notification business logic.
// LatestNotification serves the alert deduplicator.
type NotificationServicer interface {
	CreateNotification(n *models.Notification) error
	GetUserNotifications(userID uint, page pagination.PageRequest, unreadOnly bool, kind *models.NotificationKind) (*pagination.PageResponse[models.Notification], error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(userID, notificationID uint) error
	MarkAllRead(userID uint) (int64, error)
	DeleteNotification(userID, notificationID uint) error
	DeleteRead(userID uint) (int64, error)
	LatestNotification(userID uint, kind models.NotificationKind, relatedID uint) (*time.Time, error)
}

// PreferenceUpdate holds optional notification preference changes.
type PreferenceUpdate struct {
	BudgetAlerts     *bool
	BudgetThreshold  *int
	EmailEnabled     *bool
	WeeklyDigest     *bool
	MonthlyReport    *bool
	ExpenseReminders *bool
}

// PreferenceServicer defines the contract for notification preferences.
// Users without a stored row get the defaults (alerts on, threshold 80).
type PreferenceServicer interface {
	GetPreferences(userID uint) (*models.NotificationPreference, error)
	UpdatePreferences(userID uint, update PreferenceUpdate) (*models.NotificationPreference, error)
	AlertPreference(userID uint) (enabled bool, threshold int, err error)
}

// CategorySpend is one category's share of a spending summary.
type CategorySpend struct {
	CategoryID *uint           `json:"category_id,omitempty"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
	Percentage float64         `json:"percentage"`
}

// SpendingSummary aggregates a user's spending over a window.
type SpendingSummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
	Categories []CategorySpend `json:"categories"`
}

// ReportServicer defines the contract for aggregated spending reports.
type ReportServicer interface {
	Summary(userID uint, from, to time.Time) (*SpendingSummary, error)
	ExportExcel(userID uint, from, to time.Time) ([]byte, error)
}

// ReceiptServicer defines the contract for receipt upload and scanning.
type ReceiptServicer interface {
	ScanReceipt(ctx context.Context, userID uint, originalName string, size int64, r io.Reader) (*models.Receipt, *receipt.Extraction, error)
	GetReceiptByID(userID, receiptID uint) (*models.Receipt, error)
}

// MonitorServicer runs budget monitoring passes.
type MonitorServicer interface {
	RunBudgetCheck(ctx context.Context) (*alerts.RunResult, error)
}

// EmailSender delivers alert emails. Implementations are best-effort; the
// monitoring pass never fails because of email delivery.
type EmailSender interface {
	SendAlert(to, subject, body string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
