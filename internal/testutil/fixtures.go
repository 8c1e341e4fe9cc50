package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Wahiduz89/spendsmart/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a custom category for the user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Color:  "#3b82f6",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense dated now for the given category.
// Pass a nil categoryID for an uncategorized expense.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, amount decimal.Decimal) *models.Expense {
	t.Helper()
	return CreateTestExpenseOn(t, db, userID, categoryID, amount, time.Now())
}

// CreateTestExpenseOn creates an expense with an explicit date.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, amount decimal.Decimal, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Date:        date,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates an active monthly budget of the given amount whose
// window covers the current month. Pass a nil categoryID for an overall
// budget.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, amount decimal.Decimal) *models.Budget {
	t.Helper()

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		Amount:     amount,
		Period:     models.BudgetPeriodMonthly,
		StartDate:  start,
		EndDate:    end,
		IsActive:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestNotification creates a budget alert notification related to the
// given budget, created at the given time.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID uint, kind models.NotificationKind, budgetID uint, createdAt time.Time) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:      userID,
		Kind:        kind,
		Priority:    models.PriorityMedium,
		Title:       fmt.Sprintf("Test Notification %d", nextID()),
		Message:     "test",
		RelatedID:   &budgetID,
		RelatedType: "budget",
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	if err := db.Model(n).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("failed to backdate test notification: %v", err)
	}
	n.CreatedAt = createdAt
	return n
}

// CreateTestPreference creates a notification preference row for the user.
func CreateTestPreference(t *testing.T, db *gorm.DB, userID uint, budgetAlerts bool, threshold int) *models.NotificationPreference {
	t.Helper()

	pref := &models.NotificationPreference{
		UserID:          userID,
		BudgetAlerts:    budgetAlerts,
		BudgetThreshold: threshold,
		WeeklyDigest:    true,
		MonthlyReport:   true,
	}
	if err := db.Create(pref).Error; err != nil {
		t.Fatalf("failed to create test preference: %v", err)
	}
	return pref
}
