package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Wahiduz89/spendsmart/internal/models"
)

// BudgetSource lists the budgets a monitoring pass should evaluate:
// active budgets whose end date has not passed.
type BudgetSource interface {
	ActiveBudgets(now time.Time) ([]models.Budget, error)
}

// SpendingLookup returns the sum of expense amounts for a user within a
// window, optionally filtered to one category (nil matches all categories).
type SpendingLookup interface {
	SpentBetween(userID uint, categoryID *uint, start, end time.Time) (decimal.Decimal, error)
}

// PreferenceLookup returns the user's alert settings, falling back to the
// defaults (enabled, threshold 80) when the user has no stored preference.
type PreferenceLookup interface {
	AlertPreference(userID uint) (enabled bool, threshold int, err error)
}

// NotificationSink persists an emitted alert, assigning its ID and
// creation timestamp.
type NotificationSink interface {
	CreateAlert(n *models.Notification) error
}

// BudgetError pairs a per-budget failure with the budget it occurred on.
type BudgetError struct {
	BudgetID uint
	Err      error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	return fmt.Sprintf("budget %d: %v", e.BudgetID, e.Err)
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error { return e.Err }

// RunResult contains the outcome of a monitoring pass.
type RunResult struct {
	Checked  int                    `json:"checked"`
	Emitted  []*models.Notification `json:"emitted"`
	Errors   []BudgetError          `json:"-"`
	Duration time.Duration          `json:"duration"`
}

// Monitor orchestrates a budget check pass over the store capabilities.
//
// The check-then-create dedup sequence is not transactional: two passes
// running concurrently for the same user can both emit inside the window.
type Monitor struct {
	budgets       BudgetSource
	spending      SpendingLookup
	prefs         PreferenceLookup
	notifications NotificationLookup
	sink          NotificationSink
	window        time.Duration
	log           *zap.SugaredLogger
	now           func() time.Time
}

// NewMonitor creates a Monitor. A non-positive window falls back to
// DefaultDedupWindow.
func NewMonitor(
	budgets BudgetSource,
	spending SpendingLookup,
	prefs PreferenceLookup,
	notifications NotificationLookup,
	sink NotificationSink,
	window time.Duration,
	log *zap.SugaredLogger,
) *Monitor {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Monitor{
		budgets:       budgets,
		spending:      spending,
		prefs:         prefs,
		notifications: notifications,
		sink:          sink,
		window:        window,
		log:           log,
		now:           time.Now,
	}
}

// Run executes a single monitoring pass. A failure on one budget never
// aborts the pass: per-budget errors are collected into the result and the
// remaining budgets are still evaluated. Run only returns an error when the
// budget listing itself fails.
func (m *Monitor) Run(ctx context.Context) (*RunResult, error) {
	start := m.now()
	result := &RunResult{Emitted: []*models.Notification{}}

	budgets, err := m.budgets.ActiveBudgets(start)
	if err != nil {
		return nil, err
	}

	for i := range budgets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		budget := &budgets[i]
		result.Checked++

		notification, err := m.checkBudget(budget)
		if err != nil {
			result.Errors = append(result.Errors, BudgetError{BudgetID: budget.ID, Err: err})
			m.log.Warnw("budget check failed",
				"budget_id", budget.ID,
				"user_id", budget.UserID,
				"error", err,
			)
			continue
		}
		if notification != nil {
			result.Emitted = append(result.Emitted, notification)
		}
	}

	result.Duration = m.now().Sub(start)
	m.log.Infow("budget monitoring pass completed",
		"checked", result.Checked,
		"emitted", len(result.Emitted),
		"errors", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// checkBudget evaluates one budget and emits at most one notification.
// It returns nil, nil when nothing needs to be emitted.
func (m *Monitor) checkBudget(budget *models.Budget) (*models.Notification, error) {
	enabled, threshold, err := m.prefs.AlertPreference(budget.UserID)
	if err != nil {
		return nil, fmt.Errorf("preference lookup: %w", err)
	}
	if !enabled {
		return nil, nil
	}

	spent, err := m.spending.SpentBetween(budget.UserID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, fmt.Errorf("spending lookup: %w", err)
	}

	eval, err := Evaluate(budget, spent, threshold)
	if err != nil {
		return nil, err
	}
	if eval.Tier == TierNone {
		return nil, nil
	}

	kind := models.NotificationBudgetWarning
	if eval.Tier == TierExceeded {
		kind = models.NotificationBudgetExceeded
	}

	emit, err := ShouldEmit(m.notifications, budget.UserID, kind, budget.ID, m.window, m.now())
	if err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}
	if !emit {
		return nil, nil
	}

	notification := buildAlert(budget, eval, kind)
	if err := m.sink.CreateAlert(notification); err != nil {
		return nil, fmt.Errorf("notification create: %w", err)
	}
	return notification, nil
}

// buildAlert constructs the notification record for a WARNING or EXCEEDED
// evaluation, including display metadata for downstream consumers.
func buildAlert(budget *models.Budget, eval *Evaluation, kind models.NotificationKind) *models.Notification {
	scope := budget.Scope()

	var title, message string
	priority := models.PriorityMedium
	if kind == models.NotificationBudgetExceeded {
		priority = models.PriorityHigh
		overage := eval.Spent.Sub(budget.Amount)
		title = fmt.Sprintf("Budget exceeded: %s", scope)
		message = fmt.Sprintf("You've spent ₹%s of your ₹%s %s budget, exceeding it by ₹%s (%s%% used).",
			eval.Spent.StringFixed(2), budget.Amount.StringFixed(2), scope,
			overage.StringFixed(2), eval.Percentage.StringFixed(1))
	} else {
		title = fmt.Sprintf("Budget warning: %s", scope)
		message = fmt.Sprintf("You've used %s%% of your ₹%s %s budget. ₹%s remaining.",
			eval.Percentage.StringFixed(1), budget.Amount.StringFixed(2), scope,
			eval.Remaining.StringFixed(2))
	}

	relatedID := budget.ID
	metadata, _ := json.Marshal(map[string]interface{}{
		"budget_id":  budget.ID,
		"budget":     budget.Amount,
		"spent":      eval.Spent,
		"remaining":  eval.Remaining,
		"percentage": eval.Percentage,
		"period":     budget.Period,
		"scope":      scope,
	})

	return &models.Notification{
		UserID:      budget.UserID,
		Kind:        kind,
		Priority:    priority,
		Title:       title,
		Message:     message,
		RelatedID:   &relatedID,
		RelatedType: "budget",
		Metadata:    string(metadata),
	}
}
