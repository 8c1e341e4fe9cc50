// Package alerts implements budget utilization evaluation, alert
// deduplication, and the periodic monitoring pass that turns budget
// overruns into notifications.
package alerts

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/models"
)

// Tier classifies budget utilization.
type Tier string

const (
	TierNone     Tier = "NONE"
	TierWarning  Tier = "WARNING"
	TierExceeded Tier = "EXCEEDED"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Evaluation is the result of evaluating spending against a budget.
// It is derived on every pass and never persisted.
type Evaluation struct {
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	OverBudget bool            `json:"over_budget"`
	Tier       Tier            `json:"tier"`
}

// Evaluate computes utilization of a budget given a precomputed spent total
// and the user's warning threshold (percent, 1-100). It is a pure function.
//
// Tier precedence: percentage >= 100 is EXCEEDED (inclusive boundary),
// otherwise percentage >= threshold is WARNING, otherwise NONE.
//
// A budget with amount <= 0 or start after end violates the budget invariant
// and yields ErrInvalidBudget; the division is never attempted.
func Evaluate(budget *models.Budget, spent decimal.Decimal, threshold int) (*Evaluation, error) {
	if budget.Amount.Sign() <= 0 || budget.StartDate.After(budget.EndDate) {
		return nil, apperrors.ErrInvalidBudget
	}

	// spent*100/amount keeps the result exact for terminating decimals.
	percentage := spent.Mul(hundred).Div(budget.Amount)

	tier := TierNone
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		tier = TierExceeded
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(int64(threshold))):
		tier = TierWarning
	}

	return &Evaluation{
		Spent:      spent,
		Remaining:  budget.Amount.Sub(spent),
		Percentage: percentage,
		OverBudget: spent.GreaterThan(budget.Amount),
		Tier:       tier,
	}, nil
}
