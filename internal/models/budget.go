package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly    BudgetPeriod = "weekly"
	BudgetPeriodMonthly   BudgetPeriod = "monthly"
	BudgetPeriodQuarterly BudgetPeriod = "quarterly"
	BudgetPeriodYearly    BudgetPeriod = "yearly"
)

// Budget represents a spending limit over a time window. A nil CategoryID
// means the budget covers all of the user's spending.
type Budget struct {
	Base
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	CategoryID *uint           `gorm:"index" json:"category_id,omitempty"`
	Name       string          `gorm:"not null" json:"name"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Period     BudgetPeriod    `gorm:"not null" json:"period"`
	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    time.Time       `gorm:"not null" json:"end_date"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Scope returns the human-readable scope of the budget: the category name,
// or "Overall" for budgets without a category filter.
func (b *Budget) Scope() string {
	if b.Category != nil && b.Category.Name != "" {
		return b.Category.Name
	}
	return "Overall"
}
