package models

// Category represents an expense category
type Category struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	IsDefault   bool   `gorm:"default:false" json:"is_default"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
	Budgets  []Budget  `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}
