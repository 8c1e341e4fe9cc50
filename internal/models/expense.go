package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the closed set of payment methods an expense can carry.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentWallet     PaymentMethod = "WALLET"
	PaymentNetBanking PaymentMethod = "NET_BANKING"
)

// Expense represents a single spending record
type Expense struct {
	Base
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	CategoryID    *uint           `gorm:"index" json:"category_id,omitempty"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Description   string          `json:"description"`
	Merchant      string          `json:"merchant"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
	ReceiptID     *uint           `json:"receipt_id,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Receipt  *Receipt  `gorm:"foreignKey:ReceiptID" json:"receipt,omitempty"`
}
