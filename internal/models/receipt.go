package models

// ReceiptStatus tracks the outcome of text recognition for a stored receipt.
type ReceiptStatus string

const (
	ReceiptPending   ReceiptStatus = "pending"
	ReceiptExtracted ReceiptStatus = "extracted"
	ReceiptFailed    ReceiptStatus = "failed"
)

// Receipt represents an uploaded receipt image and its recognized text.
type Receipt struct {
	Base
	UserID       uint          `gorm:"not null;index" json:"user_id"`
	FileName     string        `gorm:"not null" json:"file_name"`
	OriginalName string        `json:"original_name"`
	Size         int64         `json:"size"`
	RawText      string        `json:"-"`
	Status       ReceiptStatus `gorm:"not null;default:pending" json:"status"`
}
