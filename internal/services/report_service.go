package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/models"
)

// reportService produces aggregated spending reports.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

type categoryRow struct {
	CategoryID *uint
	Name       *string
	Total      decimal.Decimal
	Count      int64
}

// Summary aggregates the user's spending in [from, to] grouped by category.
// Percentages are computed against the window total.
func (s *reportService) Summary(userID uint, from, to time.Time) (*SpendingSummary, error) {
	if from.After(to) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from date must not be after to date")
	}

	var rows []categoryRow
	err := s.db.Model(&models.Expense{}).
		Select("expenses.category_id, categories.name, COALESCE(SUM(expenses.amount), 0) AS total, COUNT(expenses.id) AS count").
		Joins("LEFT JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.user_id = ? AND expenses.date BETWEEN ? AND ?", userID, from, to).
		Group("expenses.category_id, categories.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &SpendingSummary{
		From:       from,
		To:         to,
		Total:      decimal.Zero,
		Categories: make([]CategorySpend, 0, len(rows)),
	}
	for _, row := range rows {
		summary.Total = summary.Total.Add(row.Total)
		summary.Count += row.Count
	}

	for _, row := range rows {
		name := "Uncategorized"
		if row.Name != nil && *row.Name != "" {
			name = *row.Name
		}
		spend := CategorySpend{
			CategoryID: row.CategoryID,
			Name:       name,
			Total:      row.Total,
			Count:      row.Count,
		}
		if summary.Total.Sign() > 0 {
			pct, _ := row.Total.Div(summary.Total).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			spend.Percentage = pct
		}
		summary.Categories = append(summary.Categories, spend)
	}

	return summary, nil
}

// ExportExcel renders the user's expenses and category summary for the window
// as an xlsx workbook.
func (s *reportService) ExportExcel(userID uint, from, to time.Time) ([]byte, error) {
	summary, err := s.Summary(userID, from, to)
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := s.db.Preload("Category").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const expenseSheet = "Expenses"
	f.SetSheetName("Sheet1", expenseSheet)

	headers := []string{"Date", "Description", "Category", "Merchant", "Payment Method", "Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(expenseSheet, cell, h)
	}
	for i, expense := range expenses {
		row := i + 2
		categoryName := "Uncategorized"
		if expense.Category != nil {
			categoryName = expense.Category.Name
		}
		paymentMethod := ""
		if expense.PaymentMethod != nil {
			paymentMethod = string(*expense.PaymentMethod)
		}
		f.SetCellValue(expenseSheet, fmt.Sprintf("A%d", row), expense.Date.Format("2006-01-02"))
		f.SetCellValue(expenseSheet, fmt.Sprintf("B%d", row), expense.Description)
		f.SetCellValue(expenseSheet, fmt.Sprintf("C%d", row), categoryName)
		f.SetCellValue(expenseSheet, fmt.Sprintf("D%d", row), expense.Merchant)
		f.SetCellValue(expenseSheet, fmt.Sprintf("E%d", row), paymentMethod)
		amount, _ := expense.Amount.Float64()
		f.SetCellValue(expenseSheet, fmt.Sprintf("F%d", row), amount)
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	f.SetCellValue(summarySheet, "A1", "Period")
	f.SetCellValue(summarySheet, "B1", fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	f.SetCellValue(summarySheet, "A2", "Total Spent")
	total, _ := summary.Total.Float64()
	f.SetCellValue(summarySheet, "B2", total)
	f.SetCellValue(summarySheet, "A3", "Expense Count")
	f.SetCellValue(summarySheet, "B3", summary.Count)

	f.SetCellValue(summarySheet, "A5", "Category")
	f.SetCellValue(summarySheet, "B5", "Total")
	f.SetCellValue(summarySheet, "C5", "Count")
	f.SetCellValue(summarySheet, "D5", "Percentage")
	for i, category := range summary.Categories {
		row := i + 6
		categoryTotal, _ := category.Total.Float64()
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), category.Name)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), categoryTotal)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), category.Count)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), category.Percentage)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}
