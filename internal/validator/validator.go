// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("notification_kind", validateNotificationKind)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("threshold", validateThreshold)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "weekly", "monthly", "quarterly", "yearly":
		return true
	}
	return false
}

func validateNotificationKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "budget_warning", "budget_exceeded", "expense_reminder",
		"weekly_summary", "monthly_summary", "achievement", "system":
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "CASH", "CREDIT_CARD", "DEBIT_CARD", "UPI", "WALLET", "NET_BANKING":
		return true
	}
	return false
}

func validateThreshold(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= 1 && n <= 100
}
