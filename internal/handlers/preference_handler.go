package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/services"
)

// PreferenceHandler handles notification preference requests.
type PreferenceHandler struct {
	preferenceService services.PreferenceServicer
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(preferenceService services.PreferenceServicer) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// UpdatePreferencesRequest represents the request payload for updating
// notification preferences. All fields are optional; absent fields are left
// unchanged.
type UpdatePreferencesRequest struct {
	BudgetAlerts     *bool `json:"budget_alerts"`
	BudgetThreshold  *int  `json:"budget_threshold" binding:"omitempty,threshold"`
	EmailEnabled     *bool `json:"email_enabled"`
	WeeklyDigest     *bool `json:"weekly_digest"`
	MonthlyReport    *bool `json:"monthly_report"`
	ExpenseReminders *bool `json:"expense_reminders"`
}

// GetPreferences handles retrieving the user's notification preferences.
// @Summary     Get notification preferences
// @Description Get the user's notification preferences, with defaults for users who never saved any
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.NotificationPreference "Notification preferences"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences [get]
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pref, err := h.preferenceService.GetPreferences(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}

// UpdatePreferences handles updating the user's notification preferences.
// @Summary     Update notification preferences
// @Description Update the user's notification preferences
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePreferencesRequest true "Preference changes"
// @Success     200 {object} models.NotificationPreference "Updated preferences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences [put]
func (h *PreferenceHandler) UpdatePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	pref, err := h.preferenceService.UpdatePreferences(userID, services.PreferenceUpdate{
		BudgetAlerts:     req.BudgetAlerts,
		BudgetThreshold:  req.BudgetThreshold,
		EmailEnabled:     req.EmailEnabled,
		WeeklyDigest:     req.WeeklyDigest,
		MonthlyReport:    req.MonthlyReport,
		ExpenseReminders: req.ExpenseReminders,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}
