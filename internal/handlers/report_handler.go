package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/services"
)

// ReportHandler handles spending report requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// reportWindow reads the from/to query parameters, defaulting to the current
// calendar month.
func reportWindow(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be a YYYY-MM-DD date")
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be a YYYY-MM-DD date")
		}
		to = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}

// GetSummary handles retrieving an aggregated spending summary.
// @Summary     Get spending summary
// @Description Get total spending and per-category breakdown for a date window (defaults to the current month)
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Window start (YYYY-MM-DD)"
// @Param       to   query string false "Window end (YYYY-MM-DD)"
// @Success     200 {object} services.SpendingSummary "Spending summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := reportWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Summary(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// ExportReport handles exporting expenses as an Excel workbook.
// @Summary     Export spending report
// @Description Download the expenses and category summary for a date window as an xlsx file
// @Tags        reports
// @Accept      json
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       from query string false "Window start (YYYY-MM-DD)"
// @Param       to   query string false "Window end (YYYY-MM-DD)"
// @Success     200 {file} file "Excel workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/export [get]
func (h *ReportHandler) ExportReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := reportWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.reportService.ExportExcel(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileName := fmt.Sprintf("expenses_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
