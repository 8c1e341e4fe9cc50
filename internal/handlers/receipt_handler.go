package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/services"
)

// ReceiptHandler handles receipt upload and scanning requests.
type ReceiptHandler struct {
	receiptService services.ReceiptServicer
	auditService   services.AuditServicer
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService services.ReceiptServicer, auditService services.AuditServicer) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, auditService: auditService}
}

// ScanReceipt handles receipt upload and field extraction.
// @Summary     Scan a receipt
// @Description Upload a receipt image, run text recognition, and extract candidate expense fields. Extraction results are suggestions the client can edit before creating the expense
// @Tags        receipts
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "Receipt image"
// @Success     200 {object} map[string]interface{} "Stored receipt and extracted fields"
// @Failure     400 {object} ErrorResponse "Missing or oversized file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Receipt scanning disabled"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /receipts/scan [post]
func (h *ReceiptHandler) ScanReceipt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	rec, extraction, err := h.receiptService.ScanReceipt(
		c.Request.Context(), userID, fileHeader.Filename, fileHeader.Size, file,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SCAN_RECEIPT", "receipt", rec.ID, c.ClientIP(),
		map[string]interface{}{"original_name": rec.OriginalName, "status": rec.Status})

	c.JSON(http.StatusOK, gin.H{
		"receipt":    rec,
		"extraction": extraction,
	})
}

// GetReceipt handles retrieving a stored receipt.
// @Summary     Get receipt by ID
// @Description Get a stored receipt's metadata by ID
// @Tags        receipts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Receipt ID"
// @Success     200 {object} models.Receipt "Receipt details"
// @Failure     400 {object} ErrorResponse "Invalid receipt ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Receipt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receiptID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rec, err := h.receiptService.GetReceiptByID(userID, receiptID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receipt": rec})
}
