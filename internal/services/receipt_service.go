package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Wahiduz89/spendsmart/internal/config"
	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/logger"
	"github.com/Wahiduz89/spendsmart/internal/models"
	"github.com/Wahiduz89/spendsmart/internal/receipt"
)

// receiptService handles receipt upload, text recognition, and field
// extraction.
type receiptService struct {
	db         *gorm.DB
	cfg        *config.Config
	store      receipt.BlobStore
	recognizer receipt.TextRecognizer
}

// NewReceiptService creates a new ReceiptServicer.
func NewReceiptService(db *gorm.DB, cfg *config.Config, store receipt.BlobStore, recognizer receipt.TextRecognizer) ReceiptServicer {
	return &receiptService{db: db, cfg: cfg, store: store, recognizer: recognizer}
}

// ScanReceipt stores the uploaded file, runs text recognition, and extracts
// candidate expense fields. Recognition failure is not an error to the
// caller: the receipt is kept with a failed status and an empty extraction
// so the user can still enter the expense manually.
func (s *receiptService) ScanReceipt(ctx context.Context, userID uint, originalName string, size int64, r io.Reader) (*models.Receipt, *receipt.Extraction, error) {
	if !s.cfg.OCREnabled {
		return nil, nil, apperrors.ErrOCRDisabled
	}
	if size > s.cfg.MaxUploadSize {
		return nil, nil, apperrors.ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	fileName := uuid.New().String() + ext

	path, err := s.store.Save(fileName, io.LimitReader(r, s.cfg.MaxUploadSize))
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rec := &models.Receipt{
		UserID:       userID,
		FileName:     fileName,
		OriginalName: filepath.Base(originalName),
		Size:         size,
		Status:       models.ReceiptPending,
	}
	if err := s.db.Create(rec).Error; err != nil {
		s.store.Remove(fileName)
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rawText, recErr := s.recognizer.Recognize(ctx, path)
	if recErr != nil {
		logger.Get().Warnw("receipt text recognition failed",
			"receipt_id", rec.ID,
			"user_id", userID,
			"error", recErr,
		)
		rec.Status = models.ReceiptFailed
		if err := s.db.Model(rec).Update("status", models.ReceiptFailed).Error; err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return rec, &receipt.Extraction{}, nil
	}

	extraction := receipt.Extract(rawText)

	rec.RawText = rawText
	rec.Status = models.ReceiptExtracted
	if err := s.db.Model(rec).Updates(map[string]interface{}{
		"raw_text": rawText,
		"status":   models.ReceiptExtracted,
	}).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return rec, extraction, nil
}

// GetReceiptByID returns a receipt by ID if it belongs to the user.
func (s *receiptService) GetReceiptByID(userID, receiptID uint) (*models.Receipt, error) {
	var rec models.Receipt
	if err := s.db.Where("id = ? AND user_id = ?", receiptID, userID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReceiptNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rec, nil
}
