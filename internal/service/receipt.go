package service

import (
	"context"
	"fmt"

	"github.com/ivanoskov/finance_tracker/internal/invoice"
	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/report"
	log "github.com/sirupsen/logrus"
)

// DraftFromText заполняет черновик расхода по распознанному тексту чека.
// Черновик не сохраняется: пользователь должен подтвердить или исправить его.
func (s *ExpenseTracker) DraftFromText(userID int64, text string) (model.Transaction, invoice.Fields) {
	fields := s.extractor.Extract(text)

	draft := model.Transaction{
		UserID:   userID,
		Type:     model.Expense,
		Category: report.OtherCategory,
		Note:     fields.StoreName,
		Date:     model.NewTimestamp(report.StartOfDay(s.now())),
	}
	if amount, ok := invoice.ParseTotal(fields.Total); ok {
		draft.Amount = amount
	}
	if date, ok := invoice.ParseDate(fields.Date, s.location); ok {
		draft.Date = model.NewTimestamp(date)
	} else if fields.Date != "" {
		log.Debugf("Discarding invalid receipt date %q", fields.Date)
	}

	log.Debugf("Receipt draft for user %d: store=%q date=%q total=%q",
		userID, fields.StoreName, fields.Date, fields.Total)
	return draft, fields
}

// ScanReceipt распознает фото чека и возвращает черновик расхода
func (s *ExpenseTracker) ScanReceipt(ctx context.Context, userID int64, image []byte, mimeType string) (model.Transaction, invoice.Fields, error) {
	if s.recognizer == nil {
		return model.Transaction{}, invoice.Fields{}, ErrOCRDisabled
	}
	text, err := s.recognizer.Recognize(ctx, image, mimeType)
	if err != nil {
		return model.Transaction{}, invoice.Fields{}, fmt.Errorf("failed to recognize receipt: %w", err)
	}
	draft, fields := s.DraftFromText(userID, text)
	return draft, fields, nil
}
