package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType определяет тип операции
type TransactionType string

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrMissingDate   = errors.New("missing transaction date")
)

type Transaction struct {
	ID         string          `json:"id"`
	UserID     int64           `json:"user_id"`
	Type       TransactionType `json:"type"`
	Amount     int64           `json:"amount"`
	Category   string          `json:"category"`
	Note       string          `json:"note,omitempty"`
	Date       Timestamp       `json:"date"`
	Wallet     string          `json:"wallet,omitempty"`
	Recurrence string          `json:"recurrence,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// GenerateID генерирует новый UUID для транзакции, если он еще не установлен
func (t *Transaction) GenerateID() {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
}

// Validate проверяет поля, которые вводит пользователь
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.Amount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, t.Amount)
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      TransactionType
	Limit     int
}
