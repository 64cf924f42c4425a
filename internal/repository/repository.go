package repository

import (
	"context"
	"errors"

	"github.com/ivanoskov/finance_tracker/internal/model"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	// Категории
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategories(ctx context.Context, userID int64) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id string, userID int64) error

	// Транзакции
	CreateTransaction(ctx context.Context, transaction *model.Transaction) error
	UpdateTransaction(ctx context.Context, transaction *model.Transaction) error
	GetTransactions(ctx context.Context, userID int64, filter model.TransactionFilter) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string, userID int64) error

	// Бюджеты
	UpsertBudget(ctx context.Context, budget *model.Budget) error
	GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, category string, userID int64) error
}

// TransactionSource отдает текущий снимок транзакций пользователя
type TransactionSource interface {
	CurrentTransactions(ctx context.Context, userID int64) ([]model.Transaction, error)
}
