package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ivanoskov/finance_tracker/internal/model"
)

// MemoryRepository хранит данные в памяти процесса (локальный запуск и тесты)
type MemoryRepository struct {
	mu           sync.RWMutex
	categories   map[string]model.Category
	transactions map[string]model.Transaction
	budgets      map[string]model.Budget
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		categories:   make(map[string]model.Category),
		transactions: make(map[string]model.Transaction),
		budgets:      make(map[string]model.Budget),
	}
}

func (r *MemoryRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *MemoryRepository) GetCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	categories := make([]model.Category, 0)
	for _, c := range r.categories {
		if c.UserID == userID {
			categories = append(categories, c)
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].CreatedAt.Before(categories[j].CreatedAt)
	})
	return categories, nil
}

func (r *MemoryRepository) DeleteCategory(ctx context.Context, id string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || c.UserID != userID {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	transaction.GenerateID()
	r.transactions[transaction.ID] = *transaction
	return nil
}

func (r *MemoryRepository) UpdateTransaction(ctx context.Context, transaction *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return fmt.Errorf("transaction %s: %w", transaction.ID, ErrNotFound)
	}
	r.transactions[transaction.ID] = *transaction
	return nil
}

func (r *MemoryRepository) GetTransactions(ctx context.Context, userID int64, filter model.TransactionFilter) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	transactions := make([]model.Transaction, 0)
	for _, t := range r.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		transactions = append(transactions, t)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].Date.Equal(transactions[j].Date.Time) {
			return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
		}
		return transactions[i].Date.After(transactions[j].Date.Time)
	})
	if filter.Limit > 0 && len(transactions) > filter.Limit {
		transactions = transactions[:filter.Limit]
	}
	return transactions, nil
}

func (r *MemoryRepository) CurrentTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	return r.GetTransactions(ctx, userID, model.TransactionFilter{})
}

func (r *MemoryRepository) DeleteTransaction(ctx context.Context, id string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok || t.UserID != userID {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	delete(r.transactions, id)
	return nil
}

func (r *MemoryRepository) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := budgetKey(budget.UserID, budget.Category)
	if existing, ok := r.budgets[key]; ok {
		budget.ID = existing.ID
		budget.CreatedAt = existing.CreatedAt
	}
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now()
	}
	r.budgets[key] = *budget
	return nil
}

func (r *MemoryRepository) GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	budgets := make([]model.Budget, 0)
	for _, b := range r.budgets {
		if b.UserID == userID {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (r *MemoryRepository) DeleteBudget(ctx context.Context, category string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := budgetKey(userID, category)
	if _, ok := r.budgets[key]; !ok {
		return fmt.Errorf("budget %s: %w", category, ErrNotFound)
	}
	delete(r.budgets, key)
	return nil
}

func budgetKey(userID int64, category string) string {
	return fmt.Sprintf("%d/%s", userID, strings.ToLower(category))
}
