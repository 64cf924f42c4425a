package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/model"
	log "github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	categoriesTable   = "categories"
	transactionsTable = "transactions"
	budgetsTable      = "budgets"
)

type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

func (r *SupabaseRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	log.Debugf("Creating category: %+v", category)
	data, _, err := r.client.From(categoriesTable).Insert(category, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	var created []model.Category
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created category: %w", err)
	}
	if len(created) > 0 {
		category.ID = created[0].ID
		category.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) GetCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	data, _, err := r.client.From(categoriesTable).
		Select("*", "", false).
		Eq("user_id", userKey(userID)).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	var categories []model.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}
	return categories, nil
}

func (r *SupabaseRepository) DeleteCategory(ctx context.Context, id string, userID int64) error {
	_, _, err := r.client.From(categoriesTable).
		Delete("", "").
		Eq("id", id).
		Eq("user_id", userKey(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}

func (r *SupabaseRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	log.Debugf("Creating transaction: %+v", transaction)
	data, _, err := r.client.From(transactionsTable).Insert(transaction, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	var created []model.Transaction
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created transaction: %w", err)
	}
	if len(created) > 0 {
		transaction.ID = created[0].ID
		transaction.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) UpdateTransaction(ctx context.Context, transaction *model.Transaction) error {
	data, _, err := r.client.From(transactionsTable).
		Update(transaction, "representation", "").
		Eq("id", transaction.ID).
		Eq("user_id", userKey(transaction.UserID)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", transaction.ID, err)
	}

	var updated []model.Transaction
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("failed to parse updated transaction: %w", err)
	}
	if len(updated) == 0 {
		return fmt.Errorf("transaction %s: %w", transaction.ID, ErrNotFound)
	}
	return nil
}

func (r *SupabaseRepository) GetTransactions(ctx context.Context, userID int64, filter model.TransactionFilter) ([]model.Transaction, error) {
	query := r.client.From(transactionsTable).
		Select("*", "", false).
		Eq("user_id", userKey(userID))

	if filter.StartDate != nil {
		query = query.Gte("date", filter.StartDate.Format(time.RFC3339))
	}
	if filter.EndDate != nil {
		query = query.Lte("date", filter.EndDate.Format(time.RFC3339))
	}
	if filter.Type != "" {
		query = query.Eq("type", string(filter.Type))
	}

	// Сначала новые
	query = query.Order("date", &postgrest.OrderOpts{Ascending: false})

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit, "")
	}

	data, count, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	log.Debugf("Got %d transactions for user %d", count, userID)

	var transactions []model.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}
	return transactions, nil
}

func (r *SupabaseRepository) CurrentTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	return r.GetTransactions(ctx, userID, model.TransactionFilter{})
}

func (r *SupabaseRepository) DeleteTransaction(ctx context.Context, id string, userID int64) error {
	_, _, err := r.client.From(transactionsTable).
		Delete("", "").
		Eq("id", id).
		Eq("user_id", userKey(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return nil
}

// UpsertBudget создает или заменяет бюджет категории (уникальность по user_id, category)
func (r *SupabaseRepository) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	data, _, err := r.client.From(budgetsTable).
		Insert(budget, true, "user_id,category", "representation", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	var saved []model.Budget
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("failed to parse saved budget: %w", err)
	}
	if len(saved) > 0 {
		budget.ID = saved[0].ID
		budget.CreatedAt = saved[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	data, _, err := r.client.From(budgetsTable).
		Select("*", "", false).
		Eq("user_id", userKey(userID)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}

	var budgets []model.Budget
	if err := json.Unmarshal(data, &budgets); err != nil {
		return nil, fmt.Errorf("failed to parse budgets: %w", err)
	}
	return budgets, nil
}

func (r *SupabaseRepository) DeleteBudget(ctx context.Context, category string, userID int64) error {
	_, _, err := r.client.From(budgetsTable).
		Delete("", "").
		Eq("category", category).
		Eq("user_id", userKey(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", category, err)
	}
	return nil
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
