package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/ocr"
	"github.com/ivanoskov/finance_tracker/internal/report"
	"github.com/ivanoskov/finance_tracker/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID int64 = 42

var location, _ = time.LoadLocation("Asia/Ho_Chi_Minh")

func setup(t *testing.T, opts ...Option) (*ExpenseTracker, *repository.MemoryRepository, *MockClock) {
	repo := repository.NewMemoryRepository()
	clock := &MockClock{FixedNow: time.Date(2024, time.March, 20, 15, 0, 0, 0, location)}
	opts = append([]Option{WithClock(clock), WithLocation(location)}, opts...)
	return NewExpenseTracker(repo, opts...), repo, clock
}

func addAt(t *testing.T, s *ExpenseTracker, txType model.TransactionType, amount int64, category string, date time.Time) {
	t.Helper()
	require.NoError(t, s.AddTransaction(context.Background(), &model.Transaction{
		UserID:   userID,
		Type:     txType,
		Amount:   amount,
		Category: category,
		Date:     model.NewTimestamp(date),
	}))
}

func TestAddTransaction_DefaultsDateToToday(t *testing.T) {
	s, repo, clock := setup(t)
	ctx := context.Background()

	tr := &model.Transaction{UserID: userID, Type: model.Expense, Amount: 30000, Category: "Food"}
	require.NoError(t, s.AddTransaction(ctx, tr))

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, report.StartOfDay(clock.Now()), tr.Date.Time)
	assert.Equal(t, clock.Now(), tr.CreatedAt)

	stored, err := repo.CurrentTransactions(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAddTransaction_Invalid(t *testing.T) {
	s, _, _ := setup(t)

	err := s.AddTransaction(context.Background(), &model.Transaction{UserID: userID, Type: model.Expense, Amount: -5})

	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()
	tr := &model.Transaction{UserID: userID, Type: model.Expense, Amount: 100, Category: "Food"}
	require.NoError(t, s.AddTransaction(ctx, tr))

	tr.Amount = 250
	tr.Wallet = "Bank"
	require.NoError(t, s.UpdateTransaction(ctx, tr))

	recent, err := s.GetRecentTransactions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(250), recent[0].Amount)
	assert.Equal(t, "Bank", recent[0].Wallet)

	require.NoError(t, s.DeleteTransaction(ctx, tr.ID, userID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, tr.ID, userID), repository.ErrNotFound)
}

func TestCategories_CustomShadowsDefault(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCategory(ctx, &model.Category{UserID: userID, Name: " Food ", Type: model.Expense, Color: "#000000"}))
	require.NoError(t, s.CreateCategory(ctx, &model.Category{UserID: userID, Name: "Pets", Type: model.Expense}))
	assert.ErrorIs(t, s.CreateCategory(ctx, &model.Category{UserID: userID, Name: "  ", Type: model.Expense}), model.ErrInvalidCategory)
	assert.ErrorIs(t, s.CreateCategory(ctx, &model.Category{UserID: userID, Name: "X", Type: "loan"}), model.ErrInvalidCategory)
	assert.ErrorIs(t, s.CreateCategory(ctx, &model.Category{UserID: userID, Name: "Coffee: Tea", Type: model.Expense}), model.ErrInvalidCategory)
	assert.ErrorIs(t, s.CreateCategory(ctx, &model.Category{
		UserID: userID,
		Name:   strings.Repeat("ă", model.MaxCategoryNameLength/2+1),
		Type:   model.Expense,
	}), model.ErrInvalidCategory)
	require.NoError(t, s.CreateCategory(ctx, &model.Category{
		UserID: userID,
		Name:   strings.Repeat("ă", model.MaxCategoryNameLength/2),
		Type:   model.Income,
	}))

	categories, err := s.GetCategories(ctx, userID)
	require.NoError(t, err)

	assert.Len(t, categories, len(model.DefaultCategories)+2)
	food := categories[0]
	assert.Equal(t, "Food", food.Name)
	assert.True(t, food.Custom)
	assert.Equal(t, "#000000", food.Color)
}

func TestBudgets(t *testing.T) {
	s, _, clock := setup(t)
	ctx := context.Background()
	now := clock.Now()

	_, err := s.SetBudget(ctx, userID, "Food", 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = s.SetBudget(ctx, userID, "Food", 500000)
	require.NoError(t, err)
	_, err = s.SetBudget(ctx, userID, "Food", 300000)
	require.NoError(t, err)

	addAt(t, s, model.Expense, 120000, "Food", now.AddDate(0, 0, -1))
	addAt(t, s, model.Expense, 200000, "Food", now)
	addAt(t, s, model.Expense, 999999, "Food", now.AddDate(0, -1, 0))
	addAt(t, s, model.Expense, 50000, "Transport", now)

	statuses, err := s.GetBudgetStatuses(ctx, userID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, int64(300000), statuses[0].Budget.Limit)
	assert.Equal(t, int64(320000), statuses[0].Spent)
	assert.Equal(t, int64(-20000), statuses[0].Remaining)

	require.NoError(t, s.DeleteBudget(ctx, userID, "Food"))
	statuses, err = s.GetBudgetStatuses(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestBudgets_CategoryNameIsCaseInsensitive(t *testing.T) {
	s, _, clock := setup(t)
	ctx := context.Background()

	budget, err := s.SetBudget(ctx, userID, "food", 300000)
	require.NoError(t, err)
	assert.Equal(t, "Food", budget.Category)

	addAt(t, s, model.Expense, 120000, "Food", clock.Now())

	statuses, err := s.GetBudgetStatuses(ctx, userID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "Food", statuses[0].Budget.Category)
	assert.Equal(t, int64(120000), statuses[0].Spent)
	assert.Equal(t, int64(180000), statuses[0].Remaining)

	require.NoError(t, s.DeleteBudget(ctx, userID, "FOOD"))
	statuses, err = s.GetBudgetStatuses(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestGetWeeklyReport(t *testing.T) {
	s, _, clock := setup(t)
	ctx := context.Background()
	now := clock.Now()

	addAt(t, s, model.Expense, 100000, "Food", now.AddDate(0, 0, -8))
	addAt(t, s, model.Expense, 120000, "Food", now.AddDate(0, 0, -1))
	addAt(t, s, model.Expense, 30000, "Transport", now)
	addAt(t, s, model.Income, 1000000, "Salary", now.AddDate(0, 0, -2))

	data, week, err := s.GetWeeklyReport(ctx, userID, 0)
	require.NoError(t, err)

	assert.Equal(t, "14/03 – 20/03", week.Label)
	assert.Equal(t, int64(150000), data.TotalExpense)
	assert.Equal(t, int64(1000000), data.TotalIncome)
	assert.Equal(t, int64(850000), data.Balance)
	assert.Equal(t, report.TrendUp, data.Trend)
	assert.Equal(t, "+50%", data.Comparison)
	require.Len(t, data.Categories, 2)
	assert.Equal(t, "Food", data.Categories[0].Name)
	assert.Equal(t, 80, data.Categories[0].Percent)
	assert.Equal(t, "#FF6B6B", data.Categories[0].Color)

	previousWeek, _, err := s.GetWeeklyReport(ctx, userID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), previousWeek.TotalExpense)
	assert.Equal(t, report.TrendStable, previousWeek.Trend)
}

func TestGetMonthlyReportAndBalance(t *testing.T) {
	s, _, clock := setup(t)
	ctx := context.Background()
	now := clock.Now()

	addAt(t, s, model.Expense, 400, "Food", now.AddDate(0, -1, 0))
	addAt(t, s, model.Expense, 300, "Food", now)
	addAt(t, s, model.Income, 1000, "Salary", now)

	data, err := s.GetMonthlyReport(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), data.TotalExpense)
	assert.Equal(t, report.TrendDown, data.Trend)
	assert.Equal(t, "-25%", data.Comparison)

	balance, err := s.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)
}

func TestDraftFromText(t *testing.T) {
	s, _, clock := setup(t)

	draft, fields := s.DraftFromText(userID, "Mini Mart\nNgày 05/03/2024\nBread 20.000\nTotal\n50,000")

	assert.Equal(t, "Mini Mart", fields.StoreName)
	assert.Equal(t, model.Expense, draft.Type)
	assert.Equal(t, int64(50000), draft.Amount)
	assert.Equal(t, "Mini Mart", draft.Note)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, location), draft.Date.Time)

	draft, _ = s.DraftFromText(userID, "Shop\n31/02/2024")
	assert.Equal(t, report.StartOfDay(clock.Now()), draft.Date.Time)

	draft, fields = s.DraftFromText(userID, "")
	assert.Equal(t, int64(0), draft.Amount)
	assert.Empty(t, fields.Total)
}

func TestScanReceipt(t *testing.T) {
	s, _, _ := setup(t)
	_, _, err := s.ScanReceipt(context.Background(), userID, []byte{1}, "image/jpeg")
	assert.ErrorIs(t, err, ErrOCRDisabled)

	s, _, _ = setup(t, WithRecognizer(&stubRecognizer{text: "Coffee\nTotal: 45.000"}))
	draft, fields, err := s.ScanReceipt(context.Background(), userID, []byte{1}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "45000", fields.Total)
	assert.Equal(t, int64(45000), draft.Amount)

	s, _, _ = setup(t, WithRecognizer(&stubRecognizer{err: ocr.ErrNoText}))
	_, _, err = s.ScanReceipt(context.Background(), userID, []byte{1}, "image/jpeg")
	assert.True(t, errors.Is(err, ocr.ErrNoText))
}
