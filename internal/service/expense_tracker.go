package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/invoice"
	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/ocr"
	"github.com/ivanoskov/finance_tracker/internal/report"
	"github.com/ivanoskov/finance_tracker/internal/repository"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidLimit = errors.New("budget limit must be positive")
	ErrOCRDisabled  = errors.New("receipt recognition is not configured")
)

// Repository определяет интерфейс для работы с хранилищем данных
type Repository interface {
	repository.Repository
	repository.TransactionSource
}

// ExpenseTracker предоставляет методы для работы с финансовыми данными
type ExpenseTracker struct {
	repo       Repository
	extractor  *invoice.Extractor
	recognizer ocr.Recognizer
	clock      Clock
	location   *time.Location
}

type Option func(*ExpenseTracker)

func WithRecognizer(r ocr.Recognizer) Option {
	return func(s *ExpenseTracker) { s.recognizer = r }
}

func WithExtractor(e *invoice.Extractor) Option {
	return func(s *ExpenseTracker) { s.extractor = e }
}

func WithClock(c Clock) Option {
	return func(s *ExpenseTracker) { s.clock = c }
}

func WithLocation(loc *time.Location) Option {
	return func(s *ExpenseTracker) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewExpenseTracker создает новый экземпляр ExpenseTracker
func NewExpenseTracker(repo Repository, opts ...Option) *ExpenseTracker {
	s := &ExpenseTracker{
		repo:      repo,
		extractor: invoice.New(),
		clock:     SystemClock{},
		location:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ExpenseTracker) now() time.Time {
	return s.clock.Now().In(s.location)
}

func (s *ExpenseTracker) Location() *time.Location {
	return s.location
}

// AddTransaction сохраняет новую транзакцию. Без даты используется сегодняшний день.
func (s *ExpenseTracker) AddTransaction(ctx context.Context, transaction *model.Transaction) error {
	now := s.now()
	if transaction.Date.IsZero() {
		transaction.Date = model.NewTimestamp(report.StartOfDay(now))
	}
	if err := transaction.Validate(); err != nil {
		return err
	}
	transaction.GenerateID()
	transaction.CreatedAt = now

	if err := s.repo.CreateTransaction(ctx, transaction); err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}
	log.Infof("Transaction %s saved for user %d: %s %d (%s)",
		transaction.ID, transaction.UserID, transaction.Type, transaction.Amount, transaction.Category)
	return nil
}

func (s *ExpenseTracker) UpdateTransaction(ctx context.Context, transaction *model.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateTransaction(ctx, transaction); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (s *ExpenseTracker) DeleteTransaction(ctx context.Context, transactionID string, userID int64) error {
	return s.repo.DeleteTransaction(ctx, transactionID, userID)
}

func (s *ExpenseTracker) GetRecentTransactions(ctx context.Context, userID int64, limit int) ([]model.Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, model.TransactionFilter{Limit: limit})
}

// GetCategories возвращает встроенные категории вместе с пользовательскими
func (s *ExpenseTracker) GetCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	custom, err := s.repo.GetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return model.MergeCategories(model.DefaultCategories, custom), nil
}

func (s *ExpenseTracker) CreateCategory(ctx context.Context, category *model.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return fmt.Errorf("%w: empty name", model.ErrInvalidCategory)
	}
	if len(category.Name) > model.MaxCategoryNameLength {
		return fmt.Errorf("%w: name longer than %d bytes", model.ErrInvalidCategory, model.MaxCategoryNameLength)
	}
	if strings.Contains(category.Name, ":") {
		return fmt.Errorf("%w: name contains ':'", model.ErrInvalidCategory)
	}
	if !category.Type.Valid() {
		return fmt.Errorf("%w: type %q", model.ErrInvalidCategory, category.Type)
	}
	category.CreatedAt = s.now()
	return s.repo.CreateCategory(ctx, category)
}

func (s *ExpenseTracker) DeleteCategory(ctx context.Context, categoryID string, userID int64) error {
	return s.repo.DeleteCategory(ctx, categoryID, userID)
}

// SetBudget создает или обновляет лимит расходов по категории
func (s *ExpenseTracker) SetBudget(ctx context.Context, userID int64, category string, limit int64) (*model.Budget, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: empty name", model.ErrInvalidCategory)
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	category, err := s.canonicalCategory(ctx, userID, model.Expense, category)
	if err != nil {
		return nil, err
	}
	budget := &model.Budget{
		UserID:    userID,
		Category:  category,
		Limit:     limit,
		CreatedAt: s.now(),
	}
	if err := s.repo.UpsertBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	return budget, nil
}

func (s *ExpenseTracker) DeleteBudget(ctx context.Context, userID int64, category string) error {
	category, err := s.canonicalCategory(ctx, userID, model.Expense, strings.TrimSpace(category))
	if err != nil {
		return err
	}
	return s.repo.DeleteBudget(ctx, category, userID)
}

// canonicalCategory возвращает название известной категории в том написании,
// в котором оно хранится у транзакций. Неизвестные названия не меняются.
func (s *ExpenseTracker) canonicalCategory(ctx context.Context, userID int64, t model.TransactionType, name string) (string, error) {
	categories, err := s.GetCategories(ctx, userID)
	if err != nil {
		return "", err
	}
	if c, ok := findCategory(categories, t, name); ok {
		return c.Name, nil
	}
	return name, nil
}

// GetBudgetStatuses считает потраченное и остаток по каждому бюджету за текущий месяц
func (s *ExpenseTracker) GetBudgetStatuses(ctx context.Context, userID int64) ([]model.BudgetStatus, error) {
	budgets, err := s.repo.GetBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}
	month := report.MonthWindow(s.now())
	transactions, err := s.transactionsBetween(ctx, userID, month.Start, month.End)
	if err != nil {
		return nil, err
	}
	return report.BudgetUsage(budgets, transactions, month), nil
}

// GetReport строит отчет за период, сравнивая расходы с предыдущим периодом
func (s *ExpenseTracker) GetReport(ctx context.Context, userID int64, window report.Window, previous *report.Window) (report.ReportData, error) {
	start := window.Start
	if previous != nil && previous.Start.Before(start) {
		start = previous.Start
	}
	end := window.End
	if previous != nil && previous.End.After(end) {
		end = previous.End
	}

	transactions, err := s.transactionsBetween(ctx, userID, start, end)
	if err != nil {
		return report.ReportData{}, err
	}
	palette, err := s.palette(ctx, userID)
	if err != nil {
		return report.ReportData{}, err
	}

	data := report.BuildReport(transactions, window, previous, palette)
	log.Debugf("Report for user %d (%s - %s): expense=%d income=%d trend=%s %s",
		userID, window.Start.Format(time.DateOnly), window.End.Format(time.DateOnly),
		data.TotalExpense, data.TotalIncome, data.Trend, data.Comparison)
	return data, nil
}

// RecentWeeks возвращает последние недели для выбора периода, начиная с текущей
func (s *ExpenseTracker) RecentWeeks(count int) []report.WeekPeriod {
	return report.RecentWeeks(s.now(), count)
}

// GetWeeklyReport строит отчет за неделю с индексом weekIndex (0 означает текущую)
func (s *ExpenseTracker) GetWeeklyReport(ctx context.Context, userID int64, weekIndex int) (report.ReportData, report.WeekPeriod, error) {
	if weekIndex < 0 {
		weekIndex = 0
	}
	weeks := s.RecentWeeks(weekIndex + 2)
	week, previous := weeks[weekIndex], weeks[weekIndex+1].Window
	data, err := s.GetReport(ctx, userID, week.Window, &previous)
	return data, week, err
}

// GetMonthlyReport строит отчет за текущий календарный месяц
func (s *ExpenseTracker) GetMonthlyReport(ctx context.Context, userID int64) (report.ReportData, error) {
	month := report.MonthWindow(s.now())
	previous := report.MonthWindow(month.Start.Add(-time.Nanosecond))
	return s.GetReport(ctx, userID, month, &previous)
}

// GetDailyTotals группирует доходы и расходы периода по дням
func (s *ExpenseTracker) GetDailyTotals(ctx context.Context, userID int64, window report.Window) ([]report.DailyTotal, error) {
	transactions, err := s.transactionsBetween(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return report.DailyTotals(transactions, window), nil
}

func (s *ExpenseTracker) transactionsBetween(ctx context.Context, userID int64, start, end time.Time) ([]model.Transaction, error) {
	transactions, err := s.repo.GetTransactions(ctx, userID, model.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	log.Debugf("Got %d transactions for user %d between %s and %s",
		len(transactions), userID, start.Format(time.DateOnly), end.Format(time.DateOnly))
	return transactions, nil
}

func (s *ExpenseTracker) palette(ctx context.Context, userID int64) (report.Palette, error) {
	categories, err := s.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.NewPalette(model.FilterCategories(categories, model.Expense)), nil
}

// GetBalance возвращает баланс по всем транзакциям пользователя
func (s *ExpenseTracker) GetBalance(ctx context.Context, userID int64) (int64, error) {
	transactions, err := s.repo.CurrentTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get transactions: %w", err)
	}
	return report.TotalByType(transactions, model.Income) - report.TotalByType(transactions, model.Expense), nil
}
