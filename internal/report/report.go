// Package report aggregates transactions into totals, category breakdowns
// and trend comparisons. All functions are pure and work on data that is
// already in memory.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/model"
)

// Trend directions
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// OtherCategory is used for expenses recorded without a category.
const OtherCategory = "Other"

// Window is a date range inclusive on both ends.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// CategoryShare is one entry of a category breakdown.
type CategoryShare struct {
	Name    string
	Amount  int64
	Percent int
	Color   string
}

// ReportData summarises a window of transactions.
type ReportData struct {
	Window          Window
	TotalExpense    int64
	TotalIncome     int64
	Balance         int64
	Categories      []CategoryShare
	Trend           string
	Comparison      string
	PreviousExpense int64
}

// FilterByPeriod returns the transactions dated within the window, in input order.
func FilterByPeriod(transactions []model.Transaction, window Window) []model.Transaction {
	filtered := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if window.Contains(t.Date.Time) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// TotalByType sums the amounts of transactions of the given type.
func TotalByType(transactions []model.Transaction, txType model.TransactionType) int64 {
	var total int64
	for _, t := range transactions {
		if t.Type == txType {
			total += t.Amount
		}
	}
	return total
}

// CategoryBreakdown groups expenses by category and sorts the groups by
// amount, largest first. Percentages are rounded per category and may not
// add up to exactly 100.
func CategoryBreakdown(transactions []model.Transaction, palette Palette) []CategoryShare {
	totalExpense := TotalByType(transactions, model.Expense)
	if totalExpense == 0 {
		return []CategoryShare{}
	}

	shares := make([]CategoryShare, 0)
	index := make(map[string]int)
	for _, t := range transactions {
		if t.Type != model.Expense {
			continue
		}
		name := t.Category
		if name == "" {
			name = OtherCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(shares)
			index[name] = i
			shares = append(shares, CategoryShare{Name: name, Color: palette.Color(name)})
		}
		shares[i].Amount += t.Amount
	}

	for i := range shares {
		shares[i].Percent = int(math.Round(float64(shares[i].Amount) / float64(totalExpense) * 100))
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount > shares[j].Amount
	})
	return shares
}

// BuildReport computes the report for window. When previous is set and had
// any expenses, the trend compares the expense totals of both windows.
func BuildReport(transactions []model.Transaction, window Window, previous *Window, palette Palette) ReportData {
	current := FilterByPeriod(transactions, window)

	data := ReportData{
		Window:       window,
		TotalExpense: TotalByType(current, model.Expense),
		TotalIncome:  TotalByType(current, model.Income),
		Categories:   CategoryBreakdown(current, palette),
		Trend:        TrendStable,
		Comparison:   "0%",
	}
	data.Balance = data.TotalIncome - data.TotalExpense

	if previous == nil {
		return data
	}

	data.PreviousExpense = TotalByType(FilterByPeriod(transactions, *previous), model.Expense)
	if data.PreviousExpense > 0 {
		change := float64(data.TotalExpense-data.PreviousExpense) / float64(data.PreviousExpense) * 100
		data.Trend = TrendDown
		if change > 0 {
			data.Trend = TrendUp
		}
		data.Comparison = formatChange(change)
	}
	return data
}

// PreviousWindow returns the window of equal length ending right before w.
func PreviousWindow(w Window) Window {
	length := w.End.Sub(w.Start)
	end := w.Start.Add(-time.Nanosecond)
	return Window{Start: end.Add(-length), End: end}
}

// MonthWindow returns the calendar month containing t.
func MonthWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// BudgetUsage computes spent and remaining amounts of each budget within
// month. Categories are matched case-insensitively.
func BudgetUsage(budgets []model.Budget, transactions []model.Transaction, month Window) []model.BudgetStatus {
	spent := make(map[string]int64)
	for _, t := range FilterByPeriod(transactions, month) {
		if t.Type == model.Expense {
			spent[strings.ToLower(t.Category)] += t.Amount
		}
	}

	statuses := make([]model.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		used := spent[strings.ToLower(b.Category)]
		statuses = append(statuses, model.BudgetStatus{
			Budget:    b,
			Spent:     used,
			Remaining: b.Limit - used,
		})
	}
	return statuses
}

func formatChange(change float64) string {
	rounded := int64(math.Round(change))
	if rounded > 0 {
		return fmt.Sprintf("+%d%%", rounded)
	}
	return fmt.Sprintf("%d%%", rounded)
}
