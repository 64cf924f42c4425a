package bot

import (
	"strconv"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/finance_tracker/internal/invoice"
	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/report"
	"github.com/ivanoskov/finance_tracker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackData_RoundTrip(t *testing.T) {
	data := callbackData(actionCategory, "expense", "Food")
	assert.Equal(t, "cat:expense:Food", data)

	action, args := parseCallback(data)
	assert.Equal(t, actionCategory, action)
	assert.Equal(t, []string{"expense", "Food"}, args)
}

func TestParseCallback_NoArgs(t *testing.T) {
	action, args := parseCallback(actionBack)
	assert.Equal(t, actionBack, action)
	assert.Empty(t, args)
}

func TestParseCallback_CategoryNameWithColon(t *testing.T) {
	action, args := parseCallback(callbackData(actionCategory, "expense", "Coffee: Tea"))
	assert.Equal(t, actionCategory, action)
	assert.Equal(t, []string{"expense", "Coffee: Tea"}, args)

	action, args = parseCallback(callbackData(actionBudget, "Coffee: Tea"))
	assert.Equal(t, actionBudget, action)
	assert.Equal(t, []string{"Coffee: Tea"}, args)
}

func TestCategoryCallbacksFitTelegramLimit(t *testing.T) {
	b := &Bot{}
	longest := strings.Repeat("a", model.MaxCategoryNameLength)
	tooLong := strings.Repeat("ă", model.MaxCategoryNameLength)
	categories := []model.Category{
		{Name: longest, Type: model.Expense},
		{Name: tooLong, Type: model.Expense},
	}

	assert.LessOrEqual(t, len(callbackData(actionCategory, string(model.Expense), longest)), maxCallbackData)

	keyboard := b.getCategoriesKeyboard(categories)
	// Одна подходящая категория и кнопка "Назад"
	require.Len(t, keyboard.InlineKeyboard, 2)
	require.Len(t, keyboard.InlineKeyboard[0], 1)
	assert.Equal(t, longest, keyboard.InlineKeyboard[0][0].Text)

	budgets := b.getBudgetKeyboard(categories)
	require.Len(t, budgets.InlineKeyboard, 1)
	require.Len(t, budgets.InlineKeyboard[0], 1)
}

func TestParseBudgetArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     string
		category string
		limit    int64
		wantErr  bool
	}{
		{name: "simple", args: "Food 2000000", category: "Food", limit: 2_000_000},
		{name: "suffix", args: "Food 2tr", category: "Food", limit: 2_000_000},
		{name: "multi word category", args: "Eating out 500k", category: "Eating out", limit: 500_000},
		{name: "missing limit", args: "Food", wantErr: true},
		{name: "bad limit", args: "Food lots", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, limit, err := parseBudgetArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestParseBudgetArgs_MissingLimitIsInvalidEntry(t *testing.T) {
	_, _, err := parseBudgetArgs("Food")
	assert.ErrorIs(t, err, service.ErrInvalidEntry)
}

func TestFormatReport(t *testing.T) {
	start := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	data := report.ReportData{
		Window:       report.Window{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond)},
		TotalExpense: 300_000,
		TotalIncome:  1_000_000,
		Balance:      700_000,
		Categories: []report.CategoryShare{
			{Name: "Food", Amount: 200_000, Percent: 67},
			{Name: "Transport", Amount: 100_000, Percent: 33},
		},
		Trend:           report.TrendUp,
		Comparison:      "+50%",
		PreviousExpense: 200_000,
	}

	text := formatReport("Отчёт за неделю", data)

	assert.Contains(t, text, "Отчёт за неделю")
	assert.Contains(t, text, "14.03.2024 – 20.03.2024")
	assert.Contains(t, text, report.FormatAmount(300_000))
	assert.Contains(t, text, report.FormatAmount(700_000))
	assert.Contains(t, text, "📈")
	assert.Contains(t, text, "+50%")
	assert.Contains(t, text, "• Food: "+report.FormatAmount(200_000)+" (67%)")
	assert.Contains(t, text, "• Transport: "+report.FormatAmount(100_000)+" (33%)")
}

func TestFormatReport_NoExpenses(t *testing.T) {
	text := formatReport("Отчёт за месяц", report.ReportData{Trend: report.TrendStable, Comparison: "0%"})
	assert.Contains(t, text, "Расходов за период нет")
	assert.Contains(t, text, "➖")
}

func TestFormatBudgets(t *testing.T) {
	assert.Contains(t, formatBudgets(nil), "/budget")

	text := formatBudgets([]model.BudgetStatus{
		{Budget: model.Budget{Category: "Food", Limit: 100}, Spent: 150, Remaining: -50},
		{Budget: model.Budget{Category: "Transport", Limit: 100}, Spent: 10, Remaining: 90},
	})
	assert.Contains(t, text, "⚠️ Food")
	assert.Contains(t, text, "✅ Transport")
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "🧾 Операций пока нет", formatHistory(nil, time.UTC))

	text := formatHistory([]model.Transaction{
		{Type: model.Expense, Amount: 50_000, Category: "Food", Note: "обед",
			Date: model.NewTimestamp(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))},
		{Type: model.Income, Amount: 1_000_000, Category: "Salary",
			Date: model.NewTimestamp(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))},
	}, time.UTC)
	assert.Contains(t, text, "1. 20.03.2024 💸")
	assert.Contains(t, text, "Food (обед)")
	assert.Contains(t, text, "2. 01.03.2024 💰")
}

func TestFormatHistory_UsesBotTimezone(t *testing.T) {
	saigon := time.FixedZone("ICT", 7*60*60)
	// Полночь по местному времени приходит из базы в UTC как предыдущий день
	stored := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)

	text := formatHistory([]model.Transaction{
		{Type: model.Expense, Amount: 10_000, Category: "Food", Date: model.NewTimestamp(stored)},
	}, saigon)

	assert.Contains(t, text, "1. 05.03.2024")
}

func TestFormatDraft(t *testing.T) {
	draft := &model.Transaction{
		Type:     model.Expense,
		Amount:   120_000,
		Category: report.OtherCategory,
		Note:     "Circle K",
		Date:     model.NewTimestamp(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	}

	text := formatDraft(draft, invoice.Fields{StoreName: "Circle K", Total: "120.000"})
	assert.Contains(t, text, "Circle K")
	assert.Contains(t, text, "15.03.2024")
	assert.NotContains(t, text, "распознать не удалось")

	text = formatDraft(draft, invoice.Fields{})
	assert.Contains(t, text, "распознать не удалось")
}

func TestDraftFields(t *testing.T) {
	assert.Equal(t, invoice.Fields{StoreName: "Shop", Total: "5000"},
		draftFields(&model.Transaction{Note: "Shop", Amount: 5000}))
	assert.Equal(t, invoice.Fields{StoreName: "Shop"},
		draftFields(&model.Transaction{Note: "Shop"}))
}

func TestFindCategory(t *testing.T) {
	categories := model.DefaultCategories

	name, ok := findCategory(categories, model.Expense, " food ")
	assert.True(t, ok)
	assert.Equal(t, "Food", name)

	_, ok = findCategory(categories, model.Income, "Food")
	assert.False(t, ok)
}

func TestIsImageDocument(t *testing.T) {
	assert.False(t, isImageDocument(&tgbotapi.Message{}))
	assert.False(t, isImageDocument(&tgbotapi.Message{Document: &tgbotapi.Document{MimeType: "application/pdf"}}))
	assert.True(t, isImageDocument(&tgbotapi.Message{Document: &tgbotapi.Document{MimeType: "image/png"}}))
}

func TestCategoriesKeyboard_TwoPerRow(t *testing.T) {
	b := &Bot{}
	expense := model.FilterCategories(model.DefaultCategories, model.Expense)

	keyboard := b.getCategoriesKeyboard(expense)

	// Категории по две в ряд плюс кнопка "Назад"
	require.Len(t, keyboard.InlineKeyboard, (len(expense)+1)/2+1)
	first := keyboard.InlineKeyboard[0][0]
	require.NotNil(t, first.CallbackData)
	assert.Equal(t, callbackData(actionCategory, "expense", expense[0].Name), *first.CallbackData)
}

func TestWeeksKeyboard(t *testing.T) {
	b := &Bot{}
	weeks := report.RecentWeeks(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 4)

	keyboard := b.getWeeksKeyboard(weeks)

	require.Len(t, keyboard.InlineKeyboard, 4)
	for i, row := range keyboard.InlineKeyboard {
		assert.Equal(t, weeks[i].Label, row[0].Text)
		action, args := parseCallback(*row[0].CallbackData)
		assert.Equal(t, actionWeek, action)
		assert.Equal(t, []string{strconv.Itoa(i)}, args)
	}
}

func TestDraftKeyboard_TogglesType(t *testing.T) {
	b := &Bot{}
	keyboard := b.getDraftKeyboard(&model.Transaction{Type: model.Income})
	assert.Equal(t, "↔️ Это расход", keyboard.InlineKeyboard[1][0].Text)
}

func TestCategoryManagementKeyboard_DeletesOnlyCustom(t *testing.T) {
	b := &Bot{}
	categories := model.MergeCategories(model.DefaultCategories, []model.Category{
		{ID: "c1", Name: "Pets", Type: model.Expense},
	})

	keyboard := b.getCategoryManagementKeyboard(categories)

	require.Len(t, keyboard.InlineKeyboard, 3)
	assert.Equal(t, "🗑 Pets", keyboard.InlineKeyboard[1][0].Text)
	assert.Equal(t, "delcat:c1", *keyboard.InlineKeyboard[1][0].CallbackData)
}
