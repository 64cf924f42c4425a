package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/invoice"
	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/report"
)

const dateLayout = "02.01.2006"

func typeEmoji(t model.TransactionType) string {
	if t == model.Income {
		return "💰"
	}
	return "💸"
}

func trendEmoji(trend string) string {
	switch trend {
	case report.TrendUp:
		return "📈"
	case report.TrendDown:
		return "📉"
	default:
		return "➖"
	}
}

// formatReport формирует текст отчета за период
func formatReport(title string, data report.ReportData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s\n", title)
	fmt.Fprintf(&sb, "%s – %s\n\n", data.Window.Start.Format(dateLayout), data.Window.End.Format(dateLayout))
	fmt.Fprintf(&sb, "💰 Доходы: %s\n", report.FormatAmount(data.TotalIncome))
	fmt.Fprintf(&sb, "💸 Расходы: %s\n", report.FormatAmount(data.TotalExpense))
	fmt.Fprintf(&sb, "💵 Баланс: %s\n", report.FormatAmount(data.Balance))
	fmt.Fprintf(&sb, "%s К прошлому периоду: %s (было %s)\n",
		trendEmoji(data.Trend), data.Comparison, report.FormatAmount(data.PreviousExpense))

	if len(data.Categories) == 0 {
		sb.WriteString("\nРасходов за период нет")
		return sb.String()
	}

	sb.WriteString("\nПо категориям:\n")
	for _, c := range data.Categories {
		fmt.Fprintf(&sb, "• %s: %s (%d%%)\n", c.Name, report.FormatAmount(c.Amount), c.Percent)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCategories(categories []model.Category) string {
	var sb strings.Builder
	sb.WriteString("📋 Ваши категории:\n\n💰 Доходы:\n")
	for _, c := range model.FilterCategories(categories, model.Income) {
		fmt.Fprintf(&sb, "• %s\n", strings.TrimSpace(c.Icon+" "+c.Name))
	}
	sb.WriteString("\n💸 Расходы:\n")
	for _, c := range model.FilterCategories(categories, model.Expense) {
		fmt.Fprintf(&sb, "• %s\n", strings.TrimSpace(c.Icon+" "+c.Name))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatBudgets(statuses []model.BudgetStatus) string {
	if len(statuses) == 0 {
		return "🎯 Лимиты не заданы.\nЧтобы задать: /budget <категория> <сумма>"
	}
	var sb strings.Builder
	sb.WriteString("🎯 Лимиты на месяц:\n")
	for _, s := range statuses {
		mark := "✅"
		if s.Exceeded() {
			mark = "⚠️"
		}
		fmt.Fprintf(&sb, "%s %s: %s из %s, осталось %s\n", mark, s.Budget.Category,
			report.FormatAmount(s.Spent), report.FormatAmount(s.Budget.Limit), report.FormatAmount(s.Remaining))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatHistory показывает даты операций в часовом поясе бота
func formatHistory(transactions []model.Transaction, loc *time.Location) string {
	if len(transactions) == 0 {
		return "🧾 Операций пока нет"
	}
	var sb strings.Builder
	sb.WriteString("🧾 Последние операции:\n")
	for i, t := range transactions {
		fmt.Fprintf(&sb, "%d. %s %s %s %s", i+1, t.Date.In(loc).Format(dateLayout), typeEmoji(t.Type),
			report.FormatAmount(t.Amount), t.Category)
		if t.Note != "" {
			fmt.Fprintf(&sb, " (%s)", t.Note)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatDraft показывает черновик, собранный из чека, и то, что удалось распознать
func formatDraft(draft *model.Transaction, fields invoice.Fields) string {
	var sb strings.Builder
	sb.WriteString("🧾 Черновик операции:\n")
	fmt.Fprintf(&sb, "%s Сумма: %s\n", typeEmoji(draft.Type), report.FormatAmount(draft.Amount))
	fmt.Fprintf(&sb, "📂 Категория: %s\n", draft.Category)
	fmt.Fprintf(&sb, "📅 Дата: %s\n", draft.Date.Format(dateLayout))
	if draft.Note != "" {
		fmt.Fprintf(&sb, "🏪 Магазин: %s\n", draft.Note)
	}
	if fields.Total == "" {
		sb.WriteString("\nСумму распознать не удалось, отправьте её сообщением.")
	} else {
		sb.WriteString("\nЧтобы исправить сумму или категорию, отправьте их сообщением.")
	}
	return sb.String()
}

func formatSaved(t *model.Transaction, loc *time.Location) string {
	return fmt.Sprintf("Сохранено ✅\n%s %s, %s, %s", typeEmoji(t.Type), report.FormatAmount(t.Amount),
		t.Category, t.Date.In(loc).Format(dateLayout))
}
