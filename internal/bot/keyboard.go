package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/report"
)

// Тексты кнопок главного меню
const (
	buttonAddExpense = "💸 Добавить расход"
	buttonAddIncome  = "💰 Добавить доход"
	buttonReport     = "📊 Отчёт за месяц"
	buttonWeek       = "📅 Отчёт за неделю"
	buttonCategories = "📋 Категории"
	buttonBudgets    = "🎯 Бюджеты"
	buttonHistory    = "🧾 История"
)

// Действия в callback data: "<action>:<arg>"
const (
	actionType           = "type"
	actionCategory       = "cat"
	actionWeek           = "week"
	actionNewCategory    = "newcat"
	actionDelete         = "del"
	actionDeleteCategory = "delcat"
	actionDraftSave      = "draft_save"
	actionDraftCancel    = "draft_cancel"
	actionDraftType      = "draft_type"
	actionBudget         = "bud"
	actionBack           = "back"
)

func callbackData(action string, args ...string) string {
	return strings.Join(append([]string{action}, args...), ":")
}

// Telegram принимает callback data не длиннее 64 байт
const maxCallbackData = 64

// callbackArity задает число аргументов действия; последний аргумент
// забирает остаток строки. По умолчанию аргумент один.
var callbackArity = map[string]int{
	actionCategory:    2,
	actionBack:        0,
	actionDraftSave:   0,
	actionDraftCancel: 0,
	actionDraftType:   0,
}

// parseCallback разбирает callback data на действие и аргументы
func parseCallback(data string) (string, []string) {
	action, rest, found := strings.Cut(data, ":")
	if !found {
		return action, []string{}
	}
	n, ok := callbackArity[action]
	if !ok {
		n = 1
	}
	if n == 0 {
		n = -1
	}
	return action, strings.SplitN(rest, ":", n)
}

func (b *Bot) getMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAddExpense),
			tgbotapi.NewKeyboardButton(buttonAddIncome),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonWeek),
			tgbotapi.NewKeyboardButton(buttonReport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCategories),
			tgbotapi.NewKeyboardButton(buttonBudgets),
			tgbotapi.NewKeyboardButton(buttonHistory),
		),
	)
}

func (b *Bot) getTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Расход", callbackData(actionType, string(model.Expense))),
			tgbotapi.NewInlineKeyboardButtonData("💰 Доход", callbackData(actionType, string(model.Income))),
		),
	)
}

// getCategoriesKeyboard выводит категории по две в ряд
func (b *Bot) getCategoriesKeyboard(categories []model.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, category := range categories {
		data := callbackData(actionCategory, string(category.Type), category.Name)
		if len(data) > maxCallbackData {
			continue
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			strings.TrimSpace(category.Icon+" "+category.Name),
			data,
		))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", callbackData(actionBack)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) getWeeksKeyboard(weeks []report.WeekPeriod) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(weeks))
	for i, w := range weeks {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(w.Label, callbackData(actionWeek, strconv.Itoa(i))),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// getCategoryManagementKeyboard позволяет добавить категорию или удалить пользовательскую
func (b *Bot) getCategoryManagementKeyboard(categories []model.Category) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Категория дохода", callbackData(actionNewCategory, string(model.Income))),
			tgbotapi.NewInlineKeyboardButtonData("➕ Категория расхода", callbackData(actionNewCategory, string(model.Expense))),
		),
	}
	for _, category := range categories {
		if !category.Custom || category.ID == "" {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+category.Name, callbackData(actionDeleteCategory, category.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", callbackData(actionBack)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) getHistoryKeyboard(transactions []model.Transaction) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(transactions))
	for i, t := range transactions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+strconv.Itoa(i+1), callbackData(actionDelete, t.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) getDraftKeyboard(draft *model.Transaction) tgbotapi.InlineKeyboardMarkup {
	toggle := "↔️ Это доход"
	if draft.Type == model.Income {
		toggle = "↔️ Это расход"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Сохранить", callbackData(actionDraftSave)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", callbackData(actionDraftCancel)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggle, callbackData(actionDraftType)),
		),
	)
}

// getBudgetKeyboard предлагает выбрать категорию расхода для нового лимита
func (b *Bot) getBudgetKeyboard(categories []model.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, category := range model.FilterCategories(categories, model.Expense) {
		data := callbackData(actionBudget, category.Name)
		if len(data) > maxCallbackData {
			continue
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🎯 "+category.Name, data))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
