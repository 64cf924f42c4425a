package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/finance_tracker/internal/invoice"
	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/report"
	"github.com/ivanoskov/finance_tracker/internal/service"
	log "github.com/sirupsen/logrus"
)

const (
	historyLimit = 10
	weeksShown   = 4
)

const welcomeText = "Добро пожаловать в бот учёта расходов! 💰\n\n" +
	"Я помогу вам отслеживать доходы и расходы. Вот что я умею:\n\n" +
	"• Добавлять операции: /add или сообщением «50k Food обед», «+10tr Salary»\n" +
	"• Распознавать чеки: пришлите фото или /scan <текст чека>\n" +
	"• Показывать отчёты: /week, /report\n" +
	"• Следить за лимитами: /budget\n" +
	"• Управлять категориями: /categories\n" +
	"• Показывать историю и баланс: /history, /balance\n\n" +
	"Выберите действие:"

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID
	args := strings.TrimSpace(message.CommandArguments())

	// Любая команда прерывает незавершенный диалог
	b.resetState(ctx, userID)

	switch message.Command() {
	case "start", "help":
		msg := tgbotapi.NewMessage(chatID, welcomeText)
		msg.ReplyMarkup = b.getMainKeyboard()
		b.send(msg)
	case "add":
		msg := tgbotapi.NewMessage(chatID, "Что добавляем?")
		msg.ReplyMarkup = b.getTypeKeyboard()
		b.send(msg)
	case "report":
		return b.handleMonthlyReport(ctx, chatID, userID)
	case "week":
		return b.handleWeeks(chatID)
	case "categories":
		return b.handleCategories(ctx, chatID, userID)
	case "budget":
		return b.handleBudget(ctx, chatID, userID, args)
	case "budget_delete":
		return b.handleBudgetDelete(ctx, chatID, userID, args)
	case "history":
		return b.handleHistory(ctx, chatID, userID)
	case "balance":
		balance, err := b.service.GetBalance(ctx, userID)
		if err != nil {
			b.sendErrorMessage(chatID, "Ошибка при расчёте баланса")
			return err
		}
		b.sendText(chatID, "💵 Баланс: "+report.FormatAmount(balance))
	case "scan":
		if args == "" {
			b.sendText(chatID, "Использование: /scan <текст чека>")
			return nil
		}
		draft, fields := b.service.DraftFromText(userID, args)
		b.showDraft(ctx, chatID, userID, &draft, fields)
	default:
		b.sendText(chatID, "Неизвестная команда. /help — список команд")
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Отвечаем на callback, чтобы убрать loading indicator
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			log.Debugf("Failed to answer callback: %v", err)
		}
	}()

	if callback.Message == nil || callback.From == nil {
		return nil
	}
	chatID, userID := callback.Message.Chat.ID, callback.From.ID
	action, args := parseCallback(callback.Data)

	switch action {
	case actionType:
		if len(args) != 1 {
			return fmt.Errorf("malformed callback %q", callback.Data)
		}
		return b.handleSelectType(ctx, chatID, userID, model.TransactionType(args[0]))
	case actionCategory:
		if len(args) != 2 {
			return fmt.Errorf("malformed callback %q", callback.Data)
		}
		b.saveState(ctx, &model.UserState{
			UserID:           userID,
			TransactionType:  model.TransactionType(args[0]),
			SelectedCategory: args[1],
			AwaitingAction:   model.AwaitingAmount,
		})
		b.sendText(chatID, fmt.Sprintf("Категория: %s\nВведите сумму и описание, например:\n50000 обед", args[1]))
	case actionWeek:
		if len(args) != 1 {
			return fmt.Errorf("malformed callback %q", callback.Data)
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("malformed callback %q: %w", callback.Data, err)
		}
		return b.handleWeeklyReport(ctx, chatID, userID, index)
	case actionNewCategory:
		if len(args) != 1 {
			return fmt.Errorf("malformed callback %q", callback.Data)
		}
		b.saveState(ctx, &model.UserState{
			UserID:          userID,
			TransactionType: model.TransactionType(args[0]),
			AwaitingAction:  model.AwaitingNewCategory,
		})
		b.sendText(chatID, "Введите название новой категории:")
	case actionBudget:
		if len(args) != 1 {
			return fmt.Errorf("malformed callback %q", callback.Data)
		}
		b.saveState(ctx, &model.UserState{
			UserID:           userID,
			SelectedCategory: args[0],
			AwaitingAction:   model.AwaitingBudgetLimit,
		})
		b.sendText(chatID, fmt.Sprintf("Введите лимит на месяц для категории %s:", args[0]))
	case actionDelete:
		if len(args) != 1 {
			return fmt.Errorf("malformed callback %q", callback.Data)
		}
		if err := b.service.DeleteTransaction(ctx, args[0], userID); err != nil {
			b.sendErrorMessage(chatID, "Не удалось удалить операцию")
			return err
		}
		b.sendText(chatID, "Операция удалена 🗑")
	case actionDeleteCategory:
		if len(args) != 1 {
			return fmt.Errorf("malformed callback %q", callback.Data)
		}
		if err := b.service.DeleteCategory(ctx, args[0], userID); err != nil {
			b.sendErrorMessage(chatID, "Не удалось удалить категорию")
			return err
		}
		b.sendText(chatID, "Категория удалена 🗑")
		return b.handleCategories(ctx, chatID, userID)
	case actionDraftSave, actionDraftCancel, actionDraftType:
		return b.handleDraftAction(ctx, chatID, userID, action)
	case actionBack:
		b.resetState(ctx, userID)
		msg := tgbotapi.NewMessage(chatID, "Выберите действие:")
		msg.ReplyMarkup = b.getMainKeyboard()
		b.send(msg)
	default:
		log.Warnf("Unknown callback %q from user %d", callback.Data, userID)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return nil
	}

	switch text {
	case buttonAddExpense:
		b.resetState(ctx, userID)
		return b.handleSelectType(ctx, chatID, userID, model.Expense)
	case buttonAddIncome:
		b.resetState(ctx, userID)
		return b.handleSelectType(ctx, chatID, userID, model.Income)
	case buttonReport:
		return b.handleMonthlyReport(ctx, chatID, userID)
	case buttonWeek:
		return b.handleWeeks(chatID)
	case buttonCategories:
		return b.handleCategories(ctx, chatID, userID)
	case buttonBudgets:
		return b.handleBudget(ctx, chatID, userID, "")
	case buttonHistory:
		return b.handleHistory(ctx, chatID, userID)
	}

	st := b.userState(ctx, userID)
	switch st.AwaitingAction {
	case model.AwaitingAmount:
		return b.handleAmountInput(ctx, chatID, st, text)
	case model.AwaitingNewCategory:
		return b.handleNewCategoryInput(ctx, chatID, st, text)
	case model.AwaitingBudgetLimit:
		return b.handleBudgetLimitInput(ctx, chatID, st, text)
	case model.AwaitingConfirm:
		return b.handleDraftInput(ctx, chatID, st, text)
	}

	// Без активного диалога пробуем разобрать быструю запись
	t, err := b.service.QuickAdd(ctx, userID, text)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEntry) || errors.Is(err, model.ErrInvalidAmount) {
			msg := tgbotapi.NewMessage(chatID, "Не понял сообщение. Пример: «50k Food обед»\nИли выберите действие:")
			msg.ReplyMarkup = b.getMainKeyboard()
			b.send(msg)
			return nil
		}
		b.sendErrorMessage(chatID, "Ошибка при сохранении операции")
		return err
	}
	b.sendText(chatID, formatSaved(t, b.service.Location()))
	return nil
}

func (b *Bot) handleSelectType(ctx context.Context, chatID, userID int64, t model.TransactionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidType, t)
	}
	categories, err := b.service.GetCategories(ctx, userID)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении категорий")
		return err
	}
	title := "Выберите категорию расхода:"
	if t == model.Income {
		title = "Выберите категорию дохода:"
	}
	msg := tgbotapi.NewMessage(chatID, title)
	msg.ReplyMarkup = b.getCategoriesKeyboard(model.FilterCategories(categories, t))
	b.send(msg)
	return nil
}

// handleAmountInput сохраняет операцию по сообщению "<сумма> [описание]"
func (b *Bot) handleAmountInput(ctx context.Context, chatID int64, st *model.UserState, text string) error {
	amountText, note, _ := strings.Cut(text, " ")
	amount, err := service.ParseAmount(amountText)
	if err != nil || amount == 0 {
		b.sendErrorMessage(chatID, "Неверный формат суммы. Пример: 50000 обед или 50k обед")
		return nil
	}

	t := &model.Transaction{
		UserID:   st.UserID,
		Type:     st.TransactionType,
		Amount:   amount,
		Category: st.SelectedCategory,
		Note:     strings.TrimSpace(note),
	}
	if err := b.service.AddTransaction(ctx, t); err != nil {
		b.sendErrorMessage(chatID, "Ошибка при сохранении операции")
		return err
	}
	b.resetState(ctx, st.UserID)

	msg := tgbotapi.NewMessage(chatID, formatSaved(t, b.service.Location()))
	msg.ReplyMarkup = b.getMainKeyboard()
	b.send(msg)
	return nil
}

func (b *Bot) handleNewCategoryInput(ctx context.Context, chatID int64, st *model.UserState, text string) error {
	category := &model.Category{
		UserID: st.UserID,
		Name:   text,
		Type:   st.TransactionType,
	}
	if err := b.service.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, model.ErrInvalidCategory) {
			b.sendErrorMessage(chatID, fmt.Sprintf("Название не должно быть пустым, содержать ':' или быть длиннее %d байт", model.MaxCategoryNameLength))
			return nil
		}
		b.sendErrorMessage(chatID, "Ошибка при создании категории")
		return err
	}
	b.resetState(ctx, st.UserID)
	b.sendText(chatID, fmt.Sprintf("Категория '%s' успешно создана! ✅", category.Name))
	return b.handleCategories(ctx, chatID, st.UserID)
}

func (b *Bot) handleBudgetLimitInput(ctx context.Context, chatID int64, st *model.UserState, text string) error {
	limit, err := service.ParseAmount(text)
	if err != nil {
		b.sendErrorMessage(chatID, "Неверный формат суммы. Пример: 2tr")
		return nil
	}
	if err := b.setBudget(ctx, chatID, st.UserID, st.SelectedCategory, limit); err != nil {
		return err
	}
	b.resetState(ctx, st.UserID)
	return nil
}

func (b *Bot) handleCategories(ctx context.Context, chatID, userID int64) error {
	categories, err := b.service.GetCategories(ctx, userID)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении категорий")
		return err
	}
	msg := tgbotapi.NewMessage(chatID, formatCategories(categories))
	msg.ReplyMarkup = b.getCategoryManagementKeyboard(categories)
	b.send(msg)
	return nil
}

func (b *Bot) handleHistory(ctx context.Context, chatID, userID int64) error {
	transactions, err := b.service.GetRecentTransactions(ctx, userID, historyLimit)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении истории")
		return err
	}
	msg := tgbotapi.NewMessage(chatID, formatHistory(transactions, b.service.Location()))
	if len(transactions) > 0 {
		msg.ReplyMarkup = b.getHistoryKeyboard(transactions)
	}
	b.send(msg)
	return nil
}

// handleBudget показывает лимиты или задает новый: /budget <категория> <сумма>
func (b *Bot) handleBudget(ctx context.Context, chatID, userID int64, args string) error {
	if args != "" {
		category, limit, err := parseBudgetArgs(args)
		if err != nil {
			b.sendErrorMessage(chatID, "Использование: /budget <категория> <сумма>")
			return nil
		}
		return b.setBudget(ctx, chatID, userID, category, limit)
	}

	statuses, err := b.service.GetBudgetStatuses(ctx, userID)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении лимитов")
		return err
	}
	categories, err := b.service.GetCategories(ctx, userID)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении категорий")
		return err
	}
	msg := tgbotapi.NewMessage(chatID, formatBudgets(statuses))
	msg.ReplyMarkup = b.getBudgetKeyboard(categories)
	b.send(msg)
	return nil
}

func (b *Bot) handleBudgetDelete(ctx context.Context, chatID, userID int64, category string) error {
	if category == "" {
		b.sendText(chatID, "Использование: /budget_delete <категория>")
		return nil
	}
	if err := b.service.DeleteBudget(ctx, userID, category); err != nil {
		b.sendErrorMessage(chatID, "Ошибка при удалении лимита")
		return err
	}
	b.sendText(chatID, fmt.Sprintf("Лимит для %s удалён", category))
	return nil
}

func (b *Bot) setBudget(ctx context.Context, chatID, userID int64, category string, limit int64) error {
	budget, err := b.service.SetBudget(ctx, userID, category, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLimit) || errors.Is(err, model.ErrInvalidCategory) {
			b.sendErrorMessage(chatID, "Лимит должен быть больше нуля, а категория непустой")
			return nil
		}
		b.sendErrorMessage(chatID, "Ошибка при сохранении лимита")
		return err
	}
	b.sendText(chatID, fmt.Sprintf("🎯 Лимит для %s: %s в месяц", budget.Category, report.FormatAmount(budget.Limit)))
	return nil
}

// parseBudgetArgs разбирает "<категория> <сумма>", где название категории может содержать пробелы
func parseBudgetArgs(args string) (string, int64, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("%w: %q", service.ErrInvalidEntry, args)
	}
	limit, err := service.ParseAmount(fields[len(fields)-1])
	if err != nil {
		return "", 0, err
	}
	return strings.Join(fields[:len(fields)-1], " "), limit, nil
}

func (b *Bot) handleWeeks(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Выберите неделю:")
	msg.ReplyMarkup = b.getWeeksKeyboard(b.service.RecentWeeks(weeksShown))
	b.send(msg)
	return nil
}

func (b *Bot) handleWeeklyReport(ctx context.Context, chatID, userID int64, index int) error {
	data, week, err := b.service.GetWeeklyReport(ctx, userID, index)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при формировании отчета")
		return err
	}
	return b.sendReport(ctx, chatID, userID, "Отчёт за неделю "+week.Label, data)
}

func (b *Bot) handleMonthlyReport(ctx context.Context, chatID, userID int64) error {
	data, err := b.service.GetMonthlyReport(ctx, userID)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при формировании отчета")
		return err
	}
	return b.sendReport(ctx, chatID, userID, "Отчёт за месяц", data)
}

// sendReport отправляет текст отчета и графики к нему
func (b *Bot) sendReport(ctx context.Context, chatID, userID int64, title string, data report.ReportData) error {
	b.sendText(chatID, formatReport(title, data))

	if len(data.Categories) > 0 {
		png, err := b.charts.GenerateCategoryPieChart(data)
		if err != nil {
			log.Errorf("Failed to render pie chart: %v", err)
		} else {
			b.sendPhoto(chatID, "categories.png", png)
		}
	}

	days, err := b.service.GetDailyTotals(ctx, userID, data.Window)
	if err != nil {
		return err
	}
	if png, err := b.charts.GenerateDailyChart(days); err != nil {
		log.Errorf("Failed to render daily chart: %v", err)
	} else {
		b.sendPhoto(chatID, "daily.png", png)
	}

	if png, err := b.charts.GenerateComparisonChart(data); err != nil {
		log.Errorf("Failed to render comparison chart: %v", err)
	} else {
		b.sendPhoto(chatID, "comparison.png", png)
	}
	return nil
}

func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID

	fileID, mimeType := "", "image/jpeg"
	if len(message.Photo) > 0 {
		// Последний размер фото самый большой
		fileID = message.Photo[len(message.Photo)-1].FileID
	} else {
		fileID, mimeType = message.Document.FileID, message.Document.MimeType
	}

	image, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.sendErrorMessage(chatID, "Не удалось загрузить фото")
		return err
	}

	draft, fields, err := b.service.ScanReceipt(ctx, userID, image, mimeType)
	if err != nil {
		if errors.Is(err, service.ErrOCRDisabled) {
			b.sendText(chatID, "Распознавание фото не настроено. Отправьте текст чека: /scan <текст>")
			return nil
		}
		b.sendErrorMessage(chatID, "Не удалось распознать чек")
		return err
	}
	b.showDraft(ctx, chatID, userID, &draft, fields)
	return nil
}

func (b *Bot) showDraft(ctx context.Context, chatID, userID int64, draft *model.Transaction, fields invoice.Fields) {
	b.saveState(ctx, &model.UserState{
		UserID:         userID,
		AwaitingAction: model.AwaitingConfirm,
		Draft:          draft,
	})
	msg := tgbotapi.NewMessage(chatID, formatDraft(draft, fields))
	msg.ReplyMarkup = b.getDraftKeyboard(draft)
	b.send(msg)
}

// handleDraftInput исправляет сумму или категорию черновика по сообщению пользователя
func (b *Bot) handleDraftInput(ctx context.Context, chatID int64, st *model.UserState, text string) error {
	if st.Draft == nil {
		b.resetState(ctx, st.UserID)
		return nil
	}
	draft := st.Draft
	if amount, err := service.ParseAmount(text); err == nil {
		draft.Amount = amount
	} else {
		categories, err := b.service.GetCategories(ctx, st.UserID)
		if err != nil {
			b.sendErrorMessage(chatID, "Ошибка при получении категорий")
			return err
		}
		category, ok := findCategory(categories, draft.Type, text)
		if !ok {
			b.sendErrorMessage(chatID, "Отправьте сумму или название категории")
			return nil
		}
		draft.Category = category
	}
	b.showDraft(ctx, chatID, st.UserID, draft, draftFields(draft))
	return nil
}

func (b *Bot) handleDraftAction(ctx context.Context, chatID, userID int64, action string) error {
	st := b.userState(ctx, userID)
	if st.AwaitingAction != model.AwaitingConfirm || st.Draft == nil {
		b.sendText(chatID, "Черновик не найден, отправьте чек ещё раз")
		return nil
	}
	draft := st.Draft

	switch action {
	case actionDraftCancel:
		b.resetState(ctx, userID)
		b.sendText(chatID, "Черновик удалён")
	case actionDraftType:
		if draft.Type == model.Expense {
			draft.Type = model.Income
		} else {
			draft.Type = model.Expense
		}
		draft.Category = report.OtherCategory
		b.showDraft(ctx, chatID, userID, draft, draftFields(draft))
	case actionDraftSave:
		if draft.Amount == 0 {
			b.sendErrorMessage(chatID, "Сумма не указана, отправьте её сообщением")
			return nil
		}
		if err := b.service.AddTransaction(ctx, draft); err != nil {
			b.sendErrorMessage(chatID, "Ошибка при сохранении операции")
			return err
		}
		b.resetState(ctx, userID)
		b.sendText(chatID, formatSaved(draft, b.service.Location()))
	}
	return nil
}

func findCategory(categories []model.Category, t model.TransactionType, name string) (string, bool) {
	for _, c := range model.FilterCategories(categories, t) {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c.Name, true
		}
	}
	return "", false
}

// draftFields восстанавливает распознанные поля по уже исправленному черновику
func draftFields(draft *model.Transaction) invoice.Fields {
	fields := invoice.Fields{StoreName: draft.Note}
	if draft.Amount > 0 {
		fields.Total = strconv.FormatInt(draft.Amount, 10)
	}
	return fields
}
