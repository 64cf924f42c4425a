package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/finance_tracker/internal/charts"
	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/service"
	"github.com/ivanoskov/finance_tracker/internal/state"
	log "github.com/sirupsen/logrus"
)

// Максимальный размер фото чека, которое бот скачивает
const maxImageSize = 10 << 20

type Bot struct {
	api     *tgbotapi.BotAPI
	service *service.ExpenseTracker
	states  state.Store
	charts  *charts.ChartGenerator
	client  *http.Client
}

func NewBot(token string, service *service.ExpenseTracker, states state.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:     api,
		service: service,
		states:  states,
		charts:  charts.NewChartGenerator(),
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message == nil || update.Message.From == nil:
		return nil
	case update.Message.IsCommand():
		return b.handleCommand(ctx, update.Message)
	case len(update.Message.Photo) > 0 || isImageDocument(update.Message):
		return b.handlePhoto(ctx, update.Message)
	default:
		return b.handleMessage(ctx, update.Message)
	}
}

// Start запускает бота в режиме long polling до отмены контекста
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				// Логируем ошибку, но продолжаем работу
				log.Errorf("Error handling update %d: %v", update.UpdateID, err)
			}
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("failed to decode update: %w", err)
	}
	return b.handleUpdate(ctx, update)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Errorf("Failed to send message: %v", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	b.sendText(chatID, "❌ "+text)
}

func (b *Bot) sendPhoto(chatID int64, name string, png []byte) {
	if len(png) == 0 {
		return
	}
	b.send(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: png}))
}

// userState возвращает сохраненное состояние или пустое, если его нет
func (b *Bot) userState(ctx context.Context, userID int64) *model.UserState {
	st, err := b.states.Get(ctx, userID)
	if err != nil {
		log.Errorf("Failed to load state for user %d: %v", userID, err)
	}
	if st == nil {
		st = &model.UserState{UserID: userID}
	}
	return st
}

func (b *Bot) saveState(ctx context.Context, st *model.UserState) {
	st.UpdatedAt = time.Now()
	if err := b.states.Put(ctx, st); err != nil {
		log.Errorf("Failed to save state for user %d: %v", st.UserID, err)
	}
}

func (b *Bot) resetState(ctx context.Context, userID int64) {
	if err := b.states.Delete(ctx, userID); err != nil {
		log.Errorf("Failed to reset state for user %d: %v", userID, err)
	}
}

func isImageDocument(message *tgbotapi.Message) bool {
	return message.Document != nil && strings.HasPrefix(message.Document.MimeType, "image/")
}

// downloadFile скачивает файл, загруженный пользователем в Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageSize {
		return nil, errors.New("file is too large")
	}
	return data, nil
}
