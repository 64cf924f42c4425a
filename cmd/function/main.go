package main

import (
	"context"
	"net/http"

	"github.com/ivanoskov/finance_tracker/internal/bot"
	"github.com/ivanoskov/finance_tracker/internal/config"
	"github.com/ivanoskov/finance_tracker/internal/ocr"
	"github.com/ivanoskov/finance_tracker/internal/repository"
	"github.com/ivanoskov/finance_tracker/internal/service"
	"github.com/ivanoskov/finance_tracker/internal/state"
	log "github.com/sirupsen/logrus"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

func init() {
	log.SetFormatter(&log.JSONFormatter{})
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}
	if err := cfg.Validate(); err != nil {
		return errorResponse(err)
	}
	log.SetLevel(cfg.LogLevel)

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return errorResponse(err)
	}

	opts := []service.Option{service.WithLocation(cfg.Location)}
	if cfg.OCREnabled() {
		recognizer, err := ocr.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return errorResponse(err)
		}
		defer recognizer.Close()
		opts = append(opts, service.WithRecognizer(recognizer))
	}
	service := service.NewExpenseTracker(repo, opts...)

	// Между вызовами функции состояние сохраняется только в файле STATE_PATH
	var states state.Store = state.NewMemoryStore()
	if cfg.StatePath != "" {
		states, err = state.NewBoltStore(cfg.StatePath)
		if err != nil {
			return errorResponse(err)
		}
	}
	defer states.Close()

	bot, err := bot.NewBot(cfg.TelegramToken, service, states)
	if err != nil {
		return errorResponse(err)
	}

	if err := bot.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	log.Errorf("Webhook failed: %v", err)
	return &Response{
		StatusCode: http.StatusInternalServerError,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
