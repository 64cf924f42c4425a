package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivanoskov/finance_tracker/internal/bot"
	"github.com/ivanoskov/finance_tracker/internal/config"
	"github.com/ivanoskov/finance_tracker/internal/ocr"
	"github.com/ivanoskov/finance_tracker/internal/repository"
	"github.com/ivanoskov/finance_tracker/internal/service"
	"github.com/ivanoskov/finance_tracker/internal/state"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.LogLevel)

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		log.Fatal(err)
	}

	opts := []service.Option{service.WithLocation(cfg.Location)}
	if cfg.OCREnabled() {
		recognizer, err := ocr.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal(err)
		}
		defer recognizer.Close()
		opts = append(opts, service.WithRecognizer(recognizer))
		log.Infof("Receipt recognition enabled (%s)", cfg.GeminiModel)
	} else {
		log.Info("GEMINI_API_KEY is not set, receipt photos are disabled")
	}
	service := service.NewExpenseTracker(repo, opts...)

	// Состояния диалогов переживают перезапуск, только если задан STATE_PATH
	var states state.Store = state.NewMemoryStore()
	if cfg.StatePath != "" {
		states, err = state.NewBoltStore(cfg.StatePath)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer states.Close()

	bot, err := bot.NewBot(cfg.TelegramToken, service, states)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Bot started")
	if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(err)
	}
	log.Info("Bot stopped")
}
