package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"court-booking/api"
	"court-booking/config"
	"court-booking/handlers"
	"court-booking/logger"
	"court-booking/reservation"
	"court-booking/storage"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("error").Error("config", "error", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)
	log := logger.New(cfg.LogLevel)

	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		time.Local = loc
		log.Info("timezone set", "tz", cfg.Timezone, "now", time.Now().Format("2006-01-02 15:04:05 MST"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := initStorage(ctx, cfg, log)

	opts := []reservation.Option{reservation.WithLogger(log.WithComponent("reservation"))}
	var journal api.JournalReader
	if store != nil {
		defer store.Close()
		opts = append(opts, reservation.WithJournal(store))
		journal = store
	}
	manager := reservation.NewManager(cfg.MaxCourts, opts...)

	if cfg.TelegramEnabled() {
		go runBot(ctx, cfg, manager, log)
	} else {
		log.Info("TELEGRAM_BOT_TOKEN not set, chat commands disabled")
	}

	router := api.NewRouter(api.NewHandler(manager, journal, log), log, api.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
	})
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr, "courts", cfg.MaxCourts)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown", "error", err)
	}
}

// initStorage connects the Redis journal. A journal that cannot be reached is
// disabled rather than fatal: bookings live in memory either way.
func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage.Storage {
	if !cfg.JournalEnabled() {
		log.Info("REDIS_ADDR not set, journal disabled")
		return nil
	}

	store := storage.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
		storage.WithKey(cfg.JournalKey),
		storage.WithLimit(cfg.JournalLimit),
		storage.WithTTL(cfg.JournalTTL),
	)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Warn("Redis connection failed, journal disabled", "addr", cfg.RedisAddr, "error", err)
		_ = store.Close()
		return nil
	}
	log.Info("journal connected", "addr", cfg.RedisAddr, "key", cfg.JournalKey)
	return store
}

func runBot(ctx context.Context, cfg *config.Config, manager *reservation.Manager, log *logger.Logger) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Error("telegram authorization failed", "error", err)
		return
	}
	bot.Debug = cfg.TelegramDebug
	log.Info("telegram authorized", "account", bot.Self.UserName)

	handler := handlers.New(bot, manager, log)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				handler.HandleMessage(update.Message)
			}
		}
	}
}
