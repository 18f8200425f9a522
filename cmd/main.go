package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"taxiservice/api"
	"taxiservice/config"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/bot"
	"taxiservice/pkg/logger"
	"taxiservice/service"
	"taxiservice/storage"
	"taxiservice/storage/memory"
	"taxiservice/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", logger.Error(err))
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stg, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", logger.Error(err))
		os.Exit(1)
	}
	defer stg.Close()

	var notifier service.Notifier
	adminBot, err := bot.New(&cfg, stg, log)
	switch {
	case errors.Is(err, bot.ErrNoToken):
		log.Info("admin bot disabled, ADMIN_BOT_TOKEN is empty")
	case err != nil:
		log.Error("failed to initialize admin bot", logger.Error(err))
		os.Exit(1)
	default:
		notifier = adminBot
		go adminBot.Start()
		defer adminBot.Stop()
	}

	svc := service.New(stg, notifier, log)

	router, err := api.New(api.Options{
		Service:      svc,
		Sessions:     auth.NewSessionManager(cfg.SigningKey(), cfg.SessionTTL, cfg.ServiceName),
		Log:          log,
		CookieSecure: cfg.SessionCookieSecure,
	})
	if err != nil {
		log.Error("failed to build router", logger.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server is listening", logger.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Error(err))
	}
}

func openStorage(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warning("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	}
	return postgres.New(ctx, cfg, log)
}
