package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mahallahub/mahalla-backend/api/routes"
	"github.com/mahallahub/mahalla-backend/internal/audience"
	"github.com/mahallahub/mahalla-backend/internal/auditlog"
	"github.com/mahallahub/mahalla-backend/internal/broadcast"
	"github.com/mahallahub/mahalla-backend/internal/directory"
	"github.com/mahallahub/mahalla-backend/internal/moderation"
	"github.com/mahallahub/mahalla-backend/internal/notices"
	"github.com/mahallahub/mahalla-backend/internal/preferences"
	"github.com/mahallahub/mahalla-backend/pkg/config"
	"github.com/mahallahub/mahalla-backend/pkg/db"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
	"github.com/mahallahub/mahalla-backend/pkg/metrics"
	"github.com/mahallahub/mahalla-backend/pkg/migrate"
	"github.com/mahallahub/mahalla-backend/pkg/redis"
	"github.com/mahallahub/mahalla-backend/pkg/telegram"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	tgClient, err := telegram.New(cfg.Telegram)
	if err != nil {
		logg.Error(context.Background(), "failed to create telegram client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	broadcastMetrics := metrics.NewBroadcastMetrics(registry)

	noticeRepo := notices.NewRepository(dbClient.DB())
	settingsRepo := notices.NewSettingsRepository(dbClient.DB())
	directoryRepo := directory.NewRepository(dbClient.DB())
	preferenceRepo := preferences.NewRepository(dbClient.DB())
	auditRepo := auditlog.NewRepository(dbClient.DB())

	resolver, err := audience.NewResolver(directoryRepo, preferenceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create audience resolver", err)
		os.Exit(1)
	}

	executor, err := broadcast.NewExecutor(
		noticeRepo,
		resolver,
		tgClient,
		cfg.Broadcast,
		cfg.Telegram.ModerationChatID,
		broadcastMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create broadcast executor", err)
		os.Exit(1)
	}

	dispatcher, err := broadcast.NewDispatcher(cfg.Broadcast.QueueSize, executor, redisClient, cfg.Broadcast.RunLockTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create broadcast dispatcher", err)
		os.Exit(1)
	}

	noticeService, err := notices.NewService(noticeRepo, settingsRepo, cfg.Broadcast, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notices service", err)
		os.Exit(1)
	}

	moderationService, err := moderation.NewService(noticeRepo, settingsRepo, auditRepo, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create moderation service", err)
		os.Exit(1)
	}

	preferenceService, err := preferences.NewService(preferenceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create preferences service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(ctx)
	}()

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Notices:     noticeService,
			Moderation:  moderationService,
			Preferences: preferenceService,
			AuditTrail:  auditRepo,
			Metrics:     registry,
		}),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	logg.Info(ctx, "starting api server")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}

	stop()
	<-dispatcherDone
	logg.Info(ctx, "api server shutting down gracefully")
}
