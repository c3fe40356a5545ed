package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lucasrivera/fridgekeeper-backend/api/routes"
	"github.com/lucasrivera/fridgekeeper-backend/internal/items"
	"github.com/lucasrivera/fridgekeeper-backend/internal/notifications"
	"github.com/lucasrivera/fridgekeeper-backend/internal/scheduler"
	"github.com/lucasrivera/fridgekeeper-backend/internal/vision"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/config"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/metrics"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/storage/jsonfile"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedMetrics := metrics.NewSchedulerMetrics(registry)

	itemStore, err := jsonfile.New[items.Item](cfg.Data.ItemsFile)
	if err != nil {
		logg.Error(context.Background(), "failed to open item store", err)
		os.Exit(1)
	}
	noteStore, err := jsonfile.New[notifications.Notification](cfg.Data.NotificationsFile)
	if err != nil {
		logg.Error(context.Background(), "failed to open notification store", err)
		os.Exit(1)
	}

	itemService, err := items.NewService(items.ServiceParams{
		Store:           itemStore,
		Logger:          logg,
		WarningDays:     cfg.Business.ExpiryWarningDays,
		MaxExpiryPeriod: cfg.Business.MaxExpiryPeriod,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create item service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notifications.ServiceParams{
		Store:  noteStore,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	hour, minute, err := cfg.Scheduler.DailyAtClock()
	if err != nil {
		logg.Error(context.Background(), "invalid scheduler time", err)
		os.Exit(1)
	}

	sched, err := scheduler.NewService(scheduler.ServiceParams{
		Items:         itemService,
		Notifications: notificationService,
		Logger:        logg,
		Metrics:       schedMetrics,
		WarningDays:   cfg.Business.ExpiryWarningDays,
		Hour:          hour,
		Minute:        minute,
		CheckTimeout:  cfg.Scheduler.CheckTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	analyzer := vision.NewClient(cfg.OpenAI, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:         addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			Items:         itemService,
			Notifications: notificationService,
			Scheduler:     sched,
			Analyzer:      analyzer,
			Metrics:       registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
