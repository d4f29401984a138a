package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-backend/internal/cron"
	"github.com/angelmondragon/storefront-backend/internal/notifications"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "cron-worker"}).Error(context.Background(), "cron_worker.config_invalid", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "cron-worker"
	logg := logger.ForService("cron-worker", cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "service_kind": cfg.Service.Kind})

	if err := run(ctx, cfg, logg); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron_worker.exit", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron_worker.stopped")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	service, err := buildService(cfg, logg, dbClient, redisClient, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "interval", service.Interval().String()), "cron_worker.started")
	return service.Run(ctx)
}

// buildService wires the notification retry job behind the shared redis lock.
func buildService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, reg prometheus.Registerer) (*cron.Service, error) {
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron"), 2*cfg.Cron.Interval)
	if err != nil {
		return nil, err
	}

	mailer, err := notifications.NewMailer(cfg.Mail, logg)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	orderRepo := orders.NewRepository(dbClient.DB())
	notifier, err := notifications.NewNotifier(notifications.NotifierParams{
		Mailer:       mailer,
		Orders:       orderRepo,
		From:         cfg.Mail.From,
		AdminAddress: cfg.Mail.AdminAddress,
		Logger:       logg,
		Metrics:      metrics.NewCheckoutMetrics(reg),
	})
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}

	retryJob, err := cron.NewOrderNotificationRetryJob(cron.OrderNotificationRetryJobParams{
		Logger:      logg,
		Orders:      orderRepo,
		Notifier:    notifier,
		MaxAttempts: cfg.Cron.NotificationMaxAttempts,
		Window:      cfg.Cron.NotificationRetryWindow,
		BatchSize:   cfg.Cron.NotificationRetryBatch,
	})
	if err != nil {
		return nil, fmt.Errorf("retry job: %w", err)
	}

	return cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   cron.NewRegistry(retryJob),
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(reg),
		Interval:   cfg.Cron.Interval,
		JobTimeout: cfg.Cron.JobTimeout,
	})
}
