package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/notifications"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/settings"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	logg = logger.ForService("api", cfg.App)

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	deps, err := buildServices(cfg, logg, dbClient, redisClient, sessionManager, checkoutMetrics)
	if err != nil {
		return err
	}
	deps.Config = cfg
	deps.Logger = logg
	deps.Pingers = map[string]controllers.Pinger{"db": dbClient, "redis": redisClient}
	deps.Redis = redisClient
	deps.Sessions = sessionManager
	deps.Gatherer = registry
	deps.HTTP = metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	checkoutMetrics *metrics.CheckoutMetrics,
) (routes.Dependencies, error) {
	var deps routes.Dependencies
	conn := dbClient.DB()

	catalogRepo := catalog.NewRepository(conn)
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		return deps, err
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		return deps, err
	}
	cartService, err := cart.NewService(cartStore, catalogRepo)
	if err != nil {
		return deps, err
	}

	settingsService, err := settings.NewService(settings.NewRepository(conn))
	if err != nil {
		return deps, err
	}

	orderRepo := orders.NewRepository(conn)
	orderService, err := orders.NewService(orderRepo, settingsService)
	if err != nil {
		return deps, err
	}

	mailer, err := notifications.NewMailer(cfg.Mail, logg)
	if err != nil {
		return deps, err
	}
	notifier, err := notifications.NewNotifier(notifications.NotifierParams{
		Mailer:       mailer,
		Orders:       orderRepo,
		From:         cfg.Mail.From,
		AdminAddress: cfg.Mail.AdminAddress,
		Logger:       logg,
		Metrics:      checkoutMetrics,
	})
	if err != nil {
		return deps, err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:                  dbClient,
		Cart:                cartService,
		Orders:              orderRepo,
		Notifier:            notifier,
		Logger:              logg,
		Metrics:             checkoutMetrics,
		OrderNumberAttempts: cfg.Checkout.OrderNumberAttempts,
		NotifyTimeout:       cfg.Checkout.NotifyTimeout,
	})
	if err != nil {
		return deps, err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return deps, err
	}

	registerParams := auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	}
	registerService, err := auth.NewRegisterService(registerParams)
	if err != nil {
		return deps, err
	}
	adminRegisterService, err := auth.NewAdminRegisterService(registerParams)
	if err != nil {
		return deps, err
	}

	deps.Auth = authService
	deps.Register = registerService
	deps.AdminRegister = adminRegisterService
	deps.Catalog = catalogService
	deps.Cart = cartService
	deps.Checkout = checkoutService
	deps.Orders = orderService
	deps.Settings = settingsService
	return deps, nil
}
