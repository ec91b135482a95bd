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

	"github.com/angelmondragon/cardshop-backend/api/routes"
	"github.com/angelmondragon/cardshop-backend/internal/auth"
	"github.com/angelmondragon/cardshop-backend/internal/cart"
	"github.com/angelmondragon/cardshop-backend/internal/catalog"
	"github.com/angelmondragon/cardshop-backend/internal/orders"
	"github.com/angelmondragon/cardshop-backend/internal/users"
	"github.com/angelmondragon/cardshop-backend/pkg/config"
	"github.com/angelmondragon/cardshop-backend/pkg/db"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
	"github.com/angelmondragon/cardshop-backend/pkg/metrics"
	"github.com/angelmondragon/cardshop-backend/pkg/migrate"
	"github.com/angelmondragon/cardshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(runCtx, cfg.DB, logg)
	requireResource(runCtx, logg, "database", err)

	err = migrate.MaybeRunDev(runCtx, cfg, logg, dbClient)
	requireResource(runCtx, logg, "dev migrations", err)

	redisClient, err := redis.New(runCtx, cfg.Redis, logg)
	requireResource(runCtx, logg, "redis", err)

	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	userService, err := users.NewService(users.NewRepository(dbClient.DB()))
	requireResource(runCtx, logg, "user service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Users:     userService,
		JWTConfig: cfg.JWT,
	})
	requireResource(runCtx, logg, "auth service", err)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	requireResource(runCtx, logg, "catalog service", err)

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(dbClient.DB()),
		DB:      dbClient,
		Logger:  logg,
		Metrics: metrics.NewOrderMetrics(registry),
	})
	requireResource(runCtx, logg, "orders service", err)

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	requireResource(runCtx, logg, "cart store", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:     cartStore,
		Inventory: catalogRepo,
		Orders:    orderService,
		Logger:    logg,
	})
	requireResource(runCtx, logg, "cart service", err)

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:          dbClient,
		Redis:       redisClient,
		Idempotency: redisClient,
		RateLimiter: redisClient,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
		Auth:        authService,
		Catalog:     catalogService,
		Orders:      orderService,
		Cart:        cartService,
		Users:       userService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to initialize "+name, err)
	os.Exit(1)
}
