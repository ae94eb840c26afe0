package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-bff/api/routes"
	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/internal/commerce"
	"github.com/angelmondragon/storefront-bff/internal/orders"
	"github.com/angelmondragon/storefront-bff/internal/payment"
	"github.com/angelmondragon/storefront-bff/internal/products"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/env"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
	"github.com/angelmondragon/storefront-bff/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	gateway, err := commerce.NewClient(cfg.Commerce, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build commerce gateway", err)
		os.Exit(1)
	}

	productService, err := products.NewService(gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to build product service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to build order service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to build checkout service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart store", err)
		os.Exit(1)
	}
	cartManager, err := cart.NewManager(cartStore, checkoutService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart manager", err)
		os.Exit(1)
	}

	widgetProvider, err := payment.NewProvider(cfg.Razorpay)
	if err != nil {
		logg.Error(context.Background(), "failed to build payment provider", err)
		os.Exit(1)
	}
	paymentFlow, err := payment.NewOrchestrator(cartManager, checkoutService, widgetProvider, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build payment orchestrator", err)
		os.Exit(1)
	}

	metricsReg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(metricsReg)

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"channel": cfg.Commerce.Channel,
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			Redis:      redisClient,
			Products:   productService,
			Orders:     orderService,
			Checkout:   checkoutService,
			Cart:       cartManager,
			Payment:    paymentFlow,
			Gateway:    gateway,
			Metrics:    httpMetrics,
			MetricsReg: metricsReg,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")

		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		closeErr := multierr.Append(server.Shutdown(drainCtx), redisClient.Close())
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
