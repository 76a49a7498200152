package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ayebare/dukapos/api/routes"
	cartsvc "github.com/ayebare/dukapos/internal/cart"
	"github.com/ayebare/dukapos/internal/catalog"
	"github.com/ayebare/dukapos/pkg/config"
	"github.com/ayebare/dukapos/pkg/logger"
	"github.com/ayebare/dukapos/pkg/metrics"
	"github.com/ayebare/dukapos/pkg/redis"
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

	remote, err := catalog.NewClient(cfg.Catalog)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cacheMetrics := metrics.NewCatalogCacheMetrics(registry)

	productCache := catalog.NewCache(remote, cfg.Cache, logg, cacheMetrics)

	cartStore, err := cartsvc.NewStore(cartsvc.Params{
		Storage:    redisClient,
		Products:   productCache,
		Orders:     remote,
		Logger:     logg,
		StorageKey: redisClient.CartKey(cfg.Cart.StorageKey),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build cart store", err)
		os.Exit(1)
	}

	report, err := cartStore.Initialize(context.Background())
	if err != nil {
		logg.Error(context.Background(), "failed to initialize cart", err)
		os.Exit(1)
	}
	if len(report.Dropped) > 0 || len(report.Clamped) > 0 {
		ctx := logg.WithFields(context.Background(), map[string]any{
			"dropped": report.Dropped,
			"clamped": report.Clamped,
		})
		logg.Warn(ctx, "cart reconciled against live catalog")
	}

	taxRate, err := cfg.Cart.ParsedTaxRate()
	if err != nil {
		logg.Error(context.Background(), "invalid tax rate", err)
		os.Exit(1)
	}

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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, productCache, remote, cartStore, registry, taxRate),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
