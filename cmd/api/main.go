package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/navadeepnaidu7/xeno-fde-backend/api/routes"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/analytics"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/checkouts"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/ingest"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/syncer"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/tenants"
	shopifywebhook "github.com/navadeepnaidu7/xeno-fde-backend/internal/webhooks/shopify"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/config"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/metrics"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/migrate"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/redis"
	pkgshopify "github.com/navadeepnaidu7/xeno-fde-backend/pkg/shopify"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	tenantService, err := tenants.NewService(tenants.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create tenant service", err)
		os.Exit(1)
	}

	ingestService, err := ingest.NewService(ingest.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create ingest service", err)
		os.Exit(1)
	}

	checkoutService, err := checkouts.NewService(checkouts.NewRepository(dbClient.DB()), cfg.Sweeper.Threshold)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	reportCache := analytics.NewCache(redisClient, cfg.Cache.MetricsTTL, logg)
	analyticsService, err := analytics.NewService(analytics.NewRepository(dbClient.DB()), reportCache)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	webhookService, err := shopifywebhook.NewService(shopifywebhook.ServiceParams{
		Entities:  ingestService,
		Checkouts: checkoutService,
		Cache:     analyticsService,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	syncService, err := syncer.NewService(syncer.ServiceParams{
		Tenants:   tenants.NewRepository(dbClient.DB()),
		Store:     syncer.NewStoreAPI(pkgshopify.NewClient(cfg.Shopify)),
		Entities:  ingestService,
		Checkouts: checkoutService,
		Cache:     analyticsService,
		Config:    cfg.Shopify,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	webhookMetrics := metrics.NewWebhookMetrics(prometheus.DefaultRegisterer)

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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			tenantService,
			ingestService,
			checkoutService,
			analyticsService,
			syncService,
			webhookService,
			webhookMetrics,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
