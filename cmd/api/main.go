package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventocaixa/backend/api/routes"
	internalauth "github.com/eventocaixa/backend/internal/auth"
	"github.com/eventocaixa/backend/internal/cashbox"
	"github.com/eventocaixa/backend/internal/export"
	"github.com/eventocaixa/backend/internal/inventory"
	"github.com/eventocaixa/backend/internal/investments"
	"github.com/eventocaixa/backend/internal/payables"
	"github.com/eventocaixa/backend/internal/reversals"
	"github.com/eventocaixa/backend/internal/settlements"
	"github.com/eventocaixa/backend/internal/totals"
	"github.com/eventocaixa/backend/pkg/auth/session"
	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/config"
	"github.com/eventocaixa/backend/pkg/db"
	"github.com/eventocaixa/backend/pkg/logger"
	"github.com/eventocaixa/backend/pkg/metrics"
	"github.com/eventocaixa/backend/pkg/migrate"
	"github.com/eventocaixa/backend/pkg/redis"
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

	clk, err := clock.New(cfg.Time.Zone)
	if err != nil {
		logg.Error(context.Background(), "failed to load timezone", err)
		os.Exit(1)
	}

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

	if err := migrate.MaybeAutoMigrate(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run auto migrations", err)
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	sessionsRepo := cashbox.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	reversalsRepo := reversals.NewRepository(dbClient.DB())
	suppliersRepo := payables.NewRepository(dbClient.DB())
	investorsRepo := investments.NewRepository(dbClient.DB())
	settlementsRepo := settlements.NewRepository(dbClient.DB())

	authService, err := internalauth.NewService(sessionManager, cfg.JWT, cfg.Admin)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	sessionsService, err := cashbox.NewService(sessionsRepo, inventoryRepo, dbClient, clk)
	if err != nil {
		logg.Error(context.Background(), "failed to create sessions service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventoryRepo, sessionsRepo, clk)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	reversalsService, err := reversals.NewService(reversalsRepo, sessionsRepo, clk)
	if err != nil {
		logg.Error(context.Background(), "failed to create reversals service", err)
		os.Exit(1)
	}
	suppliersService, err := payables.NewService(suppliersRepo, settlementsRepo, dbClient, clk)
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}
	investorsService, err := investments.NewService(investorsRepo, settlementsRepo, dbClient, clk)
	if err != nil {
		logg.Error(context.Background(), "failed to create investors service", err)
		os.Exit(1)
	}
	totalsService, err := totals.NewService(sessionsRepo, reversalsRepo, suppliersRepo, investorsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create totals service", err)
		os.Exit(1)
	}
	exportService, err := export.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionChecker: sessionManager,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

			Auth:      authService,
			Sessions:  sessionsService,
			Inventory: inventoryService,
			Reversals: reversalsService,
			Suppliers: suppliersService,
			Investors: investorsService,
			Totals:    totalsService,
			Export:    exportService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
