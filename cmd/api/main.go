package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/summit/internal/advice"
	"github.com/MrJamesThe3rd/summit/internal/config"
	"github.com/MrJamesThe3rd/summit/internal/debt"
	debtStore "github.com/MrJamesThe3rd/summit/internal/debt/store"
	"github.com/MrJamesThe3rd/summit/internal/export"
	summitHttp "github.com/MrJamesThe3rd/summit/internal/http"
	adviceHandler "github.com/MrJamesThe3rd/summit/internal/http/advice"
	debtHandler "github.com/MrJamesThe3rd/summit/internal/http/debt"
	exportHandler "github.com/MrJamesThe3rd/summit/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/summit/internal/http/importcsv"
	planHandler "github.com/MrJamesThe3rd/summit/internal/http/plan"
	"github.com/MrJamesThe3rd/summit/internal/importer"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
	"github.com/MrJamesThe3rd/summit/internal/plan/cache"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	strategy, err := payoff.ParseStrategy(cfg.Plan.Strategy)
	if err != nil {
		slog.Error("invalid default strategy", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	planCache, closeCache, err := cache.Open(ctx, cfg.Cache.RedisAddr)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	var (
		debtService   = debt.NewService(debtStore.New())
		importService = importer.NewService()
		adviceClient  = advice.NewClient(cfg.Advice.BaseURL, cfg.Advice.Model, cfg.Advice.APIKey, cfg.Advice.Timeout)
		planService   = plan.NewService(debtService, planCache, cfg.Cache.TTL, plan.Defaults{
			Strategy:       strategy,
			ExtraPayment:   cfg.Plan.ExtraPayment,
			MaxMonths:      cfg.Plan.MaxMonths,
			Epsilon:        cfg.Plan.Epsilon,
			MaxMonthsLimit: cfg.Plan.MaxMonthsLimit,
		})
		exportService = export.NewService(planService)
	)

	var (
		debtH   = debtHandler.NewHandler(debtService)
		importH = importHandler.NewHandler(importService, debtService)
		planH   = planHandler.NewHandler(planService)
		exportH = exportHandler.NewHandler(exportService)
		adviceH = adviceHandler.NewHandler(adviceClient, debtService)
	)

	router := summitHttp.New(summitHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Server.JWTSecret,
	}, debtH, importH, planH, exportH, adviceH)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	serverErr := make(chan error, 1)

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		slog.Error("server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
}
