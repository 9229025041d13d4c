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

	"github.com/tallypos/terminal/api/routes"
	"github.com/tallypos/terminal/internal/cart"
	"github.com/tallypos/terminal/internal/catalog"
	checkoutsvc "github.com/tallypos/terminal/internal/checkout"
	"github.com/tallypos/terminal/internal/customers"
	"github.com/tallypos/terminal/internal/history"
	"github.com/tallypos/terminal/internal/receipt"
	"github.com/tallypos/terminal/internal/session"
	"github.com/tallypos/terminal/pkg/backend"
	"github.com/tallypos/terminal/pkg/config"
	"github.com/tallypos/terminal/pkg/localstore"
	"github.com/tallypos/terminal/pkg/logger"
	"github.com/tallypos/terminal/pkg/metrics"
)

const version = "1.0.0"

func main() {
	logg := logger.New(logger.Options{ServiceName: "terminal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "terminal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := localstore.Open(context.Background(), cfg.Store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open local store", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing local store", err)
		}
	}()

	tokens := session.NewTokenHolder()
	client, err := backend.NewClient(cfg.Backend, tokens, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build backend client", err)
		os.Exit(1)
	}

	guard, err := session.NewService(client, tokens, store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build session guard", err)
		os.Exit(1)
	}
	if identity, err := guard.Restore(context.Background()); err != nil {
		logg.Warn(context.Background(), "session restore failed: "+err.Error())
	} else if identity != nil {
		logg.Info(logg.WithCashier(context.Background(), identity.Username), "previous session restored")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	terminalMetrics := metrics.NewTerminalMetrics(registry)

	cartSvc := cart.NewService()

	checkoutSvc, err := checkoutsvc.NewService(cartSvc, client, terminalMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build checkout orchestrator", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(client, terminalMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog service", err)
		os.Exit(1)
	}
	searcher := catalog.NewSearcher(catalogSvc, cfg.Catalog.Debounce())
	defer searcher.Close()
	customersSvc, err := customers.NewService(client, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build customer service", err)
		os.Exit(1)
	}
	historySvc, err := history.NewService(client, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build history service", err)
		os.Exit(1)
	}
	formatter := receipt.NewFormatter(cfg.Receipt.StoreName, cfg.Receipt.TagLine)

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": client.BaseURL(),
	})
	logg.Info(ctx, "starting terminal daemon")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Version:         version,
			Logger:          logg,
			Guard:           guard,
			Backend:         client,
			Cart:            cartSvc,
			Checkout:        checkoutSvc,
			Catalog:         catalogSvc,
			Searcher:        searcher,
			Customers:       customersSvc,
			History:         historySvc,
			Formatter:       formatter,
			Store:           store,
			TerminalMetrics: terminalMetrics,
			Registry:        registry,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "terminal daemon stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
