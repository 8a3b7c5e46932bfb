package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/currency-account-service/internal/application/service"
	"github.com/damon-houk/currency-account-service/internal/config"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/api"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/cache"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/db"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/handler"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/middleware"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.MustLoad()

	lvl, _ := logger.ParseLevel(cfg.Log.Level)
	log := logger.New(os.Stdout, cfg.Log.Format, lvl)
	logger.SetDefaultLogger(log)

	defaultBase := cfg.DefaultBaseCurrency()
	log.Info("Starting currency account service", map[string]interface{}{
		"addr":         cfg.HTTP.Addr,
		"db_path":      cfg.DB.Path,
		"default_base": defaultBase.String(),
	})

	if err := os.MkdirAll(cfg.DB.Path, 0o755); err != nil {
		log.Fatal("Failed to create database directory", map[string]interface{}{"error": err.Error()})
	}

	badgerOpts := badger.DefaultOptions(cfg.DB.Path)
	badgerOpts.Logger = nil

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{"error": err.Error()})
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	nbpClient := api.NewNBPAPIClient(api.ClientOptions{
		BaseURL:    cfg.NBP.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.NBP.Timeout},
		Cache:      cache.NewExchangeRateCache(cfg.NBP.CacheTTL),
		MaxRetries: cfg.NBP.MaxRetries,
	}, log.WithField("component", "nbp_client"))
	rates := service.NewInstrumentingRateProvider(m,
		api.NewNBPExchangeRateProvider(nbpClient, defaultBase, log.WithField("component", "rate_provider")))

	repo := db.NewBadgerAccountRepository(badgerDB)

	var accounts service.AccountService
	accounts = service.NewAccountService(repo, rates, defaultBase, cfg.Exchange.MaxAttempts)
	accounts = service.NewInstrumentingService(m, accounts)
	accounts = service.NewLoggingService(log.WithField("component", "account_service"), accounts)

	accountHandler := handler.NewAccountHandler(accounts, defaultBase, log.WithField("component", "handler"))

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware(m))
	accountHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.HTTP.Addr})
		serverErr <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", map[string]interface{}{"error": err.Error()})
		}
	case sig := <-stop:
		log.Info("Shutting down", map[string]interface{}{"signal": sig.String()})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
