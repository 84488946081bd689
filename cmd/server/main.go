package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"rehearsal-hub/internal/api"
	"rehearsal-hub/internal/config"
	"rehearsal-hub/internal/hub"
	"rehearsal-hub/internal/logs"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// Root context, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Logger
	sink, err := logs.NewZap(logs.ParseLevel(cfg.Log.Level), cfg.Log.Development)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = sink.Sync() }()
	logger := logs.NewLogger(cfg.Log.BufferSize, logs.ParseLevel(cfg.Log.Level), sink)

	// Caches, one per data domain
	caches := hub.New(cfg.Caches, logger)
	defer caches.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := caches.Register(registry); err != nil {
		logger.Error("metrics registration failed", zap.Error(err))
		return
	}

	// API
	handler := api.NewHandler(caches, logger, registry)
	mux := http.NewServeMux()

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: api.RegisterRoutes(mux, handler),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", cfg.HTTP.Addr), zap.Strings("caches", caches.Names()))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
