// Command server runs the clients HTTP API.
//
//	@title			Clients API
//	@version		1.0
//	@description	API for managing clients in the system
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/maxviazov/clients-service/internal/config"
	"github.com/maxviazov/clients-service/internal/handler"
	"github.com/maxviazov/clients-service/internal/logger"
	"github.com/maxviazov/clients-service/internal/metrics"
	"github.com/maxviazov/clients-service/internal/service"
	"github.com/maxviazov/clients-service/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file (empty for env only)")
	flag.Parse()

	// Load application config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("❌ Store initialization failed")
	}
	defer store.Close()

	var m *metrics.Metrics
	var observer service.QueryObserver
	if cfg.Metrics.Enabled {
		m = metrics.New()
		observer = m
	}

	router := handler.NewRouter(handler.RouterDeps{
		Config:  cfg,
		Logger:  appLogger,
		Store:   store.Pinger,
		Clients: service.NewClientService(store.Clients, appLogger, observer),
		Metrics: m,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadDuration(),
		WriteTimeout: cfg.HTTP.WriteDuration(),
		IdleTimeout:  cfg.HTTP.IdleDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info().
			Str("addr", srv.Addr).
			Str("store", store.Driver).
			Bool("metrics", cfg.Metrics.Enabled).
			Bool("docs", cfg.Docs.Enabled).
			Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownDuration())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error().Err(err).Msg("server stopped with error")
		return
	}
	appLogger.Info().Msg("server stopped")
}
