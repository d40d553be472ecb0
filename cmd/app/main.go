package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "itsync/docs"
	"itsync/internal/adapters/azure"
	"itsync/internal/adapters/freshservice"
	httpadapter "itsync/internal/adapters/http"
	"itsync/internal/adapters/meraki"
	"itsync/internal/adapters/repository/memory"
	"itsync/internal/adapters/repository/postgres"
	"itsync/internal/config"
	"itsync/internal/core/ports"
	"itsync/internal/core/services"
	"itsync/internal/logger"
)

// Package main IT Dashboard Sync Service.
//
// @title IT Dashboard Sync Service
// @version 1.0
// @description Synchronises network devices, service desk tickets and directory users into the IT dashboard store.
//
// @BasePath /
func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		// logger is not configured yet
		_, _ = os.Stderr.WriteString("Error loading .env file: " + err.Error() + "\n")
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var svcs httpadapter.Services

	if cfg.Meraki.Enabled() {
		client := meraki.NewClient(cfg.Meraki, httpClient, logger.WithComponent(log, "meraki"))
		svcs.Network = services.NewNetworkSyncService(client, store, cfg.Meraki.ReportDays, cfg.Workers,
			logger.WithComponent(log, "network_sync"))
	} else {
		log.Warn().Msg("MERAKI_API_KEY not set, meraki sync disabled")
	}

	if cfg.Freshservice.Enabled() {
		client := freshservice.NewClient(cfg.Freshservice, httpClient, logger.WithComponent(log, "freshservice"))
		svcs.ServiceDesk = services.NewServiceDeskSyncService(client, store, store, cfg.Freshservice.LookbackDays,
			logger.WithComponent(log, "servicedesk_sync"))
	} else {
		log.Warn().Msg("freshservice credentials not set, freshservice sync disabled")
	}

	if cfg.Azure.Enabled() {
		dirs := make([]ports.Directory, 0, len(cfg.Azure.Tenants))
		for _, tenant := range cfg.Azure.Tenants {
			dirs = append(dirs, azure.NewClient(ctx, cfg.Azure, tenant, httpClient, logger.WithComponent(log, "azure")))
		}
		svcs.Directory = services.NewDirectorySyncService(dirs, store, store, logger.WithComponent(log, "directory_sync"))
	} else {
		log.Warn().Msg("no azure tenants configured, directory sync disabled")
	}

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	httpadapter.RegisterRoutes(r, svcs, logger.WithComponent(log, "http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// openStore connects to postgres when DATABASE_URL is set and falls back to
// the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		store := memory.NewStore()

		if cfg.DeviceCSV != "" {
			if err := store.LoadDevicesFromCSV(cfg.DeviceCSV); err != nil {
				return nil, nil, err
			}
			log.Info().Str("path", cfg.DeviceCSV).Int("devices", store.Count()).Msg("devices loaded")
		}

		log.Warn().Msg("DATABASE_URL not set, using in-memory store")

		return store, func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:             cfg.DatabaseURL,
		ApplicationName: "itsync",
		MaxConns:        int32(cfg.Workers) + 2,
	}, logger.WithComponent(log, "postgres"))
	if err != nil {
		return nil, nil, err
	}

	return postgres.NewStore(pool), pool.Close, nil
}
