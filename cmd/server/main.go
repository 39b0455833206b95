// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/reelsync/internal/api"
	"github.com/tomtom215/reelsync/internal/cache"
	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/eventprocessor"
	"github.com/tomtom215/reelsync/internal/loader"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/supervisor"
	"github.com/tomtom215/reelsync/internal/supervisor/services"
	"github.com/tomtom215/reelsync/internal/sync"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

const (
	badgerGCInterval    = 10 * time.Minute
	badgerDiscardRatio  = 0.5
	serviceStopTimeout  = 10 * time.Second
	eventsStopTimeout   = 15 * time.Second
	supervisorBackoff   = 15 * time.Second
	supervisorThreshold = 5
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("driver", cfg.Database.Driver).
		Str("tmdb_base_url", cfg.TMDB.BaseURL).
		Dur("interval", cfg.Sync.Interval).
		Dur("full_interval", cfg.Sync.FullInterval).
		Msg("Starting Reelsync")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Reelsync stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("driver", db.Driver()).Msg("Database initialized")

	client := tmdb.NewCircuitBreakerClient(&cfg.TMDB)

	var badgerStore *cache.BadgerStore
	if cfg.Cache.BadgerEnabled {
		badgerStore, err = cache.OpenBadgerStore(cache.BadgerConfig{
			Path: cfg.Cache.BadgerPath,
			TTL:  cfg.Cache.ResponseTTL,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := badgerStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing response cache")
			}
		}()
		client.SetResponseCache(badgerStore)
		logging.Info().Str("path", cfg.Cache.BadgerPath).Msg("TMDB response cache enabled")
	}

	discoveryCache := cache.New(cfg.Cache.TTL)
	defer discoveryCache.Close()

	ldr := loader.New(client, db.Stores(), discoveryCache, loader.OptionsFromConfig(cfg))
	manager := sync.NewManager(ldr, db, cfg.Sync)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: supervisorThreshold,
		FailureBackoff:   supervisorBackoff,
		ShutdownTimeout:  serviceStopTimeout,
	})
	if err != nil {
		return err
	}

	if badgerStore != nil {
		tree.AddDataService(services.NewMaintenanceService("badger-gc", badgerGCInterval, func(context.Context) error {
			return badgerStore.RunGC(badgerDiscardRatio)
		}))
	}

	if cfg.NATS.Enabled {
		components := eventprocessor.NewComponents(eventprocessor.ComponentsConfigFromConfig(&cfg.NATS))
		manager.SetPublisher(components)
		tree.AddMessagingService(services.NewEventsService(components, eventsStopTimeout))
		logging.Info().Str("url", cfg.NATS.URL).Bool("embedded", cfg.NATS.EmbeddedServer).Msg("Run event publishing enabled")
	}
	tree.AddMessagingService(services.NewSyncService(manager))

	router := api.NewRouter(api.NewHandler(db, manager), cfg.Server)
	server := api.NewServer(cfg.Server, router.Setup())
	tree.AddAPIService(services.NewHTTPServerService(server, serviceStopTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = err
		}
	}
	cancel()
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	return serveErr
}
