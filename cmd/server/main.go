// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/rfmboard/internal/api"
	"github.com/tomtom215/rfmboard/internal/cache"
	"github.com/tomtom215/rfmboard/internal/config"
	"github.com/tomtom215/rfmboard/internal/database"
	"github.com/tomtom215/rfmboard/internal/dataset"
	"github.com/tomtom215/rfmboard/internal/logging"
	"github.com/tomtom215/rfmboard/internal/supervisor"
	"github.com/tomtom215/rfmboard/internal/supervisor/services"
	ws "github.com/tomtom215/rfmboard/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
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
		Str("version", version).
		Str("data_dir", cfg.Data.Dir).
		Strs("files", cfg.Data.FileNames()).
		Bool("watch", cfg.Data.Watch).
		Msg("Starting RFMBoard")

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	manager := dataset.NewManager(dataset.NewLoader(db, cfg.Data), cfg.Data)

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.New("results", cfg.Cache.TTL, cfg.Cache.MaxEntries)
		defer resultCache.Close()
	}

	wsHub := ws.NewHub()
	handler := api.NewHandler(manager, cfg, resultCache, wsHub, version)
	manager.OnReload(handler.OnDatasetReload)

	// The server starts even when the files are missing; the dashboard then
	// reports the warning until a reload succeeds.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	snap, err := manager.Reload(loadCtx)
	loadCancel()
	if err != nil {
		logging.Warn().Err(err).Str("warning", snap.Warning).Msg("Initial dataset load failed, serving degraded")
	} else {
		logging.Info().
			Uint64("generation", snap.Generation).
			Int("rows", len(snap.Clustered)).
			Dur("duration", snap.LoadDuration).
			Msg("Dataset loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	router := api.NewRouter(handler, api.NewChiMiddlewareFromSecurity(cfg.Security))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if cfg.Data.Watch {
		tree.AddDataService(dataset.NewWatcher(manager, cfg.Data))
		logging.Info().Msg("Dataset watcher added to supervisor tree")
	}
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if n := tree.LogUnstoppedServices(); n > 0 {
		logging.Warn().Int("count", n).Msg("Services failed to stop within timeout")
	}
	logging.Info().Msg("Application stopped gracefully")
}
