package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/travelwire/travelwire/app/api"
	"github.com/travelwire/travelwire/app/cache"
	"github.com/travelwire/travelwire/app/cfg"
	"github.com/travelwire/travelwire/app/database"
	"github.com/travelwire/travelwire/app/extract"
	"github.com/travelwire/travelwire/app/fetch"
	"github.com/travelwire/travelwire/app/news"
	"github.com/travelwire/travelwire/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Travelwire", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	sourceRepo := database.NewSourceRepository(db)
	articleRepo := database.NewArticleRepository(db)

	configCache := news.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}

	// Sources created through the API in earlier runs rejoin the cache
	if userSources, err := sourceRepo.GetUserDefinedSources(); err != nil {
		slog.Warn("Failed to restore user-defined sources", "error", err)
	} else {
		for _, source := range userSources {
			sourceConfig, err := news.DecodeConfig(source.Name, source.Config)
			if err != nil {
				slog.Warn("Failed to restore user-defined source", "source", source.Name, "error", err)
				continue
			}
			sourceConfig.Settings.Enabled = source.Enabled
			if err := configCache.SetConfig(sourceConfig); err != nil {
				slog.Warn("Failed to restore user-defined source", "source", source.Name, "error", err)
			}
		}
	}
	slog.Info("Source configurations loaded", "count", configCache.GetConfigCount())

	var responseCache *cache.Cache
	if appCfg.RedisAddr != "" {
		responseCache, err = cache.New(appCfg.RedisAddr, time.Duration(appCfg.SchedulerInterval)*time.Second)
		if err != nil {
			slog.Warn("Response caching disabled", "error", err)
			responseCache = nil
		} else {
			defer responseCache.Close()
		}
	}

	httpClient := &http.Client{}
	fetcher := fetch.NewClient(httpClient, appCfg.UserAgent)

	var renderer *fetch.Renderer
	if appCfg.RenderingEnabled {
		renderer, err = fetch.NewRenderer()
		if err != nil {
			slog.Warn("Browser rendering disabled", "error", err)
			renderer = nil
		} else {
			defer renderer.Close()
		}
	}

	pageParser := news.NewPageParser()
	feedParser := news.NewFeedParser()
	filterer := news.NewFilterer()
	ranker := news.NewRanker()
	extractor := extract.NewContentExtractor()

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, sourceRepo, articleRepo, fetcher, renderer,
		pageParser, feedParser, filterer, ranker, extractor, responseCache)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(configCache, sourceRepo, articleRepo, filterer, scheduler, responseCache)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		if appCfg.BaseUrl != "" {
			slog.Info("HTTP server listening", "port", appCfg.Port, "base_url", appCfg.BaseUrl)
		} else {
			slog.Info("HTTP server listening", "port", appCfg.Port)
		}
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler and renderer are stopped via defer
	slog.Info("Shutdown complete")
}
