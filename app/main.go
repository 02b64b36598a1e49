package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facetlab/gemfeed/app/aggregator"
	"github.com/facetlab/gemfeed/app/api"
	"github.com/facetlab/gemfeed/app/article"
	"github.com/facetlab/gemfeed/app/cache"
	"github.com/facetlab/gemfeed/app/cfg"
	"github.com/facetlab/gemfeed/app/sources"
	"github.com/facetlab/gemfeed/app/tasks"
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

	slog.Info("Starting GemFeed server", "version", appCfg.Version)

	db, err := cache.NewConnection(appCfg.CachePath)
	if err != nil {
		slog.Error("Failed to open cache database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := cache.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run cache migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Cache database ready", "migration_version", version, "dirty", dirty)

	sourcesConfig, err := sources.LoadConfig(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load sources configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Sources configuration loaded",
		"wikipedia_topics", len(sourcesConfig.Topics),
		"feeds", len(sourcesConfig.Feeds),
		"domains", len(sourcesConfig.Domains))

	store := cache.NewStore(db)
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}
	qualityFilter := article.NewQualityFilter()

	wikipedia := sources.NewWikipediaAdapter(store, httpClient, sourcesConfig.Topics,
		time.Duration(appCfg.WikipediaTTL)*time.Hour, appCfg.UserAgent)
	rss := sources.NewRSSAdapter(store, httpClient, sourcesConfig.Feeds, qualityFilter,
		time.Duration(appCfg.RSSTTL)*time.Hour, appCfg.UserAgent)
	external := sources.NewExternalAdapter(store, httpClient, sourcesConfig.Domains, sourcesConfig.SearchQuery,
		qualityFilter, appCfg.ExaAPIKey, appCfg.JinaAPIKey,
		time.Duration(appCfg.ExternalTTL)*time.Hour, appCfg.UserAgent)

	adapters := []sources.Adapter{wikipedia, rss, external}
	agg := aggregator.New(adapters...)

	scheduler := tasks.NewScheduler(adapters)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(agg)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
