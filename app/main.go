package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/headline-comb/app/api"
	"github.com/lysyi3m/headline-comb/app/cache"
	"github.com/lysyi3m/headline-comb/app/cfg"
	"github.com/lysyi3m/headline-comb/app/database"
	"github.com/lysyi3m/headline-comb/app/feed"
	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/lysyi3m/headline-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Headline Comb", "version", appCfg.Version)

	registry, err := feed.LoadRegistry(appCfg.FeedsFile)
	if err != nil {
		slog.Error("Failed to load feed registry", "error", err)
		os.Exit(1)
	}
	slog.Info("Feed registry loaded", "categories", len(registry.Categories()), "feeds", registry.FeedCount())

	window, err := feed.LoadTimeWindow(appCfg.Timezone)
	if err != nil {
		slog.Error("Failed to load time window", "error", err)
		os.Exit(1)
	}
	slog.Info("Time window timezone", "timezone", window.Location().String())

	httpClient := feed.NewHTTPClient()
	headlineCache := cache.New(appCfg.CacheTTL)

	var imageRepo *database.ImageRepository
	if appCfg.DBPath != "" {
		db, err := database.Open(appCfg.DBPath)
		if err != nil {
			slog.Error("Failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		imageRepo = database.NewImageRepository(db, appCfg.OGTTL)
	}

	pageOpts := feed.PageImageOptions{
		Timeout:       appCfg.OGTimeout,
		UserAgent:     appCfg.UserAgent,
		RatePerSecond: appCfg.OGRate,
		TTL:           appCfg.OGTTL,
	}
	if imageRepo != nil {
		pageOpts.Store = imageRepo
	}
	pageFinder := feed.NewPageImageFinder(httpClient, headlineCache, pageOpts)

	// Feed items only fall back to article pages when enabled; /api/og
	// always has the finder.
	var resolver *feed.ImageResolver
	if appCfg.OGImages {
		resolver = feed.NewImageResolver(pageFinder)
	} else {
		resolver = feed.NewImageResolver(nil)
	}

	fetcher := feed.NewHTTPFetcher(httpClient, feed.NewParser(), appCfg.UserAgent, appCfg.FetchTimeout)
	normalizer := feed.NewNormalizer(resolver, appCfg.Summaries)
	aggregator := feed.NewAggregator(registry, fetcher, normalizer, window)

	service := news.NewService(aggregator, headlineCache, pageFinder, news.Options{
		Aggregate: feed.AggregateOptions{
			TimeWindow: appCfg.TimeWindow,
			StripFluff: appCfg.StripFluff,
		},
		CategoryTTL: appCfg.CacheTTL,
		LocalTTL:    appCfg.LocalTTL,
		SearchURL:   appCfg.SearchURL,
	})

	var scheduler tasks.TaskSchedulerInterface
	if appCfg.WarmInterval > 0 {
		var images tasks.StaleImageDeleter
		if imageRepo != nil {
			images = imageRepo
		}
		warmer := tasks.NewScheduler(service, headlineCache, images, appCfg.WarmInterval, appCfg.WorkerCount)
		slog.Info("Starting cache warm-up", "interval", appCfg.WarmInterval, "workers", appCfg.WorkerCount)
		warmer.Start()
		defer warmer.Stop()
		scheduler = warmer
	}

	baseURL := cmp.Or(appCfg.BaseUrl, "http://localhost:"+appCfg.Port)
	apiHandler := api.NewHandler(service, scheduler, baseURL, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "base_url", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Headline Comb shutdown complete")
}
