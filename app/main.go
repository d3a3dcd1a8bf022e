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

	"github.com/vkoselev/feedharvest/app/api"
	"github.com/vkoselev/feedharvest/app/cfg"
	"github.com/vkoselev/feedharvest/app/database"
	"github.com/vkoselev/feedharvest/app/extract"
	"github.com/vkoselev/feedharvest/app/feed"
	"github.com/vkoselev/feedharvest/app/resolve"
	"github.com/vkoselev/feedharvest/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting feedharvest", "version", appCfg.Version, "command", appCfg.Command)

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

	feedURLs, err := cfg.LoadFeeds(appCfg.FeedsFile)
	if err != nil {
		slog.Error("Failed to load feeds file", "path", appCfg.FeedsFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Feeds loaded", "path", appCfg.FeedsFile, "count", len(feedURLs))

	itemRepo := database.NewItemRepository(db)
	pageRepo := database.NewPageRepository(db)
	textRepo := database.NewTextRepository(db)

	timeout := time.Duration(appCfg.Timeout) * time.Second
	httpClient := &http.Client{}

	parser := feed.NewParser()
	ingestor := feed.NewIngestor(httpClient, parser, itemRepo, appCfg.UserAgent, timeout)
	resolver := resolve.NewResolver(httpClient, appCfg.UserAgent, timeout)
	extractor := extract.NewExtractor()

	var fallback *extract.Fallback
	if appCfg.ReadabilityFallback {
		fallback = extract.NewFallback()
	}

	ctx := context.Background()

	switch appCfg.Command {
	case "fetch":
		task := tasks.NewFetchFeedsTask(feedURLs, ingestor, itemRepo)
		task.Start()
		if err := task.Execute(ctx); err != nil {
			slog.Error("Fetch failed", "error", err)
			os.Exit(1)
		}
	case "download":
		task := tasks.NewDownloadTask(appCfg.MaxItems, httpClient, resolver, itemRepo, pageRepo,
			appCfg.UserAgent, timeout)
		task.Start()
		if err := task.Execute(ctx); err != nil {
			slog.Error("Download failed", "error", err)
			os.Exit(1)
		}
	case "extract":
		task := tasks.NewExtractTask(appCfg.MaxItems, extractor, fallback, pageRepo, textRepo)
		task.Start()
		if err := task.Execute(ctx); err != nil {
			slog.Error("Extraction failed", "error", err)
			os.Exit(1)
		}
	case "server":
		runServer(appCfg, feedURLs, ingestor, resolver, extractor, fallback, httpClient,
			itemRepo, pageRepo, textRepo, timeout)
	default:
		slog.Error("Unknown command", "command", appCfg.Command)
		os.Exit(1)
	}
}

func runServer(appCfg *cfg.Cfg, feedURLs []string, ingestor *feed.Ingestor,
	resolver *resolve.Resolver, extractor *extract.Extractor, fallback *extract.Fallback,
	httpClient *http.Client, itemRepo database.ItemRepository,
	pageRepo database.PageRepository, textRepo database.TextRepository,
	timeout time.Duration) {

	scheduler := tasks.NewScheduler(feedURLs, ingestor, resolver, extractor, fallback,
		httpClient, itemRepo, pageRepo, textRepo, appCfg.UserAgent, appCfg.MaxItems,
		timeout, time.Duration(appCfg.SchedulerInterval)*time.Second, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(itemRepo, pageRepo, textRepo)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
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

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
