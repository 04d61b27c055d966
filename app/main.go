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

	"github.com/quantbrief/quantbrief/app/analysis"
	"github.com/quantbrief/quantbrief/app/api"
	"github.com/quantbrief/quantbrief/app/cfg"
	"github.com/quantbrief/quantbrief/app/database"
	"github.com/quantbrief/quantbrief/app/digest"
	"github.com/quantbrief/quantbrief/app/feed"
	"github.com/quantbrief/quantbrief/app/llm"
	"github.com/quantbrief/quantbrief/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was requested
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Quantbrief server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	sourceCache := feed.NewSourceCache(appCfg.SourcesDir)
	if err := sourceCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", sourceCache.GetConfigCount())

	headlineRepo := database.NewHeadlineRepository(db)

	llmClient := llm.NewOpenAIClient(appCfg.OpenAIAPIKey, appCfg.OpenAIModel)
	analyzer := analysis.NewAnalyzer(llmClient)

	sender := digest.NewSMTPSender(appCfg.SMTPHost, appCfg.SMTPPort, appCfg.SMTPUsername,
		appCfg.SMTPPassword, appCfg.SMTPFrom, appCfg.DigestRecipients)
	if !sender.Configured() {
		slog.Warn("SMTP not fully configured, digest delivery disabled")
	}

	httpClient := &http.Client{}

	scheduler := tasks.NewScheduler(sourceCache, headlineRepo, httpClient, feed.NewParser(),
		feed.NewFilterer(), feed.NewNoveltyFilter(), analyzer, digest.NewFormatter(), sender)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(sourceCache, headlineRepo, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
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
