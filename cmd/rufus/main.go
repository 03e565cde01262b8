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

	"github.com/joho/godotenv"

	"github.com/rufuslabs/rufus/api"
	"github.com/rufuslabs/rufus/cleaner"
	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/crawler"
	"github.com/rufuslabs/rufus/embedding"
	"github.com/rufuslabs/rufus/extractor"
	"github.com/rufuslabs/rufus/rufus"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	_ = godotenv.Load()
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("rufus starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"delay", cfg.Crawler.Delay,
	)

	if cfg.Embedding.APIKey == "" {
		slog.Error("embedding API key is required", "env", "RUFUS_EMBEDDING_API_KEY")
		os.Exit(1)
	}

	// ── 3. Wire crawl pipeline ──────────────────────────────────────
	pages := crawler.NewPageCache()
	cr := crawler.New(
		crawler.NewHTTPFetcher(cfg.Crawler),
		crawler.NewPDFExtractor(),
		cleaner.NewCleaner(),
		pages,
		cfg.Crawler,
		crawler.SlogObserver{},
	)

	// ── 4. Wire extraction pipeline ─────────────────────────────────
	ex := extractor.New(embedding.NewClient(cfg.Embedding))

	client := rufus.New(cr, ex, pages)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(client, cfg, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("rufus stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
