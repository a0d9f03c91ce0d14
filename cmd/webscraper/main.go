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

	"github.com/SanyamSharma26/universal-website-scraper/api"
	"github.com/SanyamSharma26/universal-website-scraper/cache"
	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/fetch"
	"github.com/SanyamSharma26/universal-website-scraper/interact"
	"github.com/SanyamSharma26/universal-website-scraper/render"
	"github.com/SanyamSharma26/universal-website-scraper/scrape"
	"github.com/SanyamSharma26/universal-website-scraper/segment"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("webscraper starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"maxPages", cfg.Browser.MaxPages,
	)

	// ── 3. Build the pipeline ───────────────────────────────────────
	seg := segment.New(cfg.Segment)
	static := fetch.NewStatic(cfg.Fetch, seg)

	// The browser is optional: when Chrome cannot be launched the service
	// degrades to static-only scraping and records a render error on
	// requests that need escalation.
	var renderer scrape.Renderer
	var interactor scrape.Interactor
	browser, err := render.NewBrowser(cfg.Browser, cfg.Fetch, seg)
	if err != nil {
		slog.Warn("browser unavailable, running static-only", "error", err)
	} else {
		defer browser.Close()
		renderer = scrape.NewBrowserRenderer(browser)
		interactor = scrape.NewDriverInteractor(interact.NewDriver(cfg.Interact))
	}

	orch := scrape.NewOrchestrator(cfg, static, renderer, interactor)
	defer orch.Close()

	// ── 4. Initialise cache ─────────────────────────────────────────
	cc := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)

	// ── 5. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(orch, cfg, cc)

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

	// browser.Close() runs via defer — drains the page pool and kills Chrome.
	slog.Info("webscraper stopped")
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
