// Package render drives a stealth-configured headless browser: it loads
// pages the static path could not, waits for quiescence, and hands live
// sessions to the interaction driver.
package render

import (
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/segment"
)

// Browser manages the global browser lifecycle and the page pool.
// It is safe for concurrent use; each render borrows one page.
type Browser struct {
	browser  *rod.Browser
	pagePool rod.Pool[rod.Page]
	cfg      config.BrowserConfig
	fetchCfg config.FetchConfig
	seg      *segment.Segmenter
}

// NewBrowser launches a headless browser and initialises the reusable page
// pool. The launch flags strip automation-detectable signals before any
// target page script runs.
func NewBrowser(cfg config.BrowserConfig, fetchCfg config.FetchConfig, seg *segment.Segmenter) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-ipc-flooding-protection"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("render: launch browser: %w", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("render: connect to browser: %w", err)
	}

	pool := rod.NewPagePool(cfg.MaxPages)
	slog.Info("page pool created", "maxPages", cfg.MaxPages)

	return &Browser{
		browser:  browser,
		pagePool: pool,
		cfg:      cfg,
		fetchCfg: fetchCfg,
		seg:      seg,
	}, nil
}

// acquirePage borrows a tab from the pool, creating one if needed.
func (b *Browser) acquirePage() (*rod.Page, error) {
	return b.pagePool.Get(func() (*rod.Page, error) {
		return b.browser.Page(proto.TargetCreateTarget{})
	})
}

// releasePage navigates the tab to about:blank (dropping the old DOM so it
// cannot leak) and returns it to the pool. Uses the original page reference
// so cleanup succeeds even after the request context expired.
func (b *Browser) releasePage(page *rod.Page) {
	if err := page.Navigate("about:blank"); err != nil {
		slog.Warn("cleanup: failed to navigate to about:blank", "error", err)
	}
	b.pagePool.Put(page)
}

// Close drains the page pool and kills the browser process.
// Call on graceful shutdown to prevent zombie Chrome processes.
func (b *Browser) Close() {
	slog.Info("render shutting down: draining page pool")
	b.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	slog.Info("render shutting down: closing browser")
	b.browser.MustClose()
	slog.Info("render shutdown complete")
}
