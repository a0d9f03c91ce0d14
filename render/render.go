package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/SanyamSharma26/universal-website-scraper/fetch"
	"github.com/SanyamSharma26/universal-website-scraper/models"
	"github.com/SanyamSharma26/universal-website-scraper/segment"
)

// removeNoiseJS structurally deletes cookie banners, modals, overlays and
// consent forms from the live DOM so they cannot intercept interaction
// clicks. The selector set mirrors segment.StripNoise.
const removeNoiseJS = `() => {
	const selectors = [
		'[class*="cookie" i]', '[id*="cookie" i]',
		'[class*="modal" i]', '[id*="modal" i]',
		'[class*="overlay" i]', '[id*="overlay" i]',
		'[class*="popup" i]', '[id*="popup" i]',
		'[class*="banner" i]', '[id*="banner" i]',
		'[class*="consent" i]', '[id*="consent" i]',
		'[aria-label*="cookie" i]', '[aria-label*="consent" i]',
		'.gdpr', '#gdpr',
	];
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach(el => el.remove());
	}
	document.documentElement.style.overflow = '';
	if (document.body) document.body.style.overflow = '';
}`

// Render loads rawURL in a stealth-configured page, waits for quiescence and
// segments the live DOM. It never returns a Go error: failures are recorded
// on the outcome with whatever partial sections could be salvaged.
//
// On success the returned Session holds the live page for the interaction
// driver and MUST be closed by the caller on every exit path. On failure the
// session is already released and nil is returned.
//
// Lifecycle (order matters):
//
//  1. Acquire page from pool
//  2. Stealth injection + UA/viewport override — before navigation, or they
//     don't apply to the target page's scripts
//  3. Hijack mount — before navigation, for the same reason
//  4. Context binding — propagates the page timeout to all Rod operations
//  5. Navigate, wait DOM-stable (WaitRequestIdle's Fetch domain conflicts
//     with the hijack router, so the DOM-stable wait is used instead),
//     wait for body
//  6. Human-timing delay, live noise removal, snapshot + segment
func (b *Browser) Render(ctx context.Context, rawURL string) (*fetch.Outcome, *Session) {
	outcome := &fetch.Outcome{Strategy: fetch.StrategyJS}

	page, err := b.acquirePage()
	if err != nil {
		outcome.Errors = append(outcome.Errors, models.NewScrapeError(models.PhaseRender,
			fmt.Sprintf("failed to acquire browser page: %v", err)))
		return outcome, nil
	}

	session := &Session{page: page, browser: b}

	ctx, cancel := context.WithTimeout(ctx, b.fetchCfg.PageTimeout)
	defer cancel()

	if err := b.preparePage(page); err != nil {
		slog.Warn("stealth preparation incomplete, proceeding", "error", err)
	}

	router := setupHijack(page, b.cfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	setReferer(p, rawURL)

	if err := p.Navigate(rawURL); err != nil {
		outcome.Errors = append(outcome.Errors, renderError(err, "navigation failed"))
		b.salvage(outcome, session, rawURL)
		session.Close()
		return outcome, nil
	}

	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}

	if _, err := p.Element("body"); err != nil {
		outcome.Errors = append(outcome.Errors, renderError(err, "root content element never appeared"))
		b.salvage(outcome, session, rawURL)
		session.Close()
		return outcome, nil
	}

	// Randomized human-like pause before touching the page.
	sleepWithContext(ctx, time.Duration(500+rand.Intn(1000))*time.Millisecond)

	_, _ = p.Eval(removeNoiseJS)

	sections, doc, err := session.Snapshot()
	if err != nil {
		outcome.Errors = append(outcome.Errors, renderError(err, "failed to extract rendered DOM"))
		session.Close()
		return outcome, nil
	}

	outcome.Sections = sections
	outcome.Doc = doc
	outcome.Meta = segment.ExtractMeta(doc, session.CurrentURL())
	outcome.Meta.Strategy = fetch.StrategyJS
	outcome.Sufficient = len(sections) > 0
	return outcome, session
}

// preparePage installs stealth JS and realistic fingerprint overrides on the
// page. Must run before navigation.
func (b *Browser) preparePage(page *rod.Page) error {
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		return fmt.Errorf("stealth injection: %w", err)
	}

	ua := ""
	if len(b.fetchCfg.UserAgents) > 0 {
		ua = b.fetchCfg.UserAgents[rand.Intn(len(b.fetchCfg.UserAgents))]
	}
	if ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      ua,
			AcceptLanguage: "en-US,en;q=0.9",
		}); err != nil {
			return fmt.Errorf("user agent override: %w", err)
		}
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("viewport override: %w", err)
	}

	return nil
}

// setReferer sends a Google search referer for the target host, making the
// visit look like an organic arrival. Installed per navigation.
func setReferer(page *rod.Page, rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{
			"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
		},
	}.Call(page)
}

// salvage tries to extract whatever sections exist in the partially loaded
// DOM after a render failure.
func (b *Browser) salvage(outcome *fetch.Outcome, session *Session, rawURL string) {
	sections, doc, err := session.Snapshot()
	if err != nil {
		return
	}
	outcome.Sections = sections
	outcome.Doc = doc
	outcome.Meta = segment.ExtractMeta(doc, rawURL)
	outcome.Meta.Strategy = fetch.StrategyJS
}

// renderError tags browser failures with the render phase, distinguishing
// timeouts from navigation errors.
func renderError(err error, msg string) models.ScrapeError {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewScrapeError(models.PhaseRender,
			fmt.Sprintf("%s: page timeout exceeded", msg)).
			WithSuggestion("The page may be slow or blocking headless browsers; try a longer page timeout.")
	}
	return models.NewScrapeError(models.PhaseRender, fmt.Sprintf("%s: %v", msg, err))
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
