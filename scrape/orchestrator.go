// Package scrape is the top-level controller of the adaptive extraction
// engine. It decides between the static and rendered fetch strategies,
// drives interaction simulation, aggregates sections across pages and
// phases, and assembles the final PageDocument.
package scrape

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/fetch"
	"github.com/SanyamSharma26/universal-website-scraper/interact"
	"github.com/SanyamSharma26/universal-website-scraper/models"
	"github.com/SanyamSharma26/universal-website-scraper/simhash"
)

// phase is the orchestrator's state. Every path ends in phaseDone; failures
// pass through phaseError but still assemble a partial document.
type phase int

const (
	phaseInit phase = iota
	phaseStaticAttempted
	phaseSufficient
	phaseEscalateToJS
	phaseJSRendered
	phaseInteracting
	phaseError
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseInit:
		return "INIT"
	case phaseStaticAttempted:
		return "STATIC_ATTEMPTED"
	case phaseSufficient:
		return "SUFFICIENT"
	case phaseEscalateToJS:
		return "ESCALATE_TO_JS"
	case phaseJSRendered:
		return "JS_RENDERED"
	case phaseInteracting:
		return "INTERACTING"
	case phaseError:
		return "ERROR"
	default:
		return "DONE"
	}
}

// dedupThreshold is the max Hamming distance between section text
// fingerprints still considered the same content.
const dedupThreshold = 3

// StaticFetcher is the fast path: one GET, no script execution.
type StaticFetcher interface {
	Fetch(ctx context.Context, url string) *fetch.Outcome
}

// Session is a live rendered page owned by one request. It must be closed
// on every exit path.
type Session interface {
	Close()
}

// Renderer is the full browser-rendering path. A nil Session means the
// render failed and was already released.
type Renderer interface {
	Render(ctx context.Context, url string) (*fetch.Outcome, Session)
}

// Interactor simulates user behavior on a live session.
type Interactor interface {
	Run(ctx context.Context, session Session, startURL string) *interact.Result
}

// Orchestrator runs the full pipeline for one URL at a time. Safe for
// concurrent use: all per-request state is local to Scrape.
type Orchestrator struct {
	cfg        *config.Config
	static     StaticFetcher
	renderer   Renderer
	interactor Interactor
	memory     *StrategyMemory
}

// NewOrchestrator wires the pipeline. renderer and interactor may be nil
// (e.g. no browser available); escalation then degrades to the static result
// with a recorded render error.
func NewOrchestrator(cfg *config.Config, static StaticFetcher, renderer Renderer, interactor Interactor) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		static:     static,
		renderer:   renderer,
		interactor: interactor,
		memory:     NewStrategyMemory(cfg.Fetch.StrategyMemoryTTL),
	}
}

// Scrape runs the pipeline for one URL and always returns a document — on
// failure a partial one carrying the recorded errors. The document is owned
// by the caller once returned and never mutated afterwards.
func (o *Orchestrator) Scrape(ctx context.Context, rawURL string) *models.PageDocument {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Fetch.RequestTimeout)
	defer cancel()

	doc := &models.PageDocument{
		URL:       rawURL,
		ScrapedAt: time.Now().UTC(),
		Meta:      models.Meta{Language: "en", Strategy: fetch.StrategyStatic},
		Sections:  []models.Section{},
		Interactions: models.Interactions{
			Pages: []string{rawURL},
		},
		Errors: []models.ScrapeError{},
	}

	state := phaseInit
	domain := domainOf(rawURL)

	// A domain that recently needed rendering skips the doomed static
	// attempt. Forced-JS domains skip it by configuration.
	skipStatic := fetch.ForcedJS(rawURL, o.cfg.Fetch.ForcedJSDomains) ||
		o.memory.Get(domain) == fetch.StrategyJS

	var staticOut *fetch.Outcome
	escalate := true

	if !skipStatic {
		staticOut = o.static.Fetch(ctx, rawURL)
		state = phaseStaticAttempted
		doc.Errors = append(doc.Errors, staticOut.Errors...)

		if staticOut.Sufficient {
			state = phaseSufficient
			slog.Debug("static fetch sufficient", "url", rawURL, "sections", len(staticOut.Sections))
			doc.Meta = staticOut.Meta
			doc.Sections = staticOut.Sections
			o.memory.Set(domain, fetch.StrategyStatic)
			return o.assemble(doc, state)
		}

		escalate = staticOut.Escalate
		if escalate && len(staticOut.Sections) > 0 {
			// Keep the partial static result in case rendering fails.
			doc.Meta = staticOut.Meta
			doc.Sections = staticOut.Sections
		}
	}

	if !escalate {
		// Rendering would not help (malformed URL, DNS failure, missing
		// resource): degrade to whatever was recorded.
		return o.assemble(doc, phaseError)
	}

	state = phaseEscalateToJS
	if staticOut != nil {
		doc.Errors = append(doc.Errors, models.NewScrapeError(models.PhaseFetch,
			"static fetch insufficient, escalating to JS rendering"))
	}

	if o.renderer == nil {
		doc.Errors = append(doc.Errors, models.NewScrapeError(models.PhaseRender,
			"JS rendering required but no browser is available").
			WithSuggestion("Install Chromium or point SCRAPER_BROWSER_BIN at a browser binary."))
		return o.assemble(doc, phaseError)
	}

	renderOut, session := o.renderer.Render(ctx, rawURL)
	state = phaseJSRendered
	doc.Errors = append(doc.Errors, renderOut.Errors...)

	// The session must be released on every exit path, including the ones
	// that never reach interaction.
	if session != nil {
		defer session.Close()
	}

	// The rendered result replaces the static one only when it actually
	// found more content.
	if len(renderOut.Sections) > len(doc.Sections) {
		doc.Sections = renderOut.Sections
	}
	if renderOut.Meta.Title != "" || doc.Meta.Title == "" {
		doc.Meta = renderOut.Meta
	}
	doc.Meta.Strategy = fetch.StrategyJS

	if renderOut.Sufficient {
		o.memory.Set(domain, fetch.StrategyJS)
	} else if skipStatic {
		// The remembered strategy stopped working; forget it so the next
		// request re-tries the cheap static path.
		o.memory.Delete(domain)
	}

	if session == nil || o.interactor == nil {
		return o.assemble(doc, phaseError)
	}

	// Interaction is best-effort and never escalates further; its failures
	// are recorded but cannot fail the request.
	state = phaseInteracting
	res := o.interactor.Run(ctx, session, rawURL)
	doc.Interactions.Clicks = res.Clicks
	doc.Interactions.Scrolls = res.Scrolls
	if len(res.Pages) > 0 {
		doc.Interactions.Pages = res.Pages
	}
	doc.Errors = append(doc.Errors, res.Errors...)
	doc.Sections = append(doc.Sections, res.Sections...)

	return o.assemble(doc, state)
}

// Close releases orchestrator-owned resources.
func (o *Orchestrator) Close() {
	o.memory.Stop()
}

// assemble finalizes the document: deduplicates sections aggregated across
// phases and assigns their document-stable IDs.
func (o *Orchestrator) assemble(doc *models.PageDocument, state phase) *models.PageDocument {
	doc.Sections = dedupeSections(doc.Sections)
	for i := range doc.Sections {
		doc.Sections[i].ID = doc.Sections[i].Type + "-" + strconv.Itoa(i)
	}
	slog.Info("scrape finished",
		"url", doc.URL,
		"lastState", state.String(),
		"strategy", doc.Meta.Strategy,
		"sections", len(doc.Sections),
		"errors", len(doc.Errors),
	)
	return doc
}

// dedupeSections removes duplicate unchanged content re-extracted across
// phases and interaction steps. The key is a simhash fingerprint of the
// normalized section text (near-duplicates within a small Hamming distance
// collapse); textless sections fall back to identity on type+label.
func dedupeSections(sections []models.Section) []models.Section {
	if len(sections) <= 1 {
		return sections
	}

	unique := make([]models.Section, 0, len(sections))
	var fingerprints []uint64
	seenKeys := make(map[string]struct{})

next:
	for _, section := range sections {
		text := strings.TrimSpace(strings.Join(section.Content.Text, " "))
		if text == "" {
			key := section.Type + "|" + section.Label
			if _, ok := seenKeys[key]; ok {
				continue
			}
			seenKeys[key] = struct{}{}
			unique = append(unique, section)
			continue
		}

		fp := simhash.Fingerprint(strings.ToLower(text))
		for _, prev := range fingerprints {
			if simhash.Similar(fp, prev, dedupThreshold) {
				continue next
			}
		}
		fingerprints = append(fingerprints, fp)
		unique = append(unique, section)
	}

	return unique
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
