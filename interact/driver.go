// Package interact simulates user behavior against a live rendered session
// to surface content absent from the initially rendered DOM: tab clicks,
// "load more" buttons, infinite scroll and pagination links. Steps run
// strictly sequentially as an ordered queue, because each depends on the DOM
// mutation produced by the previous one.
package interact

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/models"
	"github.com/SanyamSharma26/universal-website-scraper/render"
	"github.com/SanyamSharma26/universal-website-scraper/simhash"
)

// domChangeThreshold is the max Hamming distance between DOM-structure
// fingerprints still considered "unchanged" (skips pointless re-segmentation).
const domChangeThreshold = 3

// Driver runs the interaction step queue. Stateless across requests; all
// per-request state lives in the run.
type Driver struct {
	cfg config.InteractConfig
}

// NewDriver creates an interaction driver with the given bounds.
func NewDriver(cfg config.InteractConfig) *Driver {
	return &Driver{cfg: cfg}
}

// Result is everything one interaction run collected: section batches from
// each step that revealed content, interaction counters, visited pages and
// isolated per-step errors.
type Result struct {
	Sections []models.Section
	Clicks   int
	Scrolls  int
	Pages    []string
	Errors   []models.ScrapeError
}

// run carries the mutable state of one interaction run.
type run struct {
	cfg     config.InteractConfig
	session *render.Session
	result  *Result

	// visited guards the pagination loop against cycles.
	visited map[string]struct{}

	// lastFingerprint is the DOM-structure fingerprint after the previous
	// mutating step; unchanged DOMs are not re-segmented.
	lastFingerprint uint64
}

// Run executes the step queue (tabs → load-more → scroll → paginate) against
// the session. Every sub-protocol is independently bounded by its iteration
// cap; the whole run is bounded by the time budget. Exhausting either stops
// cleanly — interaction never fails a request, it only isolates errors.
func (d *Driver) Run(ctx context.Context, session *render.Session, startURL string) *Result {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Budget)
	defer cancel()

	r := &run{
		cfg:     d.cfg,
		session: session,
		result: &Result{
			Pages: []string{startURL},
		},
		visited: map[string]struct{}{startURL: {}},
	}

	if html, err := session.HTML(); err == nil {
		r.lastFingerprint = simhash.FingerprintDOM(html)
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"tabs", r.clickTabs},
		{"load-more", r.clickLoadMore},
		{"scroll", r.scrollToBottom},
		{"paginate", r.followPagination},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			slog.Debug("interaction budget exhausted", "stoppedBefore", step.name)
			break
		}
		// Failures are isolated per sub-protocol: a failed tab click must
		// not abort load-more or scrolling.
		if err := step.fn(ctx); err != nil && ctx.Err() == nil {
			r.result.Errors = append(r.result.Errors,
				models.NewScrapeError(models.PhaseInteract, step.name+": "+err.Error()))
		}
	}

	return r.result
}

// collectIfChanged re-segments the live DOM and appends the new batch, but
// only when the DOM structure actually changed since the last collection.
func (r *run) collectIfChanged() {
	html, err := r.session.HTML()
	if err != nil {
		return
	}

	fp := simhash.FingerprintDOM(html)
	if simhash.Similar(fp, r.lastFingerprint, domChangeThreshold) {
		return
	}
	r.lastFingerprint = fp

	sections, _, err := r.session.Snapshot()
	if err != nil {
		r.result.Errors = append(r.result.Errors,
			models.NewScrapeError(models.PhaseInteract, "re-segmentation failed: "+err.Error()))
		return
	}
	r.result.Sections = append(r.result.Sections, sections...)
}

// pause sleeps for a randomized duration between min and max, returning
// early if the budget runs out.
func pause(ctx context.Context, min, max time.Duration) {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
