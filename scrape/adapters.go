package scrape

import (
	"context"

	"github.com/SanyamSharma26/universal-website-scraper/fetch"
	"github.com/SanyamSharma26/universal-website-scraper/interact"
	"github.com/SanyamSharma26/universal-website-scraper/render"
)

// browserRenderer adapts *render.Browser to the Renderer interface, mapping
// its concrete session type onto the interface (and a nil session onto a nil
// interface value, so callers can compare against nil safely).
type browserRenderer struct {
	browser *render.Browser
}

// NewBrowserRenderer wraps a rod-backed browser as a Renderer.
func NewBrowserRenderer(b *render.Browser) Renderer {
	return browserRenderer{browser: b}
}

func (r browserRenderer) Render(ctx context.Context, url string) (*fetch.Outcome, Session) {
	outcome, session := r.browser.Render(ctx, url)
	if session == nil {
		return outcome, nil
	}
	return outcome, session
}

// driverInteractor adapts *interact.Driver to the Interactor interface.
type driverInteractor struct {
	driver *interact.Driver
}

// NewDriverInteractor wraps an interaction driver as an Interactor.
func NewDriverInteractor(d *interact.Driver) Interactor {
	return driverInteractor{driver: d}
}

func (i driverInteractor) Run(ctx context.Context, session Session, startURL string) *interact.Result {
	s, ok := session.(*render.Session)
	if !ok {
		return &interact.Result{Pages: []string{startURL}}
	}
	return i.driver.Run(ctx, s, startURL)
}
