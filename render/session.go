package render

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"

	"github.com/SanyamSharma26/universal-website-scraper/models"
	"github.com/SanyamSharma26/universal-website-scraper/segment"
)

// Session is a live rendered-browser page, exclusively owned by one scrape
// request. It must be released via Close on every exit path; Close is
// idempotent.
type Session struct {
	page    *rod.Page
	browser *Browser
	once    sync.Once
}

// Page returns the live page handle for interaction.
func (s *Session) Page() *rod.Page {
	return s.page
}

// CurrentURL returns the page's current location, which may differ from the
// navigated URL after redirects or pagination clicks.
func (s *Session) CurrentURL() string {
	return evalStringOrEmpty(s.page, `() => window.location.href`)
}

// HTML serializes the live DOM.
func (s *Session) HTML() (string, error) {
	return s.page.HTML()
}

// Snapshot parses the live DOM, noise-filters it and segments it. The
// returned sections carry the page's current URL as sourceUrl.
func (s *Session) Snapshot() ([]models.Section, *goquery.Document, error) {
	rawHTML, err := s.page.HTML()
	if err != nil {
		return nil, nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, nil, err
	}

	segment.StripNoise(doc)

	pageURL := s.CurrentURL()
	return s.browser.seg.Segment(doc, pageURL), doc, nil
}

// Close returns the page to the pool. Safe to call multiple times.
func (s *Session) Close() {
	s.once.Do(func() {
		s.browser.releasePage(s.page)
	})
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}
