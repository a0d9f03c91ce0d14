package interact

import (
	"context"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/SanyamSharma26/universal-website-scraper/simhash"
)

// tabSelectors locate clickable tab controls, most specific first. The first
// selector that matches anything wins.
var tabSelectors = []string{
	`[role="tab"]`,
	`button[aria-selected]`,
	`.tab:not(.active)`,
	`.tabs button`,
	`[data-tab]`,
}

// loadMoreRegex matches the visible text of buttons that reveal more content.
const loadMoreRegex = `/^\s*(load more|show more|view more|read more)\b/i`

// nextLinkSelectors locate pagination links by attribute.
var nextLinkSelectors = []string{
	`a[rel="next"]`,
	`a[aria-label*="next" i]`,
}

// nextLinkRegex matches the visible text of pagination links.
const nextLinkRegex = `/^\s*(next|more|»|›|→|>)\s*$/i`

// clickTabs clicks up to MaxTabClicks tab controls, re-segmenting after each
// click so content hidden behind inactive tabs gets captured.
func (r *run) clickTabs(ctx context.Context) error {
	p := r.session.Page().Context(ctx)

	var tabs rod.Elements
	for _, selector := range tabSelectors {
		els, err := p.Elements(selector)
		if err == nil && len(els) > 0 {
			tabs = els
			break
		}
	}
	if len(tabs) == 0 {
		return nil
	}

	clicked := 0
	for _, tab := range tabs {
		if clicked >= r.cfg.MaxTabClicks || ctx.Err() != nil {
			break
		}
		if err := clickElement(ctx, tab); err != nil {
			continue
		}
		clicked++
		r.result.Clicks++
		pause(ctx, 800*time.Millisecond, 1500*time.Millisecond)
		r.collectIfChanged()
	}

	return nil
}

// clickLoadMore clicks "load more"-style buttons up to MaxLoadMoreClicks
// times, re-finding the button each round since many sites re-render it.
func (r *run) clickLoadMore(ctx context.Context) error {
	p := r.session.Page().Context(ctx)

	for i := 0; i < r.cfg.MaxLoadMoreClicks && ctx.Err() == nil; i++ {
		// NotFoundSleeper makes the lookup return immediately instead of
		// polling for the element to appear.
		button, err := p.Sleeper(rod.NotFoundSleeper).ElementR("button, a", loadMoreRegex)
		if err != nil {
			return nil // no button left — normal exit
		}
		if visible, err := button.Visible(); err != nil || !visible {
			return nil
		}
		if err := clickElement(ctx, button); err != nil {
			return err
		}
		r.result.Clicks++
		pause(ctx, 1500*time.Millisecond, 2500*time.Millisecond)
		r.collectIfChanged()
	}

	return nil
}

// scrollToBottom scrolls to the document bottom up to MaxScrolls times,
// stopping early when the scrollable height stops growing (no new content).
func (r *run) scrollToBottom(ctx context.Context) error {
	p := r.session.Page().Context(ctx)

	for i := 0; i < r.cfg.MaxScrolls && ctx.Err() == nil; i++ {
		prevHeight, err := bodyScrollHeight(p)
		if err != nil {
			return err
		}

		if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			return err
		}
		r.result.Scrolls++
		pause(ctx, 1500*time.Millisecond, 2500*time.Millisecond)

		newHeight, err := bodyScrollHeight(p)
		if err != nil {
			return err
		}
		if newHeight == prevHeight {
			break
		}
		r.collectIfChanged()
	}

	return nil
}

// followPagination follows "next"-style links up to MaxPages pages total
// (including the first), segmenting each page and tagging its sections with
// that page's URL. A visited-set guards against pagination cycles.
func (r *run) followPagination(ctx context.Context) error {
	p := r.session.Page().Context(ctx)

	for len(r.result.Pages) < r.cfg.MaxPages && ctx.Err() == nil {
		link := r.findNextLink(p)
		if link == nil {
			return nil
		}

		// Cycle guard: never follow a URL we already visited.
		if href, err := link.Attribute("href"); err == nil && href != nil {
			if !r.shouldFollow(resolveHref(r.session.CurrentURL(), *href)) {
				return nil
			}
		}

		pause(ctx, 500*time.Millisecond, 1000*time.Millisecond)
		if err := clickElement(ctx, link); err != nil {
			return err
		}
		if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
			return err
		}
		pause(ctx, 1*time.Second, 2*time.Second)

		// The click may have redirected somewhere already seen.
		if !r.recordLanding(r.session.CurrentURL()) {
			return nil
		}

		sections, _, err := r.session.Snapshot()
		if err != nil {
			return err
		}
		r.result.Sections = append(r.result.Sections, sections...)
		if html, err := r.session.HTML(); err == nil {
			r.lastFingerprint = simhash.FingerprintDOM(html)
		}
	}

	return nil
}

// shouldFollow reports whether a pagination target is worth clicking: any
// URL not yet visited. An empty target (unresolvable href) is allowed
// through; the post-landing check still catches a cycle.
func (r *run) shouldFollow(target string) bool {
	if target == "" {
		return true
	}
	_, seen := r.visited[target]
	return !seen
}

// recordLanding marks the URL a pagination click actually landed on and
// records it as a visited page. Returns false when the navigation circled
// back to an already-seen URL, which ends the pagination walk.
func (r *run) recordLanding(landed string) bool {
	if _, seen := r.visited[landed]; seen {
		return false
	}
	r.visited[landed] = struct{}{}
	r.result.Pages = append(r.result.Pages, landed)
	return true
}

// findNextLink tries attribute-based selectors first, then visible-text
// matching.
func (r *run) findNextLink(p *rod.Page) *rod.Element {
	for _, selector := range nextLinkSelectors {
		els, err := p.Elements(selector)
		if err != nil || len(els) == 0 {
			continue
		}
		if visible, err := els.First().Visible(); err == nil && visible {
			return els.First()
		}
	}

	link, err := p.Sleeper(rod.NotFoundSleeper).ElementR("a", nextLinkRegex)
	if err != nil {
		return nil
	}
	if visible, err := link.Visible(); err != nil || !visible {
		return nil
	}
	return link
}

// clickElement scrolls the element into view, pauses briefly like a human
// and left-clicks it.
func clickElement(ctx context.Context, el *rod.Element) error {
	if err := el.ScrollIntoView(); err != nil {
		return err
	}
	pause(ctx, 300*time.Millisecond, 700*time.Millisecond)
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func bodyScrollHeight(p *rod.Page) (int, error) {
	res, err := p.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

func resolveHref(currentURL, href string) string {
	base, err := url.Parse(currentURL)
	if err != nil {
		return ""
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return ""
	}
	return resolved.String()
}
