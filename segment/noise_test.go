package segment

import (
	"testing"
)

func TestStripNoise_RemovesBannersAndModals(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<div class="cookie-banner">We use cookies</div>
		<div id="newsletter-modal">Subscribe now</div>
		<div class="page-Overlay">dim</div>
		<div id="promoPopup">Sale!</div>
		<div aria-label="Cookie consent">Accept all</div>
		<div class="gdpr">GDPR notice</div>
		<main><p>The content that should survive filtering.</p></main>
	</body></html>`)

	StripNoise(doc)

	if doc.Find("main").Length() != 1 {
		t.Fatal("main content was removed")
	}
	for _, sel := range []string{".cookie-banner", "#newsletter-modal", ".page-Overlay", "#promoPopup", "[aria-label]", ".gdpr"} {
		if doc.Find(sel).Length() != 0 {
			t.Errorf("noise element %q survived", sel)
		}
	}
}

func TestStripNoise_Idempotent(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<div class="modal">popup</div>
		<main><p>Real text in here.</p></main>
	</body></html>`)

	StripNoise(doc)
	first, _ := doc.Html()
	StripNoise(doc)
	second, _ := doc.Html()

	if first != second {
		t.Error("second pass changed an already filtered document")
	}
}

func TestStripNoise_KeepsUnrelatedElements(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<header class="site-header"><h1>Title</h1></header>
		<section class="features"><p>Feature copy stays.</p></section>
	</body></html>`)

	StripNoise(doc)

	if doc.Find("header").Length() != 1 || doc.Find("section").Length() != 1 {
		t.Error("content elements were removed by the noise filter")
	}
}
