package segment

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// noiseMatcher matches elements whose class or id contains one of the noise
// tokens (cookie banners, modals, overlays, popups, consent forms), plus the
// aria-labelled and gdpr variants. Compiled once; goquery's *i attribute
// selectors make the match case-insensitive.
var noiseMatcher = cascadia.MustCompile(
	`[class*="cookie" i], [id*="cookie" i],` +
		`[class*="modal" i], [id*="modal" i],` +
		`[class*="overlay" i], [id*="overlay" i],` +
		`[class*="popup" i], [id*="popup" i],` +
		`[class*="banner" i], [id*="banner" i],` +
		`[class*="consent" i], [id*="consent" i],` +
		`[aria-label*="cookie" i], [aria-label*="consent" i],` +
		`.gdpr, #gdpr`,
)

// StripNoise structurally removes non-content subtrees from the document so
// removed content never reaches extraction. It mutates the document in place
// and is idempotent: a second pass over a filtered tree finds nothing.
func StripNoise(doc *goquery.Document) {
	doc.FindMatcher(noiseMatcher).Remove()
}
