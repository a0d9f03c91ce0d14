package fetch

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/SanyamSharma26/universal-website-scraper/models"
)

// Fetch strategies recorded on outcomes and in document metadata.
const (
	StrategyStatic = "static"
	StrategyJS     = "js"
)

// Outcome is the internal result of one fetch attempt (static or rendered).
// It is consumed only by the orchestrator to decide whether to continue.
type Outcome struct {
	// Sections extracted from the fetched page, noise-filtered.
	Sections []models.Section

	// Meta extracted from the page head. Zero value when the fetch failed
	// before a document existed.
	Meta models.Meta

	// Doc is the parsed DOM, kept for callers that need further reads.
	// Nil when fetching or parsing failed.
	Doc *goquery.Document

	// Sufficient reports whether the result passes the sufficiency
	// heuristic (and the URL is not on the forced-JS list).
	Sufficient bool

	// Strategy is the fetch path that produced this outcome.
	Strategy string

	// Escalate reports whether JS rendering could plausibly improve the
	// result. False for failures rendering cannot fix (malformed URL, DNS
	// failure, non-HTML responses).
	Escalate bool

	// Errors collected during this attempt, in order.
	Errors []models.ScrapeError
}

// appendError records a failure on the outcome. Append-only.
func (o *Outcome) appendError(err models.ScrapeError) {
	o.Errors = append(o.Errors, err)
}
