package fetch

import (
	"net/url"
	"strings"

	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/models"
)

// Sufficient applies the static-sufficiency heuristic: a result is
// insufficient when it has fewer than cfg.MinSections sections OR less than
// cfg.MinTextLen characters of extracted text in total. The thresholds are
// contractual; callers decide escalation from this alone.
func Sufficient(sections []models.Section, cfg config.FetchConfig) bool {
	if len(sections) < cfg.MinSections {
		return false
	}

	total := 0
	for i := range sections {
		total += sections[i].TextLen()
	}
	return total >= cfg.MinTextLen
}

// ForcedJS reports whether the URL's host is on the forced-JS domain list.
// Matching is suffix-based so subdomains (en.wikipedia.org) hit too. Forced
// domains are treated as insufficient regardless of the heuristic, to
// pre-empt partial-content false positives.
func ForcedJS(rawURL string, domains []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
