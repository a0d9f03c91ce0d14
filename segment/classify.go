package segment

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/SanyamSharma26/universal-website-scraper/models"
)

// typeRule maps class/id keywords to a section type. Rules are evaluated in
// order and the first match wins; the order is part of the contract, so the
// classification stays deterministic.
type typeRule struct {
	sectionType string
	keywords    []string
}

var typeRules = []typeRule{
	{"hero", []string{"hero", "banner", "jumbotron", "masthead"}},
	{"nav", []string{"nav", "menu", "navigation", "navbar"}},
	{"footer", []string{"footer", "foot"}},
	{"faq", []string{"faq", "question", "accordion"}},
	{"pricing", []string{"pricing", "price", "plan", "tier"}},
	{"grid", []string{"grid", "gallery", "cards"}},
}

// tagTypes forces the section type for semantic landmark tags, regardless of
// class/id keywords.
var tagTypes = map[string]string{
	"header": "hero",
	"nav":    "nav",
	"footer": "footer",
}

// classify determines a section's type from its element tag, class/id tokens
// and extracted content.
func classify(sel *goquery.Selection, content *models.SectionContent) string {
	if tag := goquery.NodeName(sel); tagTypes[tag] != "" {
		return tagTypes[tag]
	}

	class, _ := sel.Attr("class")
	id, _ := sel.Attr("id")
	combined := strings.ToLower(class + " " + id)

	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(combined, kw) {
				return rule.sectionType
			}
		}
	}

	if len(content.Lists) > 0 {
		return "list"
	}
	return "section"
}

// typeLabels maps section types to their display names, used when a section
// has neither a heading nor usable text.
var typeLabels = map[string]string{
	"hero":    "Hero",
	"nav":     "Navigation",
	"footer":  "Footer",
	"faq":     "FAQ",
	"pricing": "Pricing",
	"grid":    "Grid",
	"list":    "List",
	"section": "Section",
}

const (
	maxLabelLen     = 50
	labelWordBudget = 7
)

// deriveLabel builds a display label for a section. Priority: first heading
// text (truncated), then the type name plus the opening words of the text,
// then the bare type name.
func deriveLabel(content *models.SectionContent, sectionType string) string {
	if len(content.Headings) > 0 {
		return cutAtRuneBoundary(content.Headings[0].Text, maxLabelLen)
	}

	base := typeLabels[sectionType]
	if base == "" {
		base = "Section"
	}

	if len(content.Text) > 0 {
		words := strings.Fields(strings.Join(content.Text, " "))
		if len(words) > labelWordBudget {
			words = words[:labelWordBudget]
		}
		if context := strings.Join(words, " "); context != "" {
			return base + ": " + context
		}
	}

	return base
}
