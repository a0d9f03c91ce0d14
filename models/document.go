package models

import "time"

// PageDocument is the final result of one scrape request. It is assembled
// incrementally by the orchestrator and immutable once returned.
type PageDocument struct {
	// URL is the originally requested page.
	URL string `json:"url"`

	// ScrapedAt is the UTC timestamp when the scrape started.
	ScrapedAt time.Time `json:"scrapedAt"`

	// Meta holds page-level metadata extracted from <head>.
	Meta Meta `json:"meta"`

	// Sections are the extracted content blocks, in document order,
	// aggregated across every phase (static, rendered, interactions, pages).
	Sections []Section `json:"sections"`

	// Interactions summarises the user-behavior simulation performed.
	Interactions Interactions `json:"interactions"`

	// Errors lists every failure encountered in any phase. Append-only.
	Errors []ScrapeError `json:"errors"`
}

// Meta is the page metadata block.
type Meta struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Language     string `json:"language"`
	CanonicalURL string `json:"canonicalUrl"`

	// Strategy records which fetch path produced the document:
	// "static" or "js".
	Strategy string `json:"strategy"`
}

// Interactions counts the simulated user behavior for one request.
type Interactions struct {
	Clicks  int      `json:"clicks"`
	Scrolls int      `json:"scrolls"`
	Pages   []string `json:"pages"`
}

// Section is one semantically coherent content block.
type Section struct {
	// ID is stable within a document (assigned at assembly time).
	ID string `json:"id"`

	// Type is one of: hero, nav, footer, faq, pricing, grid, list, section.
	Type string `json:"type"`

	// Label is a derived display string for the section.
	Label string `json:"label"`

	// SourceURL is the page this section came from. Differs from the
	// document URL once pagination aggregates multiple pages.
	SourceURL string `json:"sourceUrl"`

	Content SectionContent `json:"content"`

	// RawHTML is the section's serialized HTML, possibly truncated.
	RawHTML string `json:"rawHtml"`

	// Truncated is true iff the untruncated HTML exceeded the limit.
	Truncated bool `json:"truncated"`
}

// SectionContent is the structured content extracted from one section.
type SectionContent struct {
	Headings []Heading    `json:"headings"`
	Text     []string     `json:"text"`
	Links    []Link       `json:"links"`
	Images   []Image      `json:"images"`
	Lists    [][]string   `json:"lists"`
	Tables   [][][]string `json:"tables"`
}

// Heading is one h1-h6 element inside a section.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is a hyperlink with its href resolved to an absolute URL.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Image is an image with its src resolved to an absolute URL.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// TextLen returns the total length of the section's extracted text parts.
// Used by the static-sufficiency heuristic.
func (s *Section) TextLen() int {
	n := 0
	for _, t := range s.Content.Text {
		n += len(t)
	}
	return n
}
