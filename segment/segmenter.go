// Package segment partitions a DOM tree into labeled, typed content
// sections. A three-tier strategy is used: semantic landmark elements first,
// heading-delimited regions when landmarks are scarce, and the whole body as
// a last resort. The noise filter in this package runs before any tier sees
// the tree.
package segment

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/models"
)

// TruncationMarker is appended to rawHtml when a section's serialized HTML
// exceeds the configured limit.
const TruncationMarker = "..."

// minLandmarkSections is the landmark-tier threshold: below this the
// heading tier supplements the result.
const minLandmarkSections = 2

const landmarkSelector = "main, header, nav, section, footer, article"

var landmarkMatcher = cascadia.MustCompile(landmarkSelector)

// Segmenter turns a parsed document into an ordered list of sections.
// It never mutates the tree it reads; noise filtering is the caller's
// responsibility (StripNoise) and must complete before Segment runs.
type Segmenter struct {
	cfg config.SegmentConfig
}

// New creates a Segmenter with the given output bounds.
func New(cfg config.SegmentConfig) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Segment extracts sections from doc. pageURL is the page the document came
// from; it becomes each section's sourceUrl and the base for resolving
// relative links and image sources.
func (s *Segmenter) Segment(doc *goquery.Document, pageURL string) []models.Section {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = &url.URL{}
	}

	sections := s.landmarkTier(doc, base, pageURL)

	if len(sections) < minLandmarkSections {
		sections = append(sections, s.headingTier(doc, base, pageURL)...)
		sections = dedupe(sections)
	}

	if len(sections) == 0 {
		sections = s.bodyTier(doc, base, pageURL)
	}

	return sections
}

// landmarkTier emits one section per top-level semantic container. Nested
// landmarks (a nav inside a header) are folded into their ancestor.
func (s *Segmenter) landmarkTier(doc *goquery.Document, base *url.URL, pageURL string) []models.Section {
	var sections []models.Section

	doc.FindMatcher(landmarkMatcher).Each(func(_ int, sel *goquery.Selection) {
		if sel.ParentsFiltered(landmarkSelector).Length() > 0 {
			return
		}
		if section := s.buildSection(sel, base, pageURL); section != nil {
			sections = append(sections, *section)
		}
	})

	return sections
}

// headingTier walks h1-h3 elements in document order; each heading plus the
// sibling content up to (not including) the next heading of equal-or-higher
// level forms one section. Output is capped to bound result size.
func (s *Segmenter) headingTier(doc *goquery.Document, base *url.URL, pageURL string) []models.Section {
	var sections []models.Section

	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		node := h.Get(0)
		level := headingLevel(node.Data)

		var buf strings.Builder
		buf.WriteString("<section>")
		_ = html.Render(&buf, node)
		for sib := node.NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type == html.ElementNode {
				if l := headingLevel(sib.Data); l > 0 && l <= level {
					break
				}
			}
			_ = html.Render(&buf, sib)
		}
		buf.WriteString("</section>")

		vdoc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
		if err != nil {
			return true
		}
		if section := s.buildSection(vdoc.Find("section").First(), base, pageURL); section != nil {
			sections = append(sections, *section)
		}
		return len(sections) < s.cfg.MaxHeadingSections
	})

	return sections
}

// bodyTier makes the entire document body one section.
func (s *Segmenter) bodyTier(doc *goquery.Document, base *url.URL, pageURL string) []models.Section {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}

	content := extractContent(body, base)
	sectionType := classify(body, &content)
	rawHTML, truncated := s.truncate(outerHTML(body))

	return []models.Section{{
		Type:      sectionType,
		Label:     deriveLabel(&content, sectionType),
		SourceURL: pageURL,
		Content:   content,
		RawHTML:   rawHTML,
		Truncated: truncated,
	}}
}

// buildSection extracts, classifies and labels one element. Returns nil for
// elements with neither text nor headings, which carry nothing worth keeping.
func (s *Segmenter) buildSection(sel *goquery.Selection, base *url.URL, pageURL string) *models.Section {
	if sel.Length() == 0 {
		return nil
	}

	content := extractContent(sel, base)
	if len(content.Text) == 0 && len(content.Headings) == 0 {
		return nil
	}

	sectionType := classify(sel, &content)
	rawHTML, truncated := s.truncate(outerHTML(sel))

	return &models.Section{
		Type:      sectionType,
		Label:     deriveLabel(&content, sectionType),
		SourceURL: pageURL,
		Content:   content,
		RawHTML:   rawHTML,
		Truncated: truncated,
	}
}

// truncate enforces the rawHtml size invariant: truncated is true iff the
// serialized HTML exceeded the limit, and the stored value never exceeds
// limit + len(marker). The cut respects rune boundaries so the output stays
// valid UTF-8.
func (s *Segmenter) truncate(rawHTML string) (string, bool) {
	if len(rawHTML) <= s.cfg.RawHTMLLimit {
		return rawHTML, false
	}
	return cutAtRuneBoundary(rawHTML, s.cfg.RawHTMLLimit) + TruncationMarker, true
}

func outerHTML(sel *goquery.Selection) string {
	h, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return h
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	default:
		return 0
	}
}

// dedupe drops sections whose opening text matches an earlier section.
// Sections without text survive when they carry headings, since those are
// cheap and often structural (navs, footers).
func dedupe(sections []models.Section) []models.Section {
	if len(sections) <= 1 {
		return sections
	}

	unique := make([]models.Section, 0, len(sections))
	seen := make(map[string]struct{}, len(sections))

	for _, section := range sections {
		fp := textFingerprint(section.Content.Text)
		if fp == "" {
			if len(section.Content.Headings) > 0 {
				unique = append(unique, section)
			}
			continue
		}
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		unique = append(unique, section)
	}

	return unique
}

func textFingerprint(parts []string) string {
	joined := strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
	if len(joined) > 100 {
		joined = joined[:100]
	}
	return joined
}
