package segment

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/SanyamSharma26/universal-website-scraper/models"
)

// Per-section content extraction bounds.
const (
	maxTextParts  = 10
	minParaLen    = 10
	minBlockLen   = 30
	maxLinks      = 20
	maxLinkText   = 100
	maxImages     = 10
	maxLists      = 5
	maxListItems  = 20
	maxTables     = 3
	maxTableRows  = 20
	maxCellLen    = 100
)

// extractContent pulls the structured content out of one section element.
// All hrefs and srcs are resolved against base so they come out absolute.
func extractContent(sel *goquery.Selection, base *url.URL) models.SectionContent {
	content := models.SectionContent{
		Headings: []models.Heading{},
		Text:     []string{},
		Links:    []models.Link{},
		Images:   []models.Image{},
		Lists:    [][]string{},
		Tables:   [][][]string{},
	}

	for level := 1; level <= 6; level++ {
		sel.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, h *goquery.Selection) {
			if text := strings.TrimSpace(h.Text()); text != "" {
				content.Headings = append(content.Headings, models.Heading{
					Level: level,
					Text:  text,
				})
			}
		})
	}

	content.Text = extractTextParts(sel)

	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		if href == "" || text == "" {
			return true
		}
		abs := resolveURL(base, href)
		if abs == "" {
			return true
		}
		text = cutAtRuneBoundary(text, maxLinkText)
		content.Links = append(content.Links, models.Link{Text: text, Href: abs})
		return len(content.Links) < maxLinks
	})

	sel.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if src == "" {
			// Lazy-loaded images keep the real URL in data-src.
			src, _ = img.Attr("data-src")
		}
		if src == "" || strings.HasPrefix(src, "data:") {
			return true
		}
		abs := resolveURL(base, src)
		if abs == "" {
			return true
		}
		alt, _ := img.Attr("alt")
		content.Images = append(content.Images, models.Image{
			Src: abs,
			Alt: strings.TrimSpace(alt),
		})
		return len(content.Images) < maxImages
	})

	sel.Find("ul, ol").EachWithBreak(func(_ int, list *goquery.Selection) bool {
		var items []string
		list.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			if text := strings.TrimSpace(li.Text()); text != "" {
				items = append(items, text)
			}
			return len(items) < maxListItems
		})
		if len(items) > 0 {
			content.Lists = append(content.Lists, items)
		}
		return len(content.Lists) < maxLists
	})

	sel.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		var rows [][]string
		table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
			var row []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				text := cutAtRuneBoundary(strings.TrimSpace(cell.Text()), maxCellLen)
				row = append(row, text)
			})
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return len(rows) < maxTableRows
		})
		if len(rows) > 0 {
			content.Tables = append(content.Tables, rows)
		}
		return len(content.Tables) < maxTables
	})

	return content
}

// extractTextParts collects paragraph text, falling back to generic block
// (div) text when the section has fewer than two real paragraphs.
func extractTextParts(sel *goquery.Selection) []string {
	parts := []string{}

	sel.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := strings.TrimSpace(p.Text()); len(text) > minParaLen {
			parts = append(parts, text)
		}
		return len(parts) < maxTextParts
	})

	if len(parts) >= 2 {
		return parts
	}

	sel.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		if text := strings.TrimSpace(div.Text()); len(text) > minBlockLen {
			parts = append(parts, text)
		}
		return len(parts) < maxTextParts
	})

	return parts
}

// cutAtRuneBoundary cuts s to at most limit bytes, backing the cut up to a
// rune boundary so a multibyte character is never split. The result stays
// valid UTF-8 when the input was.
func cutAtRuneBoundary(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// resolveURL resolves href against base and returns the absolute URL, or ""
// when the reference is unusable (unparseable, or a non-web scheme such as
// javascript:, mailto: or data:).
func resolveURL(base *url.URL, href string) string {
	resolved, err := base.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
