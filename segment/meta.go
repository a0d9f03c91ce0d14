package segment

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/SanyamSharma26/universal-website-scraper/models"
)

// ExtractMeta pulls page-level metadata from the document head. Title and
// description fall back through Open Graph and Twitter card tags; the
// canonical URL is resolved absolute against pageURL.
func ExtractMeta(doc *goquery.Document, pageURL string) models.Meta {
	meta := models.Meta{Language: "en"}

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if meta.Title == "" {
		meta.Title = metaContent(doc, `meta[property="og:title"]`)
	}
	if meta.Title == "" {
		meta.Title = metaContent(doc, `meta[name="twitter:title"]`)
	}

	meta.Description = metaContent(doc, `meta[name="description"]`)
	if meta.Description == "" {
		meta.Description = metaContent(doc, `meta[property="og:description"]`)
	}
	if meta.Description == "" {
		meta.Description = metaContent(doc, `meta[name="twitter:description"]`)
	}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok && lang != "" {
		// Keep the primary subtag only ("en-US" -> "en").
		meta.Language = strings.SplitN(lang, "-", 2)[0]
	}

	if canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && canonical != "" {
		if base, err := url.Parse(pageURL); err == nil {
			if resolved, err := base.Parse(canonical); err == nil {
				meta.CanonicalURL = resolved.String()
			}
		}
	}

	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
