package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// FingerprintDOM computes a SimHash of the DOM structure: tag names in
// document order, shingled, ignoring text and attributes. The interaction
// driver uses it to skip re-segmentation when a click or scroll left the
// page structurally unchanged.
func FingerprintDOM(htmlStr string) uint64 {
	tags := extractTags(htmlStr)
	if len(tags) == 0 {
		return 0
	}

	shingles := makeShingles(tags, 3)
	if len(shingles) == 0 {
		// Too few tags for shingles; hash the tag sequence itself.
		return Fingerprint(strings.Join(tags, " "))
	}

	return Fingerprint(strings.Join(shingles, " "))
}

// extractTags walks the HTML with the tokenizer and collects open tag names
// in order.
func extractTags(htmlStr string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	var tags []string

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return tags
		case html.StartTagToken, html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			tags = append(tags, string(tn))
		}
	}
}

// makeShingles creates n-gram shingles from a slice of tokens.
func makeShingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}

	shingles := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+n], "_"))
	}
	return shingles
}
