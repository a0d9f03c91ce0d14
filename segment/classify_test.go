package segment

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/SanyamSharma26/universal-website-scraper/models"
)

func TestClassify_TagOverridesKeywords(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"header is hero", `<header class="site-footer"><h1>x</h1></header>`, "hero"},
		{"nav is nav", `<nav class="pricing"><a href="/">x</a></nav>`, "nav"},
		{"footer is footer", `<footer><p>x</p></footer>`, "footer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, "<html><body>"+tt.html+"</body></html>")
			sel := doc.Find("body").Children().First()
			got := classify(sel, &models.SectionContent{})
			if got != tt.want {
				t.Errorf("classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_KeywordOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"hero class", `<div class="hero-unit"></div>`, "hero"},
		{"hero beats pricing when both match", `<div class="pricing-banner"></div>`, "hero"},
		{"menu id", `<div id="main-menu"></div>`, "nav"},
		{"faq accordion", `<div class="accordion"></div>`, "faq"},
		{"pricing plans", `<div class="plan-table"></div>`, "pricing"},
		{"card grid", `<div class="cards"></div>`, "grid"},
		{"case insensitive", `<div class="FAQ-Block"></div>`, "faq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, "<html><body>"+tt.html+"</body></html>")
			sel := doc.Find("div").First()
			got := classify(sel, &models.SectionContent{})
			if got != tt.want {
				t.Errorf("classify(%s) = %q, want %q", tt.html, got, tt.want)
			}
		})
	}
}

func TestClassify_ContentFallbacks(t *testing.T) {
	doc := mustParse(t, `<html><body><div></div></body></html>`)
	sel := doc.Find("div").First()

	withList := &models.SectionContent{Lists: [][]string{{"a", "b"}}}
	if got := classify(sel, withList); got != "list" {
		t.Errorf("list-dominant content = %q, want list", got)
	}

	if got := classify(sel, &models.SectionContent{}); got != "section" {
		t.Errorf("plain content = %q, want section", got)
	}
}

func TestDeriveLabel(t *testing.T) {
	t.Run("heading wins", func(t *testing.T) {
		content := &models.SectionContent{
			Headings: []models.Heading{{Level: 2, Text: "Our Plans"}},
			Text:     []string{"Something else entirely"},
		}
		if got := deriveLabel(content, "pricing"); got != "Our Plans" {
			t.Errorf("label = %q, want heading text", got)
		}
	})

	t.Run("long heading truncated", func(t *testing.T) {
		content := &models.SectionContent{
			Headings: []models.Heading{{Level: 1, Text: strings.Repeat("a", 80)}},
		}
		if got := deriveLabel(content, "section"); len(got) != 50 {
			t.Errorf("label length = %d, want 50", len(got))
		}
	})

	t.Run("multibyte heading cut stays valid", func(t *testing.T) {
		// 3-byte runes: the 50-byte cut falls mid-rune and must back up.
		content := &models.SectionContent{
			Headings: []models.Heading{{Level: 1, Text: strings.Repeat("価", 30)}},
		}
		got := deriveLabel(content, "section")
		if !utf8.ValidString(got) {
			t.Fatalf("label is invalid UTF-8: %q", got)
		}
		if len(got) > 50 {
			t.Errorf("label length = %d, want <= 50", len(got))
		}
		if got != strings.Repeat("価", 16) {
			t.Errorf("label = %q, want 16 whole runes (48 bytes)", got)
		}
	})

	t.Run("type plus opening words", func(t *testing.T) {
		content := &models.SectionContent{
			Text: []string{"one two three four five six seven eight nine"},
		}
		got := deriveLabel(content, "section")
		if got != "Section: one two three four five six seven" {
			t.Errorf("label = %q", got)
		}
	})

	t.Run("bare type name", func(t *testing.T) {
		if got := deriveLabel(&models.SectionContent{}, "nav"); got != "Navigation" {
			t.Errorf("label = %q, want Navigation", got)
		}
	})

	t.Run("unknown type defaults", func(t *testing.T) {
		if got := deriveLabel(&models.SectionContent{}, "mystery"); got != "Section" {
			t.Errorf("label = %q, want Section", got)
		}
	})
}
