package fetch

import (
	"strings"
	"testing"

	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/models"
)

func sectionWithText(n int) models.Section {
	return models.Section{
		Type:    "section",
		Content: models.SectionContent{Text: []string{strings.Repeat("x", n)}},
	}
}

func TestSufficient(t *testing.T) {
	cfg := config.FetchConfig{MinSections: 2, MinTextLen: 200}

	tests := []struct {
		name     string
		sections []models.Section
		want     bool
	}{
		{"no sections", nil, false},
		{"one rich section", []models.Section{sectionWithText(500)}, false},
		{"two thin sections", []models.Section{sectionWithText(50), sectionWithText(50)}, false},
		{"exactly at thresholds", []models.Section{sectionWithText(100), sectionWithText(100)}, true},
		{"two rich sections", []models.Section{sectionWithText(150), sectionWithText(150)}, true},
		{"text spread across many", []models.Section{sectionWithText(70), sectionWithText(70), sectionWithText(70)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sufficient(tt.sections, cfg); got != tt.want {
				t.Errorf("Sufficient = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForcedJS(t *testing.T) {
	domains := []string{"wikipedia.org", "medium.com"}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://wikipedia.org/wiki/Go", true},
		{"https://en.wikipedia.org/wiki/Go", true},
		{"https://medium.com/@someone/post", true},
		{"https://EN.WIKIPEDIA.ORG/wiki/Go", true},
		{"https://example.com/", false},
		{"https://notwikipedia.org/", false},
		{"https://wikipedia.org.evil.com/", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := ForcedJS(tt.url, domains); got != tt.want {
				t.Errorf("ForcedJS(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
