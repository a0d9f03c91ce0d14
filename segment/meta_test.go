package segment

import (
	"testing"
)

func TestExtractMeta_FullHead(t *testing.T) {
	doc := mustParse(t, `<html lang="de-DE"><head>
		<title>  Acme — Home  </title>
		<meta name="description" content="Acme makes widgets.">
		<link rel="canonical" href="/home">
	</head><body></body></html>`)

	meta := ExtractMeta(doc, "https://acme.example/landing")

	if meta.Title != "Acme — Home" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "Acme makes widgets." {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.Language != "de" {
		t.Errorf("language = %q, want primary subtag de", meta.Language)
	}
	if meta.CanonicalURL != "https://acme.example/home" {
		t.Errorf("canonical = %q, want absolutized", meta.CanonicalURL)
	}
}

func TestExtractMeta_OpenGraphFallback(t *testing.T) {
	doc := mustParse(t, `<html><head>
		<meta property="og:title" content="OG Title">
		<meta property="og:description" content="OG description text.">
	</head><body></body></html>`)

	meta := ExtractMeta(doc, "https://example.com/")

	if meta.Title != "OG Title" {
		t.Errorf("title = %q, want og:title fallback", meta.Title)
	}
	if meta.Description != "OG description text." {
		t.Errorf("description = %q, want og:description fallback", meta.Description)
	}
}

func TestExtractMeta_TwitterFallback(t *testing.T) {
	doc := mustParse(t, `<html><head>
		<meta name="twitter:title" content="Tweet Title">
	</head><body></body></html>`)

	meta := ExtractMeta(doc, "https://example.com/")
	if meta.Title != "Tweet Title" {
		t.Errorf("title = %q, want twitter:title fallback", meta.Title)
	}
}

func TestExtractMeta_Defaults(t *testing.T) {
	doc := mustParse(t, `<html><head></head><body></body></html>`)

	meta := ExtractMeta(doc, "https://example.com/")

	if meta.Language != "en" {
		t.Errorf("language = %q, want default en", meta.Language)
	}
	if meta.Title != "" || meta.Description != "" || meta.CanonicalURL != "" {
		t.Errorf("empty head produced %+v", meta)
	}
}
