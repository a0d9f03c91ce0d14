package segment

import (
	"net/url"
	"strings"
	"testing"
)

func mustBase(t *testing.T, raw string) *url.URL {
	t.Helper()
	base, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse base: %v", err)
	}
	return base
}

func TestExtractContent_LinksResolvedAbsolute(t *testing.T) {
	doc := mustParse(t, `<html><body><div>
		<a href="/docs">Docs</a>
		<a href="https://other.example.org/page">External</a>
		<a href="javascript:void(0)">Noise</a>
		<a href="mailto:hi@example.com">Mail</a>
		<a href="#anchor">Anchor</a>
	</div></body></html>`)
	base := mustBase(t, "https://example.com/start")

	content := extractContent(doc.Find("div").First(), base)

	if len(content.Links) != 3 {
		t.Fatalf("got %d links, want 3 (script and mailto schemes dropped): %+v", len(content.Links), content.Links)
	}
	if content.Links[0].Href != "https://example.com/docs" {
		t.Errorf("relative href = %q, want resolved against base", content.Links[0].Href)
	}
	if content.Links[1].Href != "https://other.example.org/page" {
		t.Errorf("absolute href changed: %q", content.Links[1].Href)
	}
	if content.Links[2].Href != "https://example.com/start#anchor" {
		t.Errorf("fragment href = %q", content.Links[2].Href)
	}
}

func TestExtractContent_ImagesWithLazyLoading(t *testing.T) {
	doc := mustParse(t, `<html><body><div>
		<img src="/img/one.png" alt="One">
		<img data-src="/img/lazy.png" alt="Lazy">
		<img src="data:image/gif;base64,R0lGOD" alt="Inline">
		<img alt="No source">
	</div></body></html>`)
	base := mustBase(t, "https://example.com/")

	content := extractContent(doc.Find("div").First(), base)

	if len(content.Images) != 2 {
		t.Fatalf("got %d images, want 2: %+v", len(content.Images), content.Images)
	}
	if content.Images[0].Src != "https://example.com/img/one.png" {
		t.Errorf("src = %q", content.Images[0].Src)
	}
	if content.Images[1].Src != "https://example.com/img/lazy.png" || content.Images[1].Alt != "Lazy" {
		t.Errorf("data-src image = %+v", content.Images[1])
	}
}

func TestExtractContent_Headings(t *testing.T) {
	doc := mustParse(t, `<html><body><section>
		<h1>Top</h1>
		<h3>Deep</h3>
		<h6>Deepest</h6>
		<h2>   </h2>
	</section></body></html>`)
	base := mustBase(t, "https://example.com/")

	content := extractContent(doc.Find("section").First(), base)

	if len(content.Headings) != 3 {
		t.Fatalf("got %d headings, want 3 (blank heading dropped)", len(content.Headings))
	}
	if content.Headings[0].Level != 1 || content.Headings[1].Level != 3 || content.Headings[2].Level != 6 {
		t.Errorf("heading levels = %+v", content.Headings)
	}
}

func TestExtractContent_TextParagraphFallback(t *testing.T) {
	// One short paragraph is not enough; div text fills in.
	doc := mustParse(t, `<html><body><section>
		<p>tiny</p>
		<div>A generic block holding more than thirty characters of text.</div>
	</section></body></html>`)
	base := mustBase(t, "https://example.com/")

	content := extractContent(doc.Find("section").First(), base)

	if len(content.Text) == 0 {
		t.Fatal("expected div fallback text")
	}
	if !strings.Contains(content.Text[0], "generic block") {
		t.Errorf("text = %q", content.Text[0])
	}
}

func TestExtractContent_TextPrefersParagraphs(t *testing.T) {
	doc := mustParse(t, `<html><body><section>
		<p>First real paragraph with words.</p>
		<p>Second real paragraph with words.</p>
		<div>Container text that should not be needed at all here.</div>
	</section></body></html>`)
	base := mustBase(t, "https://example.com/")

	content := extractContent(doc.Find("section").First(), base)

	if len(content.Text) != 2 {
		t.Fatalf("got %d text parts, want 2 paragraphs only: %q", len(content.Text), content.Text)
	}
}

func TestExtractContent_ListsAndTables(t *testing.T) {
	doc := mustParse(t, `<html><body><section>
		<ul><li>alpha</li><li>beta</li><li>  </li></ul>
		<ol><li>one</li></ol>
		<table>
			<tr><th>Plan</th><th>Price</th></tr>
			<tr><td>Basic</td><td>$5</td></tr>
		</table>
	</section></body></html>`)
	base := mustBase(t, "https://example.com/")

	content := extractContent(doc.Find("section").First(), base)

	if len(content.Lists) != 2 {
		t.Fatalf("got %d lists, want 2", len(content.Lists))
	}
	if len(content.Lists[0]) != 2 {
		t.Errorf("first list items = %v, blank item should be dropped", content.Lists[0])
	}
	if len(content.Tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(content.Tables))
	}
	rows := content.Tables[0]
	if len(rows) != 2 || len(rows[0]) != 2 {
		t.Fatalf("table shape = %v", rows)
	}
	if rows[0][0] != "Plan" || rows[1][1] != "$5" {
		t.Errorf("table content = %v", rows)
	}
}

func TestCutAtRuneBoundary(t *testing.T) {
	tests := []struct {
		s     string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"日本語", 9, "日本語"},
		{"日本語", 8, "日本"},
		{"日本語", 4, "日"},
		{"日本語", 2, ""},
	}

	for _, tt := range tests {
		if got := cutAtRuneBoundary(tt.s, tt.limit); got != tt.want {
			t.Errorf("cutAtRuneBoundary(%q, %d) = %q, want %q", tt.s, tt.limit, got, tt.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	base := mustBase(t, "https://example.com/a/b")

	tests := []struct {
		href string
		want string
	}{
		{"/x", "https://example.com/x"},
		{"c", "https://example.com/a/c"},
		{"https://e.org/", "https://e.org/"},
		{"  /spaced  ", "https://example.com/spaced"},
		{"ftp://e.org/file", ""},
		{"javascript:alert(1)", ""},
	}

	for _, tt := range tests {
		if got := resolveURL(base, tt.href); got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
