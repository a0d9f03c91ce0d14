package simhash

import (
	"testing"
)

func TestFingerprint_Deterministic(t *testing.T) {
	text := "pricing plans for teams of every size"
	if Fingerprint(text) != Fingerprint(text) {
		t.Error("same text produced different fingerprints")
	}
}

func TestFingerprint_NearDuplicateTexts(t *testing.T) {
	fp1 := Fingerprint("our pricing plans scale with teams of every size")
	fp2 := Fingerprint("our pricing plans scale with teams of any size")

	if dist := Distance(fp1, fp2); dist > 10 {
		t.Errorf("near-duplicate texts have distance %d, want <= 10", dist)
	}
}

func TestFingerprint_UnrelatedTexts(t *testing.T) {
	fp1 := Fingerprint("our pricing plans scale with teams of every size")
	fp2 := Fingerprint("frequently asked questions about shipping and returns policy")

	if dist := Distance(fp1, fp2); dist < 5 {
		t.Errorf("unrelated texts have distance %d, want >= 5", dist)
	}
}

func TestFingerprint_EmptyAndWhitespace(t *testing.T) {
	if fp := Fingerprint(""); fp != 0 {
		t.Errorf("empty input: got %064b, want 0", fp)
	}
	if fp := Fingerprint(" \t\n "); fp != 0 {
		t.Errorf("whitespace-only input: got %064b, want 0", fp)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want int
	}{
		{"identical", 0xABCD, 0xABCD, 0},
		{"one bit", 0, 1, 1},
		{"all bits", 0, ^uint64(0), 64},
		{"both zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilar_ThresholdBoundary(t *testing.T) {
	fp1 := Fingerprint("load more results below")
	fp2 := Fingerprint("an entirely different block of page content here")
	dist := Distance(fp1, fp2)

	if !Similar(fp1, fp1, 0) {
		t.Error("fingerprint should be similar to itself at threshold 0")
	}
	if !Similar(fp1, fp2, dist) {
		t.Errorf("should be similar at threshold == distance (%d)", dist)
	}
	if dist > 0 && Similar(fp1, fp2, dist-1) {
		t.Errorf("should not be similar at threshold %d when distance is %d", dist-1, dist)
	}
}

func TestFingerprintDOM_TextChangesIgnored(t *testing.T) {
	// Same structure, different text: a tab switch that only swaps copy
	// should not read as a DOM change.
	html1 := `<html><body><div class="tabs"><h2>Monthly</h2><p>Pay monthly</p></div></body></html>`
	html2 := `<html><body><div class="tabs"><h2>Yearly</h2><p>Pay yearly, save more</p></div></body></html>`

	if FingerprintDOM(html1) != FingerprintDOM(html2) {
		t.Error("identical structures with different text should fingerprint equal")
	}
}

func TestFingerprintDOM_StructureChangesDetected(t *testing.T) {
	before := `<html><body><ul><li>one</li><li>two</li></ul></body></html>`
	after := `<html><body><ul><li>one</li><li>two</li><li>three</li><li>four</li></ul><div><p>loaded</p><p>more</p></div></body></html>`

	fp1 := FingerprintDOM(before)
	fp2 := FingerprintDOM(after)
	if dist := Distance(fp1, fp2); dist < 3 {
		t.Errorf("grown DOM should move the fingerprint, distance %d", dist)
	}
}

func TestFingerprintDOM_DegenerateInputs(t *testing.T) {
	if fp := FingerprintDOM(""); fp != 0 {
		t.Errorf("empty HTML: got %064b, want 0", fp)
	}
	if fp := FingerprintDOM("no tags at all"); fp != 0 {
		t.Errorf("tagless input: got %064b, want 0", fp)
	}
	if fp := FingerprintDOM("<hr/>"); fp == 0 {
		t.Error("single tag should still produce a non-zero fingerprint")
	}
}

func TestExtractTags_Order(t *testing.T) {
	tags := extractTags(`<html><body><nav><a href="/">Home</a></nav><main><p>x</p></main></body></html>`)

	expected := []string{"html", "body", "nav", "a", "main", "p"}
	if len(tags) != len(expected) {
		t.Fatalf("got %d tags %v, want %d", len(tags), tags, len(expected))
	}
	for i := range expected {
		if tags[i] != expected[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], expected[i])
		}
	}
}

func TestMakeShingles(t *testing.T) {
	shingles := makeShingles([]string{"div", "h1", "p", "ul"}, 3)
	expected := []string{"div_h1_p", "h1_p_ul"}

	if len(shingles) != len(expected) {
		t.Fatalf("got %d shingles %v, want %d", len(shingles), shingles, len(expected))
	}
	for i := range expected {
		if shingles[i] != expected[i] {
			t.Errorf("shingles[%d] = %q, want %q", i, shingles[i], expected[i])
		}
	}

	if got := makeShingles([]string{"div", "p"}, 3); got != nil {
		t.Errorf("too few tokens should return nil, got %v", got)
	}
}
