package article

import (
	"strings"
	"testing"
)

func TestCleanText_StripsHTML(t *testing.T) {
	input := `<p>Sapphires are <strong>corundum</strong> gems.</p>`
	result := CleanText(input)

	if result != "Sapphires are corundum gems." {
		t.Errorf("Expected clean sentence, got %q", result)
	}
}

func TestCleanText_CollapsesMarkdownLinks(t *testing.T) {
	input := "Read about [emerald mining](https://example.com/emeralds) in Colombia."
	result := CleanText(input)

	if strings.Contains(result, "https://") {
		t.Errorf("URL should be removed, got %q", result)
	}
	if !strings.Contains(result, "emerald mining") {
		t.Errorf("Link text should be preserved, got %q", result)
	}
}

func TestCleanText_StripsBareURLs(t *testing.T) {
	input := "See https://example.com/rubies for details."
	result := CleanText(input)

	if strings.Contains(result, "example.com") {
		t.Errorf("Bare URL should be stripped, got %q", result)
	}
}

func TestCleanText_StripsEntitiesAndBullets(t *testing.T) {
	input := "- First point\n* Second point\nGold &amp; silver"
	result := CleanText(input)

	if strings.Contains(result, "&amp;") {
		t.Errorf("Entity should be decoded, got %q", result)
	}
	if strings.Contains(result, "- ") || strings.Contains(result, "* ") {
		t.Errorf("Bullets should be stripped, got %q", result)
	}
	if !strings.Contains(result, "Gold & silver") {
		t.Errorf("Decoded text should remain, got %q", result)
	}
}

func TestCleanText_NormalizesWhitespace(t *testing.T) {
	input := "Pearls   are\n\n\torganic   gems."
	result := CleanText(input)

	if result != "Pearls are organic gems." {
		t.Errorf("Whitespace should collapse, got %q", result)
	}
}

func TestSummarize_TwoSentences(t *testing.T) {
	input := "Opals show play-of-color. They are hydrated silica. Most come from Australia."
	result := Summarize(input)

	if result != "Opals show play-of-color. They are hydrated silica." {
		t.Errorf("Expected first two sentences, got %q", result)
	}
}

func TestSummarize_FallsBackToFirstSentence(t *testing.T) {
	first := "This opening sentence about the history of diamond cutting in Antwerp runs on at considerable length to make a point."
	second := " The second sentence also keeps going for quite a while so the pair exceeds the limit."
	result := Summarize(first + second)

	if result != first {
		t.Errorf("Expected only the first sentence, got %q", result)
	}
}

func TestSummarize_NoSentenceBoundary(t *testing.T) {
	input := strings.Repeat("gold filigree ", 30)
	result := Summarize(input)

	if !strings.HasSuffix(result, "...") {
		t.Errorf("Expected truncation with ellipsis, got %q", result)
	}
	if len([]rune(result)) > 154 {
		t.Errorf("Truncated summary too long: %d runes", len([]rune(result)))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is definitely longer", 7, "this is..."},
	}

	for _, test := range tests {
		result := Truncate(test.input, test.n)
		if result != test.expected {
			t.Errorf("Truncate(%q, %d): expected %q, got %q", test.input, test.n, test.expected, result)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw      string
		expected Category
	}{
		{"Gemstones", CategoryGemstones},
		{"History", CategoryHistory},
		{"Care", CategoryCare},
		{"gemstones", DefaultCategory},
		{"Shopping", DefaultCategory},
		{"", DefaultCategory},
	}

	for _, test := range tests {
		if result := ParseCategory(test.raw); result != test.expected {
			t.Errorf("ParseCategory(%q): expected %s, got %s", test.raw, test.expected, result)
		}
	}
}

func TestSourcePriority(t *testing.T) {
	if SourceExa.Priority() != 1 || SourceJina.Priority() != 1 {
		t.Error("Search sources should have priority 1")
	}
	if SourceRSS.Priority() != 2 {
		t.Error("RSS should have priority 2")
	}
	if SourceWikipedia.Priority() != 3 {
		t.Error("Wikipedia should have priority 3")
	}
}
