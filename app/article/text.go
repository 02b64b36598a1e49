package article

import (
	"html"
	"regexp"
	"strings"
)

// MaxExtractLength caps the cleaned body stored on a record.
const MaxExtractLength = 2000

var (
	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	markdownLinkRe = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	bareURLRe      = regexp.MustCompile(`https?://\S+`)
	htmlEntityRe   = regexp.MustCompile(`&[a-zA-Z#0-9]+;`)
	bulletRe       = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	sentenceRe     = regexp.MustCompile(`[^.!?]+[.!?]`)
)

// CleanText normalizes loosely structured source text: HTML tags and
// entities are removed, markdown links collapse to their label, bare
// URLs and list bullets are stripped, whitespace is collapsed.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = markdownLinkRe.ReplaceAllString(s, "$1")
	s = bareURLRe.ReplaceAllString(s, "")
	s = htmlEntityRe.ReplaceAllString(s, " ")
	s = bulletRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Summarize derives a short summary from cleaned text: the first two
// sentences, falling back to one sentence when that runs long, or a
// truncation when no sentence boundary is found.
func Summarize(s string) string {
	sentences := sentenceRe.FindAllString(s, 2)
	if len(sentences) == 0 {
		return Truncate(s, 150)
	}

	summary := strings.TrimSpace(strings.Join(sentences, ""))
	if len(summary) > 200 {
		summary = strings.TrimSpace(sentences[0])
	}
	return summary
}

// Truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
