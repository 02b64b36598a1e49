package sources

import (
	"fmt"
	"strings"

	"github.com/go-shiori/go-readability"
)

// ContentExtractor pulls readable text out of HTML bodies that the
// search providers return in place of plain text.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

func (e *ContentExtractor) Run(data string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	page, err := readability.FromReader(strings.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	if page.TextContent == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	return page.TextContent, nil
}

// looksLikeHTML reports whether a body needs readability extraction
// rather than plain text cleanup.
func looksLikeHTML(s string) bool {
	return strings.Contains(s, "<p") || strings.Contains(s, "<div") || strings.Contains(s, "<article")
}
