package article

import (
	"fmt"
	"regexp"
	"strings"
)

// QualityFilter rejects e-commerce and navigation pages that search
// and feed sources hand back alongside real articles. Wikipedia output
// is structured and does not go through it.
type QualityFilter struct{}

func NewQualityFilter() *QualityFilter {
	return &QualityFilter{}
}

var salesPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(buy now|add to cart|shop now|order now|shop the collection)\b`),
	regexp.MustCompile(`(?i)\b(add to bag|add to basket|checkout|view cart|your cart)\b`),
	regexp.MustCompile(`\$\d+(\.\d{2})?`),
	regexp.MustCompile(`(?i)\b\d{1,2}% off\b`),
	regexp.MustCompile(`(?i)\b(free shipping|free returns|price match)\b`),
	regexp.MustCompile(`(?i)\b(limited time|act now|don't miss out|while supplies last|sale ends)\b`),
	regexp.MustCompile(`(?i)\b(discount code|promo code|coupon)\b`),
}

var navPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(home\s*[>»/]\s*\w+|breadcrumb)\b`),
	regexp.MustCompile(`(?i)\b(main menu|navigation menu|skip to content|site map)\b`),
	regexp.MustCompile(`(?i)\b(browse (our )?categories|all categories|filter by)\b`),
}

var mdLinkCountRe = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)

// Run reports whether the candidate text should be rejected, with a
// reason suitable for logging.
func (f *QualityFilter) Run(title, body string) (bool, string) {
	text := title + " " + body

	for _, re := range salesPatterns {
		if match := re.FindString(text); match != "" {
			return true, fmt.Sprintf("sales page: matched %q", match)
		}
	}

	for _, re := range navPatterns {
		if match := re.FindString(text); match != "" {
			return true, fmt.Sprintf("navigation page: matched %q", match)
		}
	}

	if reason, ok := f.linkDominated(body); ok {
		return true, reason
	}

	return false, ""
}

// linkDominated treats a body as a navigation/index page when markdown
// links dominate its word count.
func (f *QualityFilter) linkDominated(body string) (string, bool) {
	links := len(mdLinkCountRe.FindAllString(body, -1))
	if links <= 5 {
		return "", false
	}

	words := len(strings.Fields(body))
	if words == 0 {
		return "navigation page: links without text", true
	}

	ratio := float64(links) / (float64(words) / 10.0)
	if ratio > 0.3 {
		return fmt.Sprintf("navigation page: %d links for %d words", links, words), true
	}
	return "", false
}
