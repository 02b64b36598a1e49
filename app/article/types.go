package article

import (
	"time"
)

// Source identifies the upstream origin of an article.
type Source string

const (
	SourceWikipedia Source = "wikipedia"
	SourceRSS       Source = "rss"
	SourceExa       Source = "exa"
	SourceJina      Source = "jina"
)

// Priority returns the display rank for a source. Lower numbers are
// shown first and win image-fingerprint dedup conflicts.
func (s Source) Priority() int {
	switch s {
	case SourceExa, SourceJina:
		return 1
	case SourceRSS:
		return 2
	case SourceWikipedia:
		return 3
	default:
		return 4
	}
}

// Category is the closed set of article topics.
type Category string

const (
	CategoryGemstones  Category = "Gemstones"
	CategoryHistory    Category = "History"
	CategoryMaterials  Category = "Materials"
	CategoryTechniques Category = "Techniques"
	CategoryStyles     Category = "Styles"
	CategoryCare       Category = "Care"
)

// DefaultCategory is used when a source supplies no clean mapping.
const DefaultCategory = CategoryGemstones

var validCategories = map[Category]bool{
	CategoryGemstones:  true,
	CategoryHistory:    true,
	CategoryMaterials:  true,
	CategoryTechniques: true,
	CategoryStyles:     true,
	CategoryCare:       true,
}

// ParseCategory maps a raw label onto the closed category set,
// falling back to DefaultCategory.
func ParseCategory(raw string) Category {
	c := Category(raw)
	if validCategories[c] {
		return c
	}
	return DefaultCategory
}

// Article is the unified record all adapters normalize into.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    Category   `json:"category"`
	Image       string     `json:"image,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Summary     string     `json:"summary"`
	Extract     string     `json:"extract"`
	URL         string     `json:"url"`
	Source      Source     `json:"source"`
	SourceName  string     `json:"source_name"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
	Author      string     `json:"author,omitempty"`
}

// SortedAt returns the timestamp used for recency ordering.
func (a Article) SortedAt() time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.FetchedAt
}
