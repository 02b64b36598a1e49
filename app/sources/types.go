package sources

import (
	"context"

	"github.com/facetlab/gemfeed/app/article"
)

// Adapter wraps one upstream content origin. Implementations never
// return an error from FetchArticles: any failure is logged inside the
// adapter and surfaces only as a shorter (possibly empty) result.
type Adapter interface {
	Name() string
	IsEnabled() bool
	FetchArticles(ctx context.Context) []article.Article
	ClearCache() error
}

// Configuration types

type Config struct {
	SearchQuery string         `yaml:"search_query"`
	Topics      []TopicConfig  `yaml:"wikipedia_topics"`
	Feeds       []FeedConfig   `yaml:"feeds"`
	Domains     []DomainConfig `yaml:"domains"`
}

// TopicConfig is one Wikipedia page to mirror.
type TopicConfig struct {
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
}

// FeedConfig is one RSS/Atom feed endpoint.
type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Enabled  bool   `yaml:"enabled"`
	MaxItems int    `yaml:"max_items"`
}

// DomainConfig is one curated domain for the search source.
type DomainConfig struct {
	Domain   string `yaml:"domain"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Enabled  bool   `yaml:"enabled"`
}
