package sources

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const defaultSearchQuery = "jewelry education gemstones guide history"

var titleCaser = cases.Title(language.English)

// LoadConfig reads and validates the sources configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid sources config %s: %w", path, err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.SearchQuery == "" {
		config.SearchQuery = defaultSearchQuery
	}

	for i := range config.Feeds {
		if config.Feeds[i].MaxItems == 0 {
			config.Feeds[i].MaxItems = 10
		}
	}

	// Derive display names from the domain when the config omits them,
	// e.g. "lapidary-journal.com" becomes "Lapidary Journal"
	for i := range config.Domains {
		if config.Domains[i].Name == "" {
			config.Domains[i].Name = displayName(config.Domains[i].Domain)
		}
	}
}

func displayName(domain string) string {
	name := domain
	if idx := strings.Index(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.ReplaceAll(name, "-", " ")
	return titleCaser.String(name)
}

func validateConfig(config *Config) error {
	for i, topic := range config.Topics {
		if topic.Title == "" {
			return fmt.Errorf("wikipedia topic at index %d has no title", i)
		}
	}

	for i, feed := range config.Feeds {
		if feed.Name == "" {
			return fmt.Errorf("feed at index %d has no name", i)
		}
		if feed.URL == "" {
			return fmt.Errorf("feed %q has no URL", feed.Name)
		}
		if feed.MaxItems < 0 {
			return fmt.Errorf("feed %q has negative max_items", feed.Name)
		}
	}

	for i, domain := range config.Domains {
		if domain.Domain == "" {
			return fmt.Errorf("domain at index %d is empty", i)
		}
	}

	return nil
}

// EnabledFeeds returns only the feeds marked enabled.
func (c *Config) EnabledFeeds() []FeedConfig {
	enabled := make([]FeedConfig, 0, len(c.Feeds))
	for _, feed := range c.Feeds {
		if feed.Enabled {
			enabled = append(enabled, feed)
		}
	}
	return enabled
}

// EnabledDomains returns only the curated domains marked enabled.
func (c *Config) EnabledDomains() []DomainConfig {
	enabled := make([]DomainConfig, 0, len(c.Domains))
	for _, domain := range c.Domains {
		if domain.Enabled {
			enabled = append(enabled, domain)
		}
	}
	return enabled
}
