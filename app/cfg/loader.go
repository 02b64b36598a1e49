package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for cache management endpoints (optional)"`
	SourcesFile  string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"Path to the sources configuration file"`
	CachePath    string `long:"cache-path" env:"CACHE_PATH" default:"./data/cache.db" description:"Path to the article cache database"`

	// Source credentials
	ExaAPIKey  string `long:"exa-api-key" env:"EXA_API_KEY" description:"Exa search API key (enables the curated search source)"`
	JinaAPIKey string `long:"jina-api-key" env:"JINA_API_KEY" description:"Jina reader API key (enables the search fallback provider)"`

	// Cache TTLs
	WikipediaTTL int `long:"wikipedia-ttl" env:"WIKIPEDIA_TTL_HOURS" default:"168" description:"Wikipedia cache TTL in hours"`
	RSSTTL       int `long:"rss-ttl" env:"RSS_TTL_HOURS" default:"6" description:"RSS cache TTL in hours"`
	ExternalTTL  int `long:"external-ttl" env:"EXTERNAL_TTL_HOURS" default:"12" description:"Curated search cache TTL in hours"`

	// Background refresh
	RefreshInterval int `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"300" description:"Cache refresh check interval in seconds"`
	WorkerCount     int `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for cache refresh"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"GemFeed/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:            raw.Port,
		APIAccessKey:    raw.APIAccessKey,
		SourcesFile:     raw.SourcesFile,
		CachePath:       raw.CachePath,
		ExaAPIKey:       raw.ExaAPIKey,
		JinaAPIKey:      raw.JinaAPIKey,
		WikipediaTTL:    raw.WikipediaTTL,
		RSSTTL:          raw.RSSTTL,
		ExternalTTL:     raw.ExternalTTL,
		RefreshInterval: raw.RefreshInterval,
		WorkerCount:     raw.WorkerCount,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
