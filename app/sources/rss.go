package sources

import (
	"bytes"
	"cmp"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/facetlab/gemfeed/app/article"
	"github.com/facetlab/gemfeed/app/cache"
)

const (
	rssNamespace    = "rss"
	rssCacheVersion = 1
	rssTimeout      = 20 * time.Second
)

var _ Adapter = (*RSSAdapter)(nil)

// RSSAdapter aggregates the configured industry feeds. Feeds fetch
// independently: one endpoint failing or stalling never blocks the rest.
type RSSAdapter struct {
	store      *cache.Store
	httpClient *http.Client
	feeds      []FeedConfig
	filter     *article.QualityFilter
	parser     *gofeed.Parser
	ttl        time.Duration
	userAgent  string
}

func NewRSSAdapter(store *cache.Store, httpClient *http.Client, feeds []FeedConfig, filter *article.QualityFilter, ttl time.Duration, userAgent string) *RSSAdapter {
	return &RSSAdapter{
		store:      store,
		httpClient: httpClient,
		feeds:      feeds,
		filter:     filter,
		parser:     gofeed.NewParser(),
		ttl:        ttl,
		userAgent:  userAgent,
	}
}

func (a *RSSAdapter) Name() string {
	return "rss"
}

func (a *RSSAdapter) IsEnabled() bool {
	for _, feed := range a.feeds {
		if feed.Enabled {
			return true
		}
	}
	return false
}

func (a *RSSAdapter) ClearCache() error {
	return a.store.Delete(rssNamespace)
}

func (a *RSSAdapter) FetchArticles(ctx context.Context) []article.Article {
	if !a.IsEnabled() {
		return nil
	}

	if entry, ok := a.store.Get(rssNamespace); ok && entry.Valid(rssCacheVersion, time.Now()) {
		slog.Debug("RSS cache hit", "articles", len(entry.Articles))
		return entry.Articles
	}

	articles := a.fetchFeeds(ctx)
	if len(articles) == 0 {
		return nil
	}

	now := time.Now().UTC()
	entry := &cache.Entry{
		Articles:      articles,
		LastFetchedAt: now,
		ExpiresAt:     now.Add(a.ttl),
		Version:       rssCacheVersion,
	}
	if err := a.store.Set(rssNamespace, entry); err != nil {
		slog.Warn("Failed to cache RSS articles", "error", err)
	}

	return articles
}

func (a *RSSAdapter) fetchFeeds(ctx context.Context) []article.Article {
	results := make([][]article.Article, len(a.feeds))

	var wg sync.WaitGroup
	for i, feed := range a.feeds {
		if !feed.Enabled {
			continue
		}
		wg.Add(1)
		go func(i int, feed FeedConfig) {
			defer wg.Done()
			items, err := a.fetchFeed(ctx, feed)
			if err != nil {
				slog.Warn("RSS feed fetch failed", "feed", feed.Name, "error", err)
				return
			}
			results[i] = items
		}(i, feed)
	}
	wg.Wait()

	var articles []article.Article
	for _, items := range results {
		articles = append(articles, items...)
	}
	return articles
}

func (a *RSSAdapter) fetchFeed(ctx context.Context, feedConfig FeedConfig) ([]article.Article, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, rssTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, feedConfig.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	data, err := doRequest(a.httpClient, req)
	if err != nil {
		return nil, err
	}

	feed, err := a.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	category := article.ParseCategory(feedConfig.Category)
	now := time.Now().UTC()

	articles := make([]article.Article, 0, feedConfig.MaxItems)
	for _, item := range feed.Items {
		if len(articles) >= feedConfig.MaxItems {
			break
		}
		if item.Link == "" {
			continue
		}

		title := article.CleanText(item.Title)
		body := article.CleanText(cmp.Or(item.Content, item.Description))

		if rejected, reason := a.filter.Run(title, body); rejected {
			slog.Debug("RSS item rejected", "feed", feedConfig.Name, "title", title, "reason", reason)
			continue
		}

		record := article.Article{
			ID:         "rss-" + contentID(item.Link),
			Title:      title,
			Category:   category,
			Summary:    article.Summarize(body),
			Extract:    article.Truncate(body, article.MaxExtractLength),
			URL:        item.Link,
			Source:     article.SourceRSS,
			SourceName: feedConfig.Name,
			FetchedAt:  now,
		}

		if item.PublishedParsed != nil {
			record.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			record.PublishedAt = item.UpdatedParsed
		}

		if item.Author != nil {
			record.Author = item.Author.Name
		}

		if item.Image != nil {
			record.Image = item.Image.URL
			record.Thumbnail = item.Image.URL
		} else if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
			record.Image = item.Enclosures[0].URL
			record.Thumbnail = item.Enclosures[0].URL
		}

		articles = append(articles, record)
	}

	return articles, nil
}

// contentID derives a stable short identifier from a link.
func contentID(link string) string {
	hash := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", hash[:8])
}
