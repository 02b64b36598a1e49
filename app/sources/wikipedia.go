package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/facetlab/gemfeed/app/article"
	"github.com/facetlab/gemfeed/app/cache"
)

const (
	wikipediaNamespace    = "wikipedia"
	wikipediaCacheVersion = 1
	wikipediaTimeout      = 15 * time.Second
	wikipediaBaseURL      = "https://en.wikipedia.org/api/rest_v1/page/summary"
)

var _ Adapter = (*WikipediaAdapter)(nil)

// WikipediaAdapter mirrors a fixed list of encyclopedia topics. It is
// always enabled: the REST API needs no credentials.
type WikipediaAdapter struct {
	store      *cache.Store
	httpClient *http.Client
	topics     []TopicConfig
	ttl        time.Duration
	userAgent  string
	baseURL    string
}

func NewWikipediaAdapter(store *cache.Store, httpClient *http.Client, topics []TopicConfig, ttl time.Duration, userAgent string) *WikipediaAdapter {
	return &WikipediaAdapter{
		store:      store,
		httpClient: httpClient,
		topics:     topics,
		ttl:        ttl,
		userAgent:  userAgent,
		baseURL:    wikipediaBaseURL,
	}
}

func (a *WikipediaAdapter) Name() string {
	return "wikipedia"
}

func (a *WikipediaAdapter) IsEnabled() bool {
	return true
}

func (a *WikipediaAdapter) ClearCache() error {
	return a.store.Delete(wikipediaNamespace)
}

func (a *WikipediaAdapter) FetchArticles(ctx context.Context) []article.Article {
	if entry, ok := a.store.Get(wikipediaNamespace); ok && entry.Valid(wikipediaCacheVersion, time.Now()) {
		slog.Debug("Wikipedia cache hit", "articles", len(entry.Articles))
		return entry.Articles
	}

	articles := a.fetchTopics(ctx)
	if len(articles) == 0 {
		return nil
	}

	now := time.Now().UTC()
	entry := &cache.Entry{
		Articles:      articles,
		LastFetchedAt: now,
		ExpiresAt:     now.Add(a.ttl),
		Version:       wikipediaCacheVersion,
	}
	if err := a.store.Set(wikipediaNamespace, entry); err != nil {
		slog.Warn("Failed to cache Wikipedia articles", "error", err)
	}

	return articles
}

// fetchTopics requests every configured topic concurrently and keeps
// whatever succeeded, preserving the configured order.
func (a *WikipediaAdapter) fetchTopics(ctx context.Context) []article.Article {
	results := make([]*article.Article, len(a.topics))

	var wg sync.WaitGroup
	for i, topic := range a.topics {
		wg.Add(1)
		go func(i int, topic TopicConfig) {
			defer wg.Done()
			record, err := a.fetchTopic(ctx, topic)
			if err != nil {
				slog.Warn("Wikipedia topic fetch failed", "topic", topic.Title, "error", err)
				return
			}
			results[i] = record
		}(i, topic)
	}
	wg.Wait()

	articles := make([]article.Article, 0, len(a.topics))
	for _, record := range results {
		if record != nil {
			articles = append(articles, *record)
		}
	}
	return articles
}

type wikipediaSummary struct {
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	OriginalImage struct {
		Source string `json:"source"`
	} `json:"originalimage"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (a *WikipediaAdapter) fetchTopic(ctx context.Context, topic TopicConfig) (*article.Article, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, wikipediaTimeout)
	defer cancel()

	endpoint := a.baseURL + "/" + url.PathEscape(strings.ReplaceAll(topic.Title, " ", "_"))
	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	data, err := doRequest(a.httpClient, req)
	if err != nil {
		return nil, err
	}

	var summary wikipediaSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	if summary.Extract == "" {
		return nil, fmt.Errorf("summary has no extract")
	}

	pageURL := summary.ContentURLs.Desktop.Page
	if pageURL == "" {
		pageURL = "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(topic.Title, " ", "_"))
	}

	extract := article.Truncate(article.CleanText(summary.Extract), article.MaxExtractLength)

	return &article.Article{
		ID:         "wikipedia-" + topicSlug(topic.Title),
		Title:      article.CleanText(summary.Title),
		Category:   article.ParseCategory(topic.Category),
		Image:      summary.OriginalImage.Source,
		Thumbnail:  summary.Thumbnail.Source,
		Summary:    article.Summarize(extract),
		Extract:    extract,
		URL:        pageURL,
		Source:     article.SourceWikipedia,
		SourceName: "Wikipedia",
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func topicSlug(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}
