package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/facetlab/gemfeed/app/article"
	"github.com/facetlab/gemfeed/app/cache"
)

const (
	externalNamespace    = "external"
	externalCacheVersion = 1
	externalTimeout      = 30 * time.Second

	exaBaseURL  = "https://api.exa.ai/search"
	jinaBaseURL = "https://s.jina.ai/"

	exaResultLimit = 20
	// Jina issues one request per domain, so cap the fan-out
	jinaDomainLimit = 3
)

var _ Adapter = (*ExternalAdapter)(nil)

// ExternalAdapter runs a semantic search over the curated domain list:
// Exa first, Jina per-domain when Exa is unavailable or empty.
type ExternalAdapter struct {
	store       *cache.Store
	httpClient  *http.Client
	domains     []DomainConfig
	searchQuery string
	filter      *article.QualityFilter
	extractor   *ContentExtractor
	exaKey      string
	jinaKey     string
	ttl         time.Duration
	userAgent   string
	exaURL      string
	jinaURL     string
}

func NewExternalAdapter(store *cache.Store, httpClient *http.Client, domains []DomainConfig, searchQuery string,
	filter *article.QualityFilter, exaKey, jinaKey string, ttl time.Duration, userAgent string) *ExternalAdapter {
	return &ExternalAdapter{
		store:       store,
		httpClient:  httpClient,
		domains:     domains,
		searchQuery: searchQuery,
		filter:      filter,
		extractor:   NewContentExtractor(),
		exaKey:      exaKey,
		jinaKey:     jinaKey,
		ttl:         ttl,
		userAgent:   userAgent,
		exaURL:      exaBaseURL,
		jinaURL:     jinaBaseURL,
	}
}

func (a *ExternalAdapter) Name() string {
	return "external"
}

func (a *ExternalAdapter) IsEnabled() bool {
	if a.exaKey == "" && a.jinaKey == "" {
		return false
	}
	return len(a.enabledDomains()) > 0
}

func (a *ExternalAdapter) ClearCache() error {
	return a.store.Delete(externalNamespace)
}

func (a *ExternalAdapter) FetchArticles(ctx context.Context) []article.Article {
	if !a.IsEnabled() {
		return nil
	}

	if entry, ok := a.store.Get(externalNamespace); ok && entry.Valid(externalCacheVersion, time.Now()) {
		slog.Debug("External cache hit", "articles", len(entry.Articles))
		return entry.Articles
	}

	articles := a.search(ctx)
	if len(articles) == 0 {
		return nil
	}

	now := time.Now().UTC()
	entry := &cache.Entry{
		Articles:      articles,
		LastFetchedAt: now,
		ExpiresAt:     now.Add(a.ttl),
		Version:       externalCacheVersion,
	}
	if err := a.store.Set(externalNamespace, entry); err != nil {
		slog.Warn("Failed to cache external articles", "error", err)
	}

	return articles
}

func (a *ExternalAdapter) search(ctx context.Context) []article.Article {
	if a.exaKey != "" {
		articles, err := a.searchExa(ctx)
		if err != nil {
			slog.Warn("Exa search failed, falling back to Jina", "error", err)
		} else if len(articles) > 0 {
			return articles
		} else {
			slog.Debug("Exa search returned nothing, falling back to Jina")
		}
	}

	if a.jinaKey != "" {
		return a.searchJina(ctx)
	}
	return nil
}

func (a *ExternalAdapter) enabledDomains() []DomainConfig {
	enabled := make([]DomainConfig, 0, len(a.domains))
	for _, domain := range a.domains {
		if domain.Enabled {
			enabled = append(enabled, domain)
		}
	}
	return enabled
}

// Exa provider

type exaRequest struct {
	Query          string   `json:"query"`
	NumResults     int      `json:"numResults"`
	IncludeDomains []string `json:"includeDomains"`
	Contents       struct {
		Text bool `json:"text"`
	} `json:"contents"`
}

type exaResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Text          string `json:"text"`
		Image         string `json:"image"`
		Author        string `json:"author"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

func (a *ExternalAdapter) searchExa(ctx context.Context) ([]article.Article, error) {
	domains := a.enabledDomains()
	includeDomains := make([]string, 0, len(domains))
	for _, domain := range domains {
		includeDomains = append(includeDomains, domain.Domain)
	}

	payload := exaRequest{
		Query:          a.searchQuery,
		NumResults:     exaResultLimit,
		IncludeDomains: includeDomains,
	}
	payload.Contents.Text = true

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, externalTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, a.exaURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("x-api-key", a.exaKey)

	data, err := doRequest(a.httpClient, req)
	if err != nil {
		return nil, err
	}

	var response exaResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	articles := make([]article.Article, 0, len(response.Results))
	for _, hit := range response.Results {
		record, ok := a.buildRecord(article.SourceExa, hit.Title, hit.URL, hit.Text, hit.Image, hit.Author, hit.PublishedDate)
		if ok {
			articles = append(articles, record)
		}
	}
	return articles, nil
}

// Jina provider

type jinaResponse struct {
	Data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Content     string `json:"content"`
	} `json:"data"`
}

func (a *ExternalAdapter) searchJina(ctx context.Context) []article.Article {
	domains := a.enabledDomains()
	if len(domains) > jinaDomainLimit {
		domains = domains[:jinaDomainLimit]
	}

	var articles []article.Article
	for _, domain := range domains {
		hits, err := a.searchJinaDomain(ctx, domain)
		if err != nil {
			slog.Warn("Jina search failed for domain", "domain", domain.Domain, "error", err)
			continue
		}
		articles = append(articles, hits...)
	}
	return articles
}

func (a *ExternalAdapter) searchJinaDomain(ctx context.Context, domain DomainConfig) ([]article.Article, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, externalTimeout)
	defer cancel()

	endpoint := a.jinaURL + "?q=" + url.QueryEscape(a.searchQuery+" site:"+domain.Domain)
	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Authorization", "Bearer "+a.jinaKey)

	data, err := doRequest(a.httpClient, req)
	if err != nil {
		return nil, err
	}

	var response jinaResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse reader response: %w", err)
	}

	articles := make([]article.Article, 0, len(response.Data))
	for _, hit := range response.Data {
		body := hit.Content
		if body == "" {
			body = hit.Description
		}
		record, ok := a.buildRecord(article.SourceJina, hit.Title, hit.URL, body, "", "", "")
		if ok {
			articles = append(articles, record)
		}
	}
	return articles, nil
}

// buildRecord normalizes one search hit, applying content extraction
// and the quality filter. ok is false when the hit was rejected.
func (a *ExternalAdapter) buildRecord(source article.Source, title, link, body, image, author, published string) (article.Article, bool) {
	if link == "" {
		return article.Article{}, false
	}

	if looksLikeHTML(body) {
		if extracted, err := a.extractor.Run(body); err == nil {
			body = extracted
		}
	}

	cleanTitle := article.CleanText(title)
	cleanBody := article.CleanText(body)

	// The landing-page link heuristic needs the raw body: cleaning
	// collapses the markdown links it counts.
	if rejected, reason := a.filter.Run(cleanTitle, body); rejected {
		slog.Debug("Search hit rejected", "url", link, "reason", reason)
		return article.Article{}, false
	}

	record := article.Article{
		ID:         string(source) + "-" + contentID(link),
		Title:      cleanTitle,
		Category:   article.DefaultCategory,
		Image:      image,
		Thumbnail:  image,
		Summary:    article.Summarize(cleanBody),
		Extract:    article.Truncate(cleanBody, article.MaxExtractLength),
		URL:        link,
		Source:     source,
		SourceName: string(source),
		FetchedAt:  time.Now().UTC(),
		Author:     author,
	}

	if meta, ok := a.matchDomain(link); ok {
		record.SourceName = meta.Name
		record.Category = article.ParseCategory(meta.Category)
	}

	if published != "" {
		if ts, err := time.Parse(time.RFC3339, published); err == nil {
			record.PublishedAt = &ts
		}
	}

	return record, true
}

// matchDomain maps a hit URL back to its configured domain metadata by
// hostname substring.
func (a *ExternalAdapter) matchDomain(link string) (DomainConfig, bool) {
	parsed, err := url.Parse(link)
	if err != nil {
		return DomainConfig{}, false
	}
	host := strings.ToLower(parsed.Hostname())

	for _, domain := range a.domains {
		if strings.Contains(host, strings.ToLower(domain.Domain)) {
			return domain, true
		}
	}
	return DomainConfig{}, false
}
