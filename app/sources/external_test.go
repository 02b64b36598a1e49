package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facetlab/gemfeed/app/article"
)

func newExternalTestAdapter(t *testing.T, domains []DomainConfig, exaKey, jinaKey string) *ExternalAdapter {
	t.Helper()
	return NewExternalAdapter(newTestStore(t), newTestClient(), domains, "jewelry education",
		article.NewQualityFilter(), exaKey, jinaKey, time.Hour, "test-agent")
}

func exaHit(title, url, text string) string {
	return fmt.Sprintf(`{"title": %q, "url": %q, "text": %q, "publishedDate": "2024-03-01T12:00:00Z"}`, title, url, text)
}

func TestExternalAdapter_ExaSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "exa-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"results": [%s]}`,
			exaHit("Emerald Buying Guide", "https://www.gemsociety.org/article/emerald",
				"Emeralds are beryl colored by chromium. Inclusions are expected in natural stones."))
	}))
	defer server.Close()

	domains := []DomainConfig{{Domain: "gemsociety.org", Name: "Gem Society", Category: "Gemstones", Enabled: true}}
	adapter := newExternalTestAdapter(t, domains, "exa-key", "")
	adapter.exaURL = server.URL

	articles := adapter.FetchArticles(context.Background())

	if len(articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(articles))
	}

	record := articles[0]
	if record.Source != article.SourceExa {
		t.Errorf("Source wrong: %s", record.Source)
	}
	if record.SourceName != "Gem Society" {
		t.Errorf("Domain metadata should map onto the record, got %q", record.SourceName)
	}
	if record.Category != article.CategoryGemstones {
		t.Errorf("Category wrong: %s", record.Category)
	}
	if record.PublishedAt == nil {
		t.Error("publishedDate should be parsed")
	}
}

func TestExternalAdapter_FallsBackToJina(t *testing.T) {
	exa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer exa.Close()

	var jinaRequests atomic.Int64
	jina := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jinaRequests.Add(1)
		fmt.Fprint(w, `{"data": [{
			"title": "Ring Resizing Explained",
			"url": "https://www.gemsociety.org/article/resizing",
			"content": "Resizing a ring changes the band circumference. A jeweler cuts and rejoins the shank."
		}]}`)
	}))
	defer jina.Close()

	domains := []DomainConfig{{Domain: "gemsociety.org", Name: "Gem Society", Enabled: true}}
	adapter := newExternalTestAdapter(t, domains, "exa-key", "jina-key")
	adapter.exaURL = exa.URL
	adapter.jinaURL = jina.URL + "/"

	articles := adapter.FetchArticles(context.Background())

	if jinaRequests.Load() == 0 {
		t.Fatal("Jina fallback should be queried when Exa fails")
	}
	if len(articles) != 1 {
		t.Fatalf("Expected 1 article from fallback, got %d", len(articles))
	}
	if articles[0].Source != article.SourceJina {
		t.Errorf("Fallback records carry the jina source tag, got %s", articles[0].Source)
	}
}

func TestExternalAdapter_JinaDomainLimit(t *testing.T) {
	var jinaRequests atomic.Int64
	jina := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jinaRequests.Add(1)
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer jina.Close()

	domains := []DomainConfig{
		{Domain: "a.example.com", Enabled: true},
		{Domain: "b.example.com", Enabled: true},
		{Domain: "c.example.com", Enabled: true},
		{Domain: "d.example.com", Enabled: true},
		{Domain: "e.example.com", Enabled: true},
	}
	adapter := newExternalTestAdapter(t, domains, "", "jina-key")
	adapter.jinaURL = jina.URL + "/"

	adapter.FetchArticles(context.Background())

	if jinaRequests.Load() != 3 {
		t.Errorf("Jina fan-out should be capped at 3 domains, got %d requests", jinaRequests.Load())
	}
}

func TestExternalAdapter_RejectsSalesHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [%s, %s]}`,
			exaHit("Shop Rings", "https://www.gemsociety.org/shop",
				"Free shipping on orders over $50. Shop now."),
			exaHit("Garnet Varieties", "https://www.gemsociety.org/article/garnet",
				"Garnet is a group of silicate minerals spanning many colors."))
	}))
	defer server.Close()

	domains := []DomainConfig{{Domain: "gemsociety.org", Enabled: true}}
	adapter := newExternalTestAdapter(t, domains, "exa-key", "")
	adapter.exaURL = server.URL

	articles := adapter.FetchArticles(context.Background())

	if len(articles) != 1 {
		t.Fatalf("Sales hit should be rejected, got %d articles", len(articles))
	}
	if articles[0].Title != "Garnet Varieties" {
		t.Errorf("Wrong surviving article: %s", articles[0].Title)
	}
}

func TestExternalAdapter_IsEnabled(t *testing.T) {
	domains := []DomainConfig{{Domain: "gemsociety.org", Enabled: true}}

	tests := []struct {
		name     string
		domains  []DomainConfig
		exaKey   string
		jinaKey  string
		expected bool
	}{
		{"no credentials", domains, "", "", false},
		{"exa key only", domains, "key", "", true},
		{"jina key only", domains, "", "key", true},
		{"no enabled domains", []DomainConfig{{Domain: "x.example.com", Enabled: false}}, "key", "key", false},
		{"no domains at all", nil, "key", "key", false},
	}

	for _, test := range tests {
		adapter := newExternalTestAdapter(t, test.domains, test.exaKey, test.jinaKey)
		if result := adapter.IsEnabled(); result != test.expected {
			t.Errorf("%s: expected enabled=%v, got %v", test.name, test.expected, result)
		}
	}
}

func TestExternalAdapter_DisabledWithoutCredentials(t *testing.T) {
	adapter := newExternalTestAdapter(t, []DomainConfig{{Domain: "gemsociety.org", Enabled: true}}, "", "")

	if articles := adapter.FetchArticles(context.Background()); articles != nil {
		t.Errorf("Disabled adapter should return nil, got %d articles", len(articles))
	}
}

func TestExternalAdapter_ExtractsHTMLBodies(t *testing.T) {
	html := `<html><body><article><p>Cameo carving is a relief technique used on shell and hardstone since antiquity. ` +
		`Skilled carvers exploit layered material to create contrast between subject and background.</p>` +
		`<p>Modern cameos are still cut by hand in Torre del Greco.</p></article></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [%s]}`,
			exaHit("Cameo Carving", "https://www.gemsociety.org/article/cameo", html))
	}))
	defer server.Close()

	domains := []DomainConfig{{Domain: "gemsociety.org", Enabled: true}}
	adapter := newExternalTestAdapter(t, domains, "exa-key", "")
	adapter.exaURL = server.URL

	articles := adapter.FetchArticles(context.Background())

	if len(articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(articles))
	}
	if got := articles[0].Extract; got == "" || len(got) > 0 && (got[0] == '<') {
		t.Errorf("Extract should be readable text, got %q", got)
	}
}
