package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/facetlab/gemfeed/app/article"
	"github.com/facetlab/gemfeed/app/sources"
)

// Aggregator is the single entry point for the aggregated article
// list: it fans out to every adapter, tolerates any subset failing,
// and returns one deduplicated, priority-ordered list.
type Aggregator struct {
	adapters []sources.Adapter
	dedup    *Deduplicator
}

func New(adapters ...sources.Adapter) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		dedup:    NewDeduplicator(),
	}
}

// FetchAll gathers articles from every enabled adapter concurrently,
// waiting for all of them to settle. An adapter that fails or panics
// contributes zero records; it never aborts the others.
func (a *Aggregator) FetchAll(ctx context.Context) []article.Article {
	results := make([][]article.Article, len(a.adapters))

	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		wg.Add(1)
		go func(i int, adapter sources.Adapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Source adapter panicked", "source", adapter.Name(), "panic", r)
				}
			}()

			if !adapter.IsEnabled() {
				slog.Debug("Source disabled, skipping", "source", adapter.Name())
				return
			}

			records := adapter.FetchArticles(ctx)
			slog.Info("Source fetch settled", "source", adapter.Name(), "articles", len(records))
			results[i] = records
		}(i, adapter)
	}
	wg.Wait()

	var combined []article.Article
	for _, records := range results {
		combined = append(combined, records...)
	}

	deduped := a.dedup.Run(combined)
	sortArticles(deduped)

	slog.Info("Aggregation complete", "combined", len(combined), "returned", len(deduped))
	return deduped
}

// ClearAllCaches clears every adapter's cache, best-effort: one
// adapter failing does not stop the others.
func (a *Aggregator) ClearAllCaches() {
	for _, adapter := range a.adapters {
		if err := adapter.ClearCache(); err != nil {
			slog.Warn("Failed to clear source cache", "source", adapter.Name(), "error", err)
		}
	}
}

// SourcesStatus reports each adapter's enablement.
func (a *Aggregator) SourcesStatus() map[string]bool {
	status := make(map[string]bool, len(a.adapters))
	for _, adapter := range a.adapters {
		status[adapter.Name()] = adapter.IsEnabled()
	}
	return status
}

// sortArticles orders by source priority ascending, then recency
// descending within equal priority.
func sortArticles(records []article.Article) {
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := records[i].Source.Priority(), records[j].Source.Priority()
		if pi != pj {
			return pi < pj
		}
		return records[i].SortedAt().After(records[j].SortedAt())
	})
}
