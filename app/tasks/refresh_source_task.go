package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/facetlab/gemfeed/app/sources"
)

// RefreshSourceTask warms one adapter's cache. When the cache is still
// valid the fetch returns it immediately, so re-running is cheap.
type RefreshSourceTask struct {
	Task
	adapter sources.Adapter
}

func NewRefreshSourceTask(adapter sources.Adapter) *RefreshSourceTask {
	return &RefreshSourceTask{
		Task:    NewTask(TaskTypeRefreshSource, adapter.Name()),
		adapter: adapter,
	}
}

func (t *RefreshSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.adapter.IsEnabled() {
		slog.Debug("Source disabled, skipping refresh", "source", t.SourceName)
		return nil
	}

	articles := t.adapter.FetchArticles(ctx)
	if len(articles) == 0 {
		return fmt.Errorf("refresh produced no articles for source %s", t.SourceName)
	}

	slog.Info("Task completed",
		"type", "RefreshSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"articles", len(articles))

	return nil
}
