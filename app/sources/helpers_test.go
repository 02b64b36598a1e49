package sources

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/facetlab/gemfeed/app/cache"
)

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()

	db, err := cache.NewConnection(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := cache.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return cache.NewStore(db)
}

func newTestClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
