package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/facetlab/gemfeed/app/article"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewStore(db)
}

func testEntry(expiresAt time.Time) *Entry {
	return &Entry{
		Articles: []article.Article{
			{
				ID:        "rss-abc123",
				Title:     "Caring for Opals",
				Category:  article.CategoryCare,
				URL:       "https://example.com/opal-care",
				Source:    article.SourceRSS,
				FetchedAt: time.Now().UTC(),
			},
		},
		LastFetchedAt: time.Now().UTC(),
		ExpiresAt:     expiresAt,
		Version:       1,
	}
}

func TestStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	entry := testEntry(time.Now().Add(time.Hour))
	if err := store.Set("rss", entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := store.Get("rss")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if len(got.Articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(got.Articles))
	}
	if got.Articles[0].ID != "rss-abc123" {
		t.Errorf("Article ID not preserved: %s", got.Articles[0].ID)
	}
	if got.Version != 1 {
		t.Errorf("Version not preserved: %d", got.Version)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.Get("wikipedia"); ok {
		t.Error("Expected cache miss for unknown namespace")
	}
}

func TestStore_SetReplacesEntry(t *testing.T) {
	store := newTestStore(t)

	first := testEntry(time.Now().Add(time.Hour))
	if err := store.Set("rss", first); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second := testEntry(time.Now().Add(2 * time.Hour))
	second.Articles[0].Title = "Updated Title"
	second.Version = 2
	if err := store.Set("rss", second); err != nil {
		t.Fatalf("Second set failed: %v", err)
	}

	got, ok := store.Get("rss")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if got.Articles[0].Title != "Updated Title" {
		t.Errorf("Entry should be replaced, got title %q", got.Articles[0].Title)
	}
	if got.Version != 2 {
		t.Errorf("Expected version 2, got %d", got.Version)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("external", testEntry(time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete("external"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Get("external"); ok {
		t.Error("Expected miss after delete")
	}

	// Deleting a missing namespace is not an error
	if err := store.Delete("external"); err != nil {
		t.Errorf("Delete of missing namespace should succeed: %v", err)
	}
}

func TestStore_NamespacesAreIndependent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("rss", testEntry(time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set("wikipedia", testEntry(time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := store.Delete("rss"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Get("wikipedia"); !ok {
		t.Error("Deleting one namespace should not affect another")
	}
}

func TestEntry_Valid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		entry    *Entry
		version  int
		expected bool
	}{
		{"fresh entry", testEntry(now.Add(time.Hour)), 1, true},
		{"expired entry", testEntry(now.Add(-time.Minute)), 1, false},
		{"version mismatch", testEntry(now.Add(time.Hour)), 2, false},
		{"empty articles", &Entry{ExpiresAt: now.Add(time.Hour), Version: 1}, 1, false},
	}

	for _, test := range tests {
		if result := test.entry.Valid(test.version, now); result != test.expected {
			t.Errorf("%s: expected valid=%v, got %v", test.name, test.expected, result)
		}
	}
}
