package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/facetlab/gemfeed/app/article"
)

// Entry is the persisted payload for one source namespace. Entries are
// replaced wholesale on refetch, never mutated in place.
type Entry struct {
	Articles      []article.Article `json:"articles"`
	LastFetchedAt time.Time         `json:"last_fetched_at"`
	ExpiresAt     time.Time         `json:"expires_at"`
	Version       int               `json:"version"`
}

// Valid reports whether the entry can satisfy a read: the schema
// version matches, the TTL has not lapsed, and there is content.
func (e *Entry) Valid(version int, now time.Time) bool {
	if e.Version != version {
		return false
	}
	if now.After(e.ExpiresAt) {
		return false
	}
	return len(e.Articles) > 0
}

// Store persists cache entries keyed by a per-source namespace.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Get loads the entry for a namespace. Missing rows and corrupt
// payloads are both reported as a miss; corrupt rows are removed so
// the next write starts clean.
func (s *Store) Get(namespace string) (*Entry, bool) {
	var payload string
	err := s.db.QueryRow(`
		SELECT payload FROM cache_entries WHERE namespace = $1
	`, namespace).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		slog.Warn("Cache read failed", "namespace", namespace, "error", err)
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		slog.Warn("Cache entry corrupt, discarding", "namespace", namespace, "error", err)
		if delErr := s.Delete(namespace); delErr != nil {
			slog.Warn("Failed to discard corrupt cache entry", "namespace", namespace, "error", delErr)
		}
		return nil, false
	}

	return &entry, true
}

// Set replaces the entry for a namespace.
func (s *Store) Set(namespace string, entry *Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO cache_entries (namespace, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT(namespace) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, namespace, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for a namespace unconditionally.
func (s *Store) Delete(namespace string) error {
	_, err := s.db.Exec(`DELETE FROM cache_entries WHERE namespace = $1`, namespace)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}
