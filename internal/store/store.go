// Package store caches upstream metadata payloads in a local SQLite file so
// repeated runs skip detail lookups that rarely change between builds.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a namespaced id → JSON cache backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache DB: %w", err)
	}
	// One writer at a time is enough for a batch pipeline.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache (
		namespace  TEXT NOT NULL,
		id         TEXT NOT NULL,
		payload    TEXT NOT NULL,
		fetched_at INTEGER NOT NULL,
		PRIMARY KEY (namespace, id)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get loads a cached payload into v. The second return reports whether the
// entry exists and is younger than maxAge (maxAge <= 0 disables expiry).
func (s *Store) Get(namespace, id string, maxAge time.Duration, v interface{}) (bool, error) {
	var payload string
	var fetchedAt int64
	err := s.db.QueryRow(
		"SELECT payload, fetched_at FROM cache WHERE namespace = ? AND id = ?",
		namespace, id,
	).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if maxAge > 0 && time.Since(time.Unix(fetchedAt, 0)) > maxAge {
		return false, nil
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		// A stale entry from an older schema; treat as a miss.
		return false, nil
	}
	return true, nil
}

// Put stores v under (namespace, id), replacing any previous entry.
func (s *Store) Put(namespace, id string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO cache (namespace, id, payload, fetched_at) VALUES (?, ?, ?, ?)",
		namespace, id, string(payload), time.Now().Unix(),
	)
	return err
}

// Prune deletes entries in namespace older than maxAge.
func (s *Store) Prune(namespace string, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()
	res, err := s.db.Exec(
		"DELETE FROM cache WHERE namespace = ? AND fetched_at < ?",
		namespace, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
