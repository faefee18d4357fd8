// Package iptvorg loads the iptv-org community channel list
// (https://iptv-org.github.io/api/channels.json) and answers logo lookups
// for channels the static logo table does not know.
package iptvorg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/listatv/listatv/internal/fetch"
)

const DefaultChannelsURL = "https://iptv-org.github.io/api/channels.json"

// Channel is one record from the iptv-org channels API.
type Channel struct {
	ID       string   `json:"id"`        // e.g. "rai1.it"
	Name     string   `json:"name"`      // e.g. "Rai 1"
	AltNames []string `json:"alt_names"` // alternative display names
	Country  string   `json:"country"`   // ISO 3166-1 alpha-2, e.g. "IT"
	Logo     string   `json:"logo"`
}

// DB holds the channel list with a normalized-name index.
type DB struct {
	Channels []Channel `json:"channels"`

	byName map[string][]*Channel
}

// Len reports the number of loaded channels.
func (db *DB) Len() int { return len(db.Channels) }

// Load reads a previously saved DB. A missing file yields an empty DB so
// enrichment degrades to a no-op.
func Load(path string) (*DB, error) {
	db := &DB{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			db.buildIndex()
			return db, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, db); err != nil {
		return nil, fmt.Errorf("iptvorg db %s: %w", path, err)
	}
	db.buildIndex()
	return db, nil
}

// Save persists the DB for the next run.
func (db *DB) Save(path string) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Fetch downloads the channel list, keeping only the given countries when
// any are named. The full list runs to tens of thousands of channels; the
// pipeline only ever matches against the Italian slice.
func (db *DB) Fetch(ctx context.Context, client *http.Client, url string, countries ...string) (int, error) {
	if url == "" {
		url = DefaultChannelsURL
	}
	var channels []Channel
	if err := fetch.JSON(ctx, client, url, nil, &channels); err != nil {
		return 0, fmt.Errorf("iptvorg channels: %w", err)
	}
	if len(countries) > 0 {
		keep := map[string]bool{}
		for _, c := range countries {
			keep[strings.ToUpper(c)] = true
		}
		filtered := channels[:0]
		for _, ch := range channels {
			if keep[strings.ToUpper(ch.Country)] {
				filtered = append(filtered, ch)
			}
		}
		channels = filtered
	}
	db.Channels = channels
	db.buildIndex()
	return len(channels), nil
}

// Logo returns the logo URL for a display name, or "" when the name does not
// resolve to exactly one channel. Ambiguous names stay unmatched rather than
// guessing.
func (db *DB) Logo(name string) string {
	if db == nil {
		return ""
	}
	matches := db.byName[normalizeName(name)]
	if len(matches) != 1 {
		return ""
	}
	return matches[0].Logo
}

// Find returns the single channel matching the display name, or nil.
func (db *DB) Find(name string) *Channel {
	if db == nil {
		return nil
	}
	matches := db.byName[normalizeName(name)]
	if len(matches) != 1 {
		return nil
	}
	return matches[0]
}

func (db *DB) buildIndex() {
	db.byName = make(map[string][]*Channel, len(db.Channels)*2)
	for i := range db.Channels {
		ch := &db.Channels[i]
		for _, n := range append([]string{ch.Name}, ch.AltNames...) {
			key := normalizeName(n)
			if key == "" {
				continue
			}
			if !containsChannel(db.byName[key], ch) {
				db.byName[key] = append(db.byName[key], ch)
			}
		}
	}
}

func containsChannel(s []*Channel, ch *Channel) bool {
	for _, x := range s {
		if x == ch {
			return true
		}
	}
	return false
}

var (
	qualityMarkerRe = regexp.MustCompile(`(?i)\s*(hd|fhd|uhd|4k|sd)\s*$`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9 ]`)
	spacesRe        = regexp.MustCompile(`\s+`)
)

func normalizeName(s string) string {
	s = qualityMarkerRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}
