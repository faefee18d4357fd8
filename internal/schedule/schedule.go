// Package schedule models the event schedule feed: a document keyed by
// date label, mapping category names to lists of timed events, each carrying
// the channels that broadcast it.
package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Channel is one broadcaster of an event.
type Channel struct {
	Name string `json:"channel_name"`
	ID   string `json:"channel_id"`
}

// Event is a single schedule entry. Time is the feed's wall-clock "HH:MM".
type Event struct {
	Time        string    `json:"time"`
	Name        string    `json:"event"`
	Description string    `json:"description,omitempty"`
	Channels    []Channel `json:"channels"`
}

// Document is the full schedule: date label → category → events.
// Date labels look like "Monday 1st Jan 2024" and may carry a " - " suffix.
type Document map[string]map[string][]Event

var (
	spanTagRe  = regexp.MustCompile(`</?span.*?>`)
	nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
	wordRe     = regexp.MustCompile(`\b\w+\b`)
)

// CleanText strips stray span tags the feed embeds in category and channel names.
func CleanText(s string) string {
	return strings.TrimSpace(spanTagRe.ReplaceAllString(s, ""))
}

// ChannelID derives the synthetic guide channel id from an event title:
// "&" spelled out, then alphanumerics only, lowercased. Never empty.
func ChannelID(title string) string {
	s := strings.ReplaceAll(CleanText(title), "&", "and")
	id := nonAlnumRe.ReplaceAllString(s, "")
	id = strings.ToLower(id)
	if id == "" {
		return "unknownchannel"
	}
	return id
}

// MatchesKeywords reports whether any whole word of name matches a keyword.
// Multi-word keywords match when all their words appear in name.
func MatchesKeywords(name string, keywords []string) bool {
	words := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(CleanText(name)), -1) {
		words[w] = true
	}
	for _, kw := range keywords {
		parts := strings.Fields(strings.ToLower(kw))
		if len(parts) == 0 {
			continue
		}
		all := true
		for _, p := range parts {
			if !words[p] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// Load reads a schedule JSON document from path. A missing file yields an
// empty document; malformed JSON is an error.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("component", "schedule").Warnf("schedule file not found: %s", path)
			return Document{}, nil
		}
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document as indented JSON.
func Save(doc Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
