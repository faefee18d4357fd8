// Package playlist renders the output M3U playlists: the live-events list,
// the on-demand movie and series catalogs, and the final merged list.
package playlist

import (
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/m3u"
	"github.com/listatv/listatv/internal/schedule"
)

// eventsGroup is the group-title shared by every live-event entry.
const eventsGroup = "Eventi Live DLHD"

// EventsOptions tunes the live-events playlist.
type EventsOptions struct {
	// Keywords select events by broadcaster name.
	Keywords []string
	// BaseURL is the stream provider root; streams are BaseURL/watch.php?id=N.
	BaseURL string
	// FreshnessWindow drops today's events that started more than this long ago.
	FreshnessWindow time.Duration
	// SourceTimeShift converts feed wall-clock times to local display times.
	SourceTimeShift time.Duration
	// OutputOffset is the local zone's fixed UTC offset.
	OutputOffset time.Duration
	// Now is the clock, injectable for tests.
	Now func() time.Time
}

func (o *EventsOptions) defaults() {
	if o.FreshnessWindow <= 0 {
		o.FreshnessWindow = 2 * time.Hour
	}
	if o.SourceTimeShift == 0 {
		o.SourceTimeShift = 2 * time.Hour
	}
	if o.OutputOffset == 0 {
		o.OutputOffset = 2 * time.Hour
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type eventEntry struct {
	category string
	display  string
	title    string
	chID     string
}

// BuildEvents renders today's live events plus yesterday's small-hours
// leftovers as an M3U. One entry is emitted per matching broadcaster, since
// each carries its own stream id.
func BuildEvents(doc schedule.Document, opts EventsOptions) []byte {
	opts.defaults()
	loc := time.FixedZone("local", int(opts.OutputOffset/time.Second))
	now := opts.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)

	var entries []eventEntry
	for label, categories := range doc {
		date, err := schedule.ParseDateLabel(label, loc)
		if err != nil {
			log.WithField("component", "playlist").Warnf("skipping day: %v", err)
			continue
		}
		lateNightOnly := false
		switch {
		case date.Equal(today):
		case date.Equal(yesterday):
			lateNightOnly = true
		default:
			continue
		}

		for category, events := range categories {
			cat := schedule.CleanText(category)
			if strings.EqualFold(cat, "tv shows") {
				continue
			}
			for _, ev := range events {
				hour, minute, err := schedule.ParseEventTime(ev.Time)
				if err != nil {
					log.WithField("component", "playlist").Warnf("skipping event %q: %v", ev.Name, err)
					continue
				}
				start := time.Date(date.Year(), date.Month(), date.Day(),
					hour, minute, 0, 0, loc).Add(opts.SourceTimeShift)
				if lateNightOnly {
					// Keep only the events that spill past midnight.
					if hour > 4 || (hour == 4 && minute > 0) {
						continue
					}
				} else if now.Sub(start) > opts.FreshnessWindow {
					continue
				}

				title := schedule.CleanText(ev.Name)
				display := fmt.Sprintf("%s (%s)", title, start.Format("15:04"))
				for _, ch := range ev.Channels {
					if !schedule.MatchesKeywords(ch.Name, opts.Keywords) {
						continue
					}
					entries = append(entries, eventEntry{
						category: cat,
						display:  display,
						title:    title,
						chID:     ch.ID,
					})
				}
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].category != entries[j].category {
			return entries[i].category < entries[j].category
		}
		return entries[i].display < entries[j].display
	})

	w := m3u.NewWriter("")
	if len(entries) > 0 {
		// Placeholder channel marking the section in players.
		w.Add(m3u.Entry{
			TVGName: "DADDYLIVE",
			Group:   eventsGroup,
			URL:     "https://example.com.m3u8",
		})
	}
	base := strings.TrimSuffix(opts.BaseURL, "/")
	for _, e := range entries {
		name := fmt.Sprintf("%s | %s", e.category, e.display)
		w.Add(m3u.Entry{
			TVGID:   schedule.ChannelID(e.title),
			TVGName: name,
			Group:   eventsGroup,
			URL:     fmt.Sprintf("%s/watch.php?id=%s", base, e.chID),
		})
	}
	return w.Bytes()
}
