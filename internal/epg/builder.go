// Package epg builds the live-events programme guide: each event becomes a
// synthetic guide channel carrying an announcement window from midnight (or
// from the previous event on the same channel) up to kickoff, followed by the
// event window itself.
package epg

import (
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/schedule"
)

// Channel is a synthetic guide channel derived from an event title.
type Channel struct {
	ID   string
	Name string
}

// Programme is one guide window on a channel. Start and Stop carry the
// output offset zone.
type Programme struct {
	Channel  string
	Start    time.Time
	Stop     time.Time
	Title    string
	Desc     string
	Category string
}

// Guide is the assembled channel list plus programme timeline.
type Guide struct {
	Channels   []Channel
	Programmes []Programme
}

// Options tunes the timeline builder. Zero values fall back to the feed's
// conventions: 2h event windows, 2h freshness, feed times 2h behind local.
type Options struct {
	// Keywords select events by broadcaster name. Empty selects nothing.
	Keywords []string
	// FreshnessWindow drops events that started more than this long ago.
	FreshnessWindow time.Duration
	// EventDuration is the assumed length of the event window.
	EventDuration time.Duration
	// SourceTimeShift converts the feed's wall-clock times to local ones.
	SourceTimeShift time.Duration
	// OutputOffset is the fixed UTC offset stamped on output times.
	OutputOffset time.Duration
	// ExcludeLateNight drops events whose feed time falls in 00:00–04:00.
	// The wide keyword set pulls in foreign feeds whose overnight slots are
	// re-runs, so the wide guide skips them.
	ExcludeLateNight bool
	// Now is the clock used for freshness and date cutoffs. Nil means time.Now.
	Now func() time.Time
}

// Builder converts a schedule document into a Guide.
type Builder struct {
	opts Options
	loc  *time.Location
}

func NewBuilder(opts Options) *Builder {
	if opts.FreshnessWindow <= 0 {
		opts.FreshnessWindow = 2 * time.Hour
	}
	if opts.EventDuration <= 0 {
		opts.EventDuration = 2 * time.Hour
	}
	if opts.SourceTimeShift == 0 {
		opts.SourceTimeShift = 2 * time.Hour
	}
	if opts.OutputOffset == 0 {
		opts.OutputOffset = 2 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	offset := int(opts.OutputOffset / time.Second)
	return &Builder{
		opts: opts,
		loc:  time.FixedZone(fmt.Sprintf("UTC+%02d", offset/3600), offset),
	}
}

type dayEvents struct {
	date     time.Time
	category string
	events   []schedule.Event
}

// Build assembles the guide from doc. Days before today are skipped, the
// feed's generic "TV Shows" bucket is excluded, and one channel is emitted
// per distinct event title no matter how many broadcasters carry it.
func (b *Builder) Build(doc schedule.Document) *Guide {
	now := b.opts.Now().In(b.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.loc)

	var days []dayEvents
	for label, categories := range doc {
		date, err := schedule.ParseDateLabel(label, b.loc)
		if err != nil {
			log.WithField("component", "epg").Warnf("skipping day: %v", err)
			continue
		}
		if date.Before(today) {
			continue
		}
		for category, events := range categories {
			cat := schedule.CleanText(category)
			if strings.EqualFold(cat, "tv shows") {
				continue
			}
			days = append(days, dayEvents{date: date, category: cat, events: events})
		}
	}
	sort.Slice(days, func(i, j int) bool {
		if !days[i].date.Equal(days[j].date) {
			return days[i].date.Before(days[j].date)
		}
		return days[i].category < days[j].category
	})

	g := &Guide{}
	seen := map[string]bool{}
	lastStop := map[string]time.Time{}
	var curDate time.Time

	for _, day := range days {
		// The announcement chain restarts each day: a day's first event on
		// a channel counts down from that day's midnight, even when the
		// previous day's last window ran past it.
		if !day.date.Equal(curDate) {
			curDate = day.date
			lastStop = map[string]time.Time{}
		}
		for _, ev := range b.selectEvents(day.events) {
			hour, minute, err := schedule.ParseEventTime(ev.Time)
			if err != nil {
				log.WithField("component", "epg").Warnf("skipping event %q: %v", ev.Name, err)
				continue
			}
			start := time.Date(day.date.Year(), day.date.Month(), day.date.Day(),
				hour, minute, 0, 0, b.loc).Add(b.opts.SourceTimeShift)
			if start.Before(now.Add(-b.opts.FreshnessWindow)) {
				continue
			}

			name := schedule.CleanText(ev.Name)
			chID := schedule.ChannelID(ev.Name)
			if !seen[chID] {
				seen[chID] = true
				g.Channels = append(g.Channels, Channel{ID: chID, Name: name})
			}

			b.appendAnnouncement(g, chID, name, start, lastStop[chID])

			title := schedule.CleanText(ev.Description)
			if title == "" {
				title = "Trasmesso in diretta."
			}
			stop := start.Add(b.opts.EventDuration)
			g.Programmes = append(g.Programmes, Programme{
				Channel:  chID,
				Start:    start,
				Stop:     stop,
				Title:    title,
				Desc:     name,
				Category: day.category,
			})
			lastStop[chID] = stop
		}
	}
	return g
}

// selectEvents keeps the keyword-matched events of one category, ordered by
// the feed's wall-clock time.
func (b *Builder) selectEvents(events []schedule.Event) []schedule.Event {
	var kept []schedule.Event
	for _, ev := range events {
		if b.opts.ExcludeLateNight {
			if h, m, err := schedule.ParseEventTime(ev.Time); err == nil {
				if h < 4 || (h == 4 && m == 0) {
					continue
				}
			}
		}
		for _, ch := range ev.Channels {
			if schedule.MatchesKeywords(ch.Name, b.opts.Keywords) {
				kept = append(kept, ev)
				break
			}
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Time < kept[j].Time })
	return kept
}

// appendAnnouncement fills the gap before an event with a countdown window.
// The gap runs from midnight of the event's day, or from the stop of the
// previous event on the same channel, whichever is later. A previous stop
// past the event start means overlapping events on one channel; the
// announcement is dropped so the event windows stay intact.
func (b *Builder) appendAnnouncement(g *Guide, chID, name string, start, prevStop time.Time) {
	annStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, b.loc)
	if prevStop.After(annStart) {
		annStart = prevStop
	}
	if annStart.After(start) {
		log.WithFields(log.Fields{
			"component": "epg",
			"channel":   chID,
		}).Warnf("event starts before previous one ends, no announcement for %q", name)
		return
	}
	if annStart.Equal(start) {
		return
	}
	g.Programmes = append(g.Programmes, Programme{
		Channel:  chID,
		Start:    annStart,
		Stop:     start,
		Title:    fmt.Sprintf("Inizia alle %s.", start.Format("15:04")),
		Desc:     name + ".",
		Category: "Annuncio",
	})
}
