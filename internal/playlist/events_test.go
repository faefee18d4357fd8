package playlist

import (
	"strings"
	"testing"
	"time"

	"github.com/listatv/listatv/internal/schedule"
)

var eventsLoc = time.FixedZone("UTC+02", 2*60*60)

func eventsOptions(now time.Time) EventsOptions {
	return EventsOptions{
		Keywords: []string{"italy", "rai", "italia", "it"},
		BaseURL:  "https://stream.example",
		Now:      func() time.Time { return now },
	}
}

func TestBuildEventsToday(t *testing.T) {
	now := time.Date(2024, 1, 1, 22, 30, 0, 0, eventsLoc)
	doc := schedule.Document{
		"Monday 1st Jan 2024": {
			"Soccer": {
				{Time: "20:00", Name: "Milan - Inter", Channels: []schedule.Channel{
					{Name: "Sky Sport Italy", ID: "101"},
					{Name: "ESPN Deportes", ID: "999"},
				}},
				{Time: "10:00", Name: "Morning Game", Channels: []schedule.Channel{
					{Name: "Rai 2", ID: "2"},
				}},
			},
		},
	}
	out := string(BuildEvents(doc, eventsOptions(now)))

	if !strings.Contains(out, `tvg-name="DADDYLIVE"`) {
		t.Errorf("placeholder missing:\n%s", out)
	}
	// Feed 20:00 displays as 22:00 local.
	if !strings.Contains(out, `tvg-name="Soccer | Milan - Inter (22:00)"`) {
		t.Errorf("event entry missing:\n%s", out)
	}
	if !strings.Contains(out, `tvg-id="milaninter"`) {
		t.Errorf("tvg-id missing:\n%s", out)
	}
	if !strings.Contains(out, "https://stream.example/watch.php?id=101") {
		t.Errorf("stream url missing:\n%s", out)
	}
	if strings.Contains(out, "id=999") {
		t.Error("non-matching broadcaster kept")
	}
	// Feed 10:00 starts 12:00 local, stale by 22:30.
	if strings.Contains(out, "Morning Game") {
		t.Error("stale event kept")
	}
}

func TestBuildEventsYesterdayLateNight(t *testing.T) {
	now := time.Date(2024, 1, 2, 1, 0, 0, 0, eventsLoc)
	doc := schedule.Document{
		"Monday 1st Jan 2024": {
			"Tennis": {
				{Time: "02:00", Name: "Night Match", Channels: []schedule.Channel{{Name: "Rai 2", ID: "7"}}},
				{Time: "18:00", Name: "Evening Match", Channels: []schedule.Channel{{Name: "Rai 2", ID: "8"}}},
			},
		},
	}
	out := string(BuildEvents(doc, eventsOptions(now)))

	if !strings.Contains(out, "Night Match") {
		t.Errorf("late-night leftover missing:\n%s", out)
	}
	if strings.Contains(out, "Evening Match") {
		t.Error("yesterday evening event should be dropped")
	}
}

func TestBuildEventsEmpty(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, eventsLoc)
	doc := schedule.Document{
		"Monday 1st Jan 2024": {
			"TV Shows": {
				{Time: "14:00", Name: "Quiz", Channels: []schedule.Channel{{Name: "Rai 1", ID: "1"}}},
			},
		},
	}
	out := string(BuildEvents(doc, eventsOptions(now)))
	if strings.Contains(out, "DADDYLIVE") {
		t.Errorf("placeholder emitted with no events:\n%s", out)
	}
	if out != "#EXTM3U\n" {
		t.Errorf("out = %q", out)
	}
}
