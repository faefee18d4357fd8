package schedule

import (
	"testing"
)

const schedulePage = `<!DOCTYPE html>
<html><body>
<div id="schedule" class="schedule">
  <div class="schedule__day">
    <div class="schedule__dayTitle">Monday 1st Jan 2024 - Schedule Time UK GMT</div>
    <div class="schedule__category">
      <div class="schedule__catHeader">Soccer</div>
      <div class="schedule__categoryBody">
        <div class="schedule__event">
          <div class="schedule__eventHeader">
            <span class="schedule__time">20:45</span>
            <span class="schedule__eventTitle">Milan - Inter</span>
          </div>
          <div class="schedule__channels">
            <a href="/watch.php?id=101">Sky Sport Calcio CH-101</a>
            <a href="/watch.php?id=102">DAZN 1</a>
            <a href="/other.php?id=999">Broken Link</a>
          </div>
        </div>
        <div class="schedule__event">
          <div class="schedule__eventHeader">
            <span class="schedule__time">18:00</span>
            <span class="schedule__eventTitle"></span>
          </div>
          <div class="schedule__channels">
            <a href="/watch.php?id=103">Rai 1</a>
          </div>
        </div>
      </div>
    </div>
    <div class="schedule__category">
      <div class="schedule__catHeader">TV Shows</div>
      <div class="schedule__categoryBody">
        <div class="schedule__event">
          <div class="schedule__eventHeader">
            <span class="schedule__time">10:00</span>
            <span class="schedule__eventTitle">Morning Show</span>
          </div>
          <div class="schedule__channels"></div>
        </div>
      </div>
    </div>
  </div>
</div>
<h2>Extra Schedule</h2>
<div class="schedule">
  <div class="schedule__day">
    <div class="schedule__dayTitle">Monday 1st Jan 2024</div>
    <div class="schedule__event">
      <div class="schedule__eventHeader">
        <span class="schedule__time">21:00</span>
        <span class="schedule__eventTitle">Tennis: ATP Finals</span>
      </div>
      <div class="schedule__channels">
        <a href="/watchs2watch.php?id=atp-1">Court One</a>
      </div>
    </div>
    <div class="schedule__event">
      <div class="schedule__eventHeader">
        <span class="schedule__time">22:00</span>
        <span class="schedule__eventTitle">UFC 300: Prelims</span>
      </div>
      <div class="schedule__channels">
        <a href="/watchs2watch.php?id=late-9">Late Channel</a>
      </div>
    </div>
  </div>
</div>
<h2>Extra SD Stream Schedule</h2>
<div class="schedule">
  <div class="schedule__day">
    <div class="schedule__dayTitle">Monday 1st Jan 2024</div>
    <div class="schedule__event">
      <div class="schedule__eventHeader">
        <span class="schedule__time">19:30</span>
        <span class="schedule__eventTitle">Basket: Virtus - Olimpia</span>
      </div>
      <div class="schedule__channels">
        <a href="/watchsd.php?id=sd-77">SD Feed CH-sd-77</a>
      </div>
    </div>
  </div>
</div>
</body></html>`

func TestParseHTMLMainSchedule(t *testing.T) {
	doc, err := ParseHTML([]byte(schedulePage))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}

	day, ok := doc["Monday 1st Jan 2024 - Schedule Time UK GMT"]
	if !ok {
		t.Fatalf("main day missing; keys = %v", keys(doc))
	}
	soccer := day["Soccer"]
	if len(soccer) != 2 {
		t.Fatalf("soccer events = %d, want 2", len(soccer))
	}
	ev := soccer[0]
	if ev.Time != "20:45" || ev.Name != "Milan - Inter" {
		t.Errorf("event = %+v", ev)
	}
	if len(ev.Channels) != 2 {
		t.Fatalf("channels = %+v, want 2 (non-watch link dropped)", ev.Channels)
	}
	if ev.Channels[0].Name != "Sky Sport Calcio" || ev.Channels[0].ID != "101" {
		t.Errorf("CH suffix not stripped: %+v", ev.Channels[0])
	}
	if soccer[1].Name != "Unknown Event" {
		t.Errorf("empty title should default, got %q", soccer[1].Name)
	}

	if len(day["TV Shows"]) != 1 {
		t.Errorf("tv shows should still be parsed (filtering happens later)")
	}
}

func TestParseHTMLExtraSections(t *testing.T) {
	doc, err := ParseHTML([]byte(schedulePage))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}

	extra, ok := doc["Monday 1st Jan 2024"]
	if !ok {
		t.Fatalf("extra day missing; keys = %v", keys(doc))
	}

	tennis := extra["Tennis"]
	if len(tennis) != 1 {
		t.Fatalf("tennis events = %+v", extra)
	}
	if tennis[0].Channels[0].ID != "atp-1" {
		t.Errorf("extra channel id = %q", tennis[0].Channels[0].ID)
	}

	// Title prefix with digits is not a category.
	if len(extra["Live Extra"]) != 1 {
		t.Errorf("catch-all bucket = %+v", extra["Live Extra"])
	}

	basket := extra["Basket"]
	if len(basket) != 1 {
		t.Fatalf("sd events = %+v", extra)
	}
	if basket[0].Channels[0].Name != "SD Feed" || basket[0].Channels[0].ID != "sd-77" {
		t.Errorf("sd channel = %+v", basket[0].Channels[0])
	}
}

func TestParseHTMLNoSchedule(t *testing.T) {
	doc, err := ParseHTML([]byte("<html><body><p>maintenance</p></body></html>"))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}
}

func keys(d Document) []string {
	var out []string
	for k := range d {
		out = append(out, k)
	}
	return out
}
