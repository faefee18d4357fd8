package vavoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildPlaylistCategorizes(t *testing.T) {
	items := []Item{
		{Name: "Rai 1 .a", URL: "http://x/rai1"},
		{Name: "Canale 5 .b", URL: "http://x/c5"},
		{Name: "Zona DAZN", URL: "http://x/dazn"},
		{Name: "No Stream"},
	}
	tvgIDs := map[string]string{"rai1": "rai1", "canale5": "canale5"}

	out := string(BuildPlaylist(items, nil, tvgIDs, nil))

	if !strings.HasPrefix(out, "#EXTM3U\n") {
		t.Errorf("missing header:\n%s", out)
	}
	for _, want := range []string{
		"# RAI",
		"# MEDIASET",
		"# SPORT",
		`tvg-id="rai1"`,
		`group-title="Rai",Rai 1`,
		`group-title="Sport",DAZN`,
		"http://x/dazn",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No Stream") {
		t.Error("entry without URL should be dropped")
	}
	// Category sections follow the fixed order.
	if strings.Index(out, "# RAI") > strings.Index(out, "# MEDIASET") {
		t.Error("categories out of order")
	}
}

func TestBuildPlaylistDaddyChannels(t *testing.T) {
	daddy := []DaddyChannel{
		{Name: "Sky Calcio 1 Italy", ID: "121", URL: "http://d/watch.php?id=121"},
		{Name: "DAZN Italy (D)", ID: "877", URL: "http://d/watch.php?id=877"},
		{Name: "Italia 1 Italy", ID: "99", URL: "https://ava.karmakurama.com/stream/99.m3u8"},
	}
	out := string(BuildPlaylist(nil, daddy, nil, nil))

	if !strings.Contains(out, "SKY SPORT 251 (D)") {
		t.Errorf("sky calcio rename missing:\n%s", out)
	}
	if strings.Contains(out, ",DAZN (D)") {
		t.Errorf("DAZN 24/7 entry should be skipped:\n%s", out)
	}
	if !strings.Contains(out, "#EXTVLCOPT:http-referrer=https://ava.karmakurama.com/") {
		t.Errorf("karmakurama headers missing:\n%s", out)
	}
}

func TestBuildPlaylistDisambiguatesDuplicates(t *testing.T) {
	items := []Item{
		{Name: "Rai Sport", URL: "http://x/a"},
		{Name: "Rai Sport", URL: "http://x/b"},
	}
	out := string(BuildPlaylist(items, nil, nil, nil))
	if !strings.Contains(out, "Rai Sport (1)") || !strings.Contains(out, "Rai Sport (2)") {
		t.Errorf("duplicates not disambiguated:\n%s", out)
	}
}

func TestFetchDaddyChannels(t *testing.T) {
	page := `<html><body>
<a class="card" href="/watch.php?id=101"><div class="card__title">Sky Sport Italy</div></a>
<a class="card" href="/watch.php?id=101"><div class="card__title">Sky Sport Italy</div></a>
<a class="card" href="/watch.php?id=500"><div class="card__title">BT Sport UK</div></a>
<a class="card" href="/watch.php?id=853"><div class="card__title">Wrong Label</div></a>
<a class="card" href="/nope"><div class="card__title">Broken Italy</div></a>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/24-7-channels.php" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	got, err := FetchDaddyChannels(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("FetchDaddyChannels: %v", err)
	}
	// 101 once, 853 relabeled to Canale 5 Italy, plus the implicit DAZN entry.
	if len(got) != 3 {
		t.Fatalf("channels = %+v", got)
	}
	byID := map[string]DaddyChannel{}
	for _, ch := range got {
		byID[ch.ID] = ch
	}
	if byID["101"].URL != srv.URL+"/watch.php?id=101" {
		t.Errorf("channel 101 = %+v", byID["101"])
	}
	if byID["853"].Name != "Canale 5 Italy" {
		t.Errorf("channel 853 = %+v", byID["853"])
	}
	if _, ok := byID["877"]; !ok {
		t.Error("DAZN fallback entry missing")
	}
	if _, ok := byID["500"]; ok {
		t.Error("non-Italian channel kept")
	}
}

func TestBuildWorldPlaylist(t *testing.T) {
	items := []Item{
		{Name: "Rai 1 .c", URL: "https://v/rai1", Group: "Italy"},
		{Name: "BBC One", URL: "https://v/bbc1", Group: "United Kingdom"},
		{Name: "Mystery", URL: "https://v/mystery"},
		{Name: "Dead", URL: "", Group: "Italy"},
	}
	out := string(BuildWorldPlaylist(items))

	for _, want := range []string{
		"# ITALY",
		"# UNITED KINGDOM",
		"# GENERALE",
		`group-title="Italy",Rai 1`,
		`group-title="United Kingdom",BBC One`,
		`group-title="Generale",Mystery`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("world playlist missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Dead") {
		t.Error("entry without URL kept")
	}
	if strings.Contains(out, "Rai 1 .c") {
		t.Error("letter suffix not cleaned")
	}
}

func TestBuildPlaylistLogoFallback(t *testing.T) {
	items := []Item{{Name: "Telelombardia", URL: "https://v/tl"}}
	logoFor := func(name string) string {
		if name == "Telelombardia" {
			return "https://logos/tl.png"
		}
		return ""
	}
	out := string(BuildPlaylist(items, nil, nil, logoFor))
	if !strings.Contains(out, `tvg-logo="https://logos/tl.png"`) {
		t.Errorf("fallback logo missing:\n%s", out)
	}
}
