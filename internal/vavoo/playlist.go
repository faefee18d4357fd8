package vavoo

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/listatv/listatv/internal/logos"
	"github.com/listatv/listatv/internal/m3u"
)

var (
	italyWordRe   = regexp.MustCompile(`(?i)italy`)
	skyCalcioMap  = map[string]string{
		"SKY CALCIO 1": "SKY SPORT 251",
		"SKY CALCIO 2": "SKY SPORT 252",
		"SKY CALCIO 3": "SKY SPORT 253",
		"SKY CALCIO 4": "SKY SPORT 254",
		"SKY CALCIO 5": "SKY SPORT 255",
		"SKY CALCIO 6": "SKY SPORT 256",
		"SKY CALCIO 7": "DAZN 1",
	}
	categoryOrder = []string{"Rai", "Mediaset", "Sport", "Film - Serie TV", "News", "Bambini", "Documentari", "Musica", "Altro"}

	// 24/7 streams off this host need browser-shaped headers to play.
	karmakuramaOpts = []string{
		"#EXTVLCOPT:http-user-agent=Mozilla/5.0 (iPhone; CPU iPhone OS 17_7 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.0 Mobile/15E148 Safari/604.1",
		"#EXTVLCOPT:http-referrer=https://ava.karmakurama.com/",
		"#EXTVLCOPT:http-origin=https://ava.karmakurama.com",
	}
)

type playlistChannel struct {
	name  string
	url   string
	logo  string
	tvgID string
}

// BuildPlaylist renders the catalog channels, plus any 24/7 channels, as a
// categorized M3U. tvgIDs links entries to the merged guide. logoFor, when
// non-nil, resolves logos for channels the static table does not know.
func BuildPlaylist(items []Item, daddy []DaddyChannel, tvgIDs map[string]string, logoFor func(string) string) []byte {
	lookupLogo := func(name string) string {
		if logo := logos.Lookup(name); logo != "" {
			return logo
		}
		if logoFor != nil {
			return logoFor(name)
		}
		return ""
	}

	byCategory := map[string][]playlistChannel{}

	for _, it := range items {
		if it.URL == "" {
			continue
		}
		display := Rename(CleanChannelName(it.Name))
		category := Classify(display)
		byCategory[category] = append(byCategory[category], playlistChannel{
			name:  display,
			url:   it.URL,
			logo:  lookupLogo(display),
			tvgID: tvgIDs[NormalizeChannelName(display)],
		})
	}

	for _, d := range daddy {
		base := daddyBaseName(d)
		if base == "DAZN" || base == "DAZN2" {
			continue
		}
		category := Classify(base)
		byCategory[category] = append(byCategory[category], playlistChannel{
			name:  base + " (D)",
			url:   d.URL,
			logo:  lookupLogo(base),
			tvgID: tvgIDs[NormalizeChannelName(base)],
		})
	}

	w := m3u.NewWriter("")
	for _, category := range categoryOrder {
		channels := byCategory[category]
		if len(channels) == 0 {
			continue
		}
		sort.SliceStable(channels, func(i, j int) bool {
			return strings.ToLower(channels[i].name) < strings.ToLower(channels[j].name)
		})
		disambiguate(channels)

		w.Raw("\n# " + strings.ToUpper(category))
		for _, ch := range channels {
			var opts []string
			if strings.Contains(ch.url, "ava.karmakurama.com") && !strings.HasSuffix(ch.url, ".php") {
				opts = karmakuramaOpts
			}
			w.Add(m3u.Entry{
				TVGID:   ch.tvgID,
				Logo:    ch.logo,
				Group:   category,
				Name:    ch.name,
				Options: opts,
				URL:     ch.url,
			})
		}
	}
	return w.Bytes()
}

// BuildWorldPlaylist renders the full multi-country catalog grouped by the
// upstream group field. The caller filters out groups it already covers.
func BuildWorldPlaylist(items []Item) []byte {
	byGroup := map[string][]playlistChannel{}
	for _, it := range items {
		if it.URL == "" {
			continue
		}
		group := it.Group
		if group == "" {
			group = "Generale"
		}
		byGroup[group] = append(byGroup[group], playlistChannel{
			name: CleanChannelName(it.Name),
			url:  it.URL,
		})
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	w := m3u.NewWriter("")
	for _, group := range groups {
		w.Raw("\n# " + strings.ToUpper(group))
		for _, ch := range byGroup[group] {
			w.Add(m3u.Entry{Group: group, Name: ch.name, URL: ch.url})
		}
	}
	return w.Bytes()
}

// daddyBaseName reduces a 24/7 lineup name to its canonical uppercase form.
func daddyBaseName(d DaddyChannel) string {
	name := CleanChannelName(d.Name)
	name = italyWordRe.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	name = strings.ToUpper(name)

	switch d.ID {
	case "877":
		name = "DAZN"
	case "853":
		name = "CANALE 5"
	}

	stripped := strings.TrimSpace(parenNumberRe.ReplaceAllString(name, ""))
	if renamed, ok := skyCalcioMap[stripped]; ok {
		return renamed
	}
	return name
}

// disambiguate appends an index to channels sharing a name but pointing at
// different streams.
func disambiguate(channels []playlistChannel) {
	urlsByName := map[string][]string{}
	for _, ch := range channels {
		urlsByName[ch.name] = append(urlsByName[ch.name], ch.url)
	}
	for i := range channels {
		urls := urlsByName[channels[i].name]
		if len(urls) < 2 || len(uniqueStrings(urls)) < 2 {
			continue
		}
		for idx, u := range urls {
			if u == channels[i].url {
				channels[i].name = fmt.Sprintf("%s (%d)", channels[i].name, idx+1)
				break
			}
		}
	}
}

func uniqueStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
