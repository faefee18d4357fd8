package vavoo

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/fetch"
)

var hrefIDRe = regexp.MustCompile(`id=([\w-]+)`)

// DaddyChannel is one 24/7 channel scraped from the provider's lineup page.
type DaddyChannel struct {
	Name string
	ID   string
	URL  string
}

// FetchDaddyChannels scrapes the provider's 24/7 lineup and keeps the
// Italian channels, deduplicated by id.
func FetchDaddyChannels(ctx context.Context, client *http.Client, baseURL string) ([]DaddyChannel, error) {
	base := strings.TrimSuffix(baseURL, "/")
	body, err := fetch.Bytes(ctx, client, base+"/24-7-channels.php", nil)
	if err != nil {
		return nil, fmt.Errorf("24/7 lineup: %w", err)
	}
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var channels []DaddyChannel
	seen := map[string]bool{}
	page.Find("a.card").Each(func(_ int, card *goquery.Selection) {
		name := strings.TrimSpace(card.Find("div.card__title").First().Text())
		href, _ := card.Attr("href")
		m := hrefIDRe.FindStringSubmatch(href)
		if name == "" || m == nil {
			return
		}
		id := m[1]
		// The lineup mislabels this entry.
		if id == "853" {
			name = "Canale 5 Italy"
		}
		if !strings.Contains(strings.ToLower(name), "italy") {
			return
		}
		if seen[id] {
			log.WithField("component", "vavoo").Debugf("duplicate 24/7 channel id %s", id)
			return
		}
		seen[id] = true
		channels = append(channels, DaddyChannel{
			Name: name,
			ID:   id,
			URL:  fmt.Sprintf("%s/watch.php?id=%s", base, id),
		})
	})

	// DAZN is carried but never listed on the lineup page.
	if !seen["877"] {
		channels = append(channels, DaddyChannel{
			Name: "DAZN Italy (D)",
			ID:   "877",
			URL:  fmt.Sprintf("%s/watch.php?id=877", base),
		})
	}
	return channels, nil
}
