package schedule

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

var (
	watchHrefRe      = regexp.MustCompile(`/watch\.php\?id=\d+`)
	watchExtraHrefRe = regexp.MustCompile(`/watchs2watch\.php\?id=`)
	watchBackupRe    = regexp.MustCompile(`/watchextra\.php\?id=`)
	watchSDRe        = regexp.MustCompile(`/watchsd\.php\?id=`)
	numericIDRe      = regexp.MustCompile(`id=(\d+)`)
	chSuffixRe       = regexp.MustCompile(`\s*CH-[\w-]+$`)
)

// Scrape fetches the provider's landing page and converts the rendered
// schedule into a Document. The page inlines the full schedule, so a plain
// GET of the HTML is enough.
func Scrape(ctx context.Context, client *http.Client, baseURL string) (Document, error) {
	body, err := fetch.Bytes(ctx, client, strings.TrimSuffix(baseURL, "/")+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("schedule page: %w", err)
	}
	return ParseHTML(body)
}

// ParseHTML converts the schedule page HTML into a Document: the main
// schedule container plus the three "Extra" sections, which use different
// watch-link shapes.
func ParseHTML(html []byte) (Document, error) {
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	doc := Document{}

	main := page.Find("div#schedule")
	if main.Length() == 0 {
		log.WithField("component", "schedule").Warn("schedule container not found in page")
	}
	main.Find("div.schedule__day").Each(func(_ int, day *goquery.Selection) {
		parseDay(day, doc, watchHrefRe, true)
	})

	parseExtraSection(page, doc, "Extra Schedule", watchExtraHrefRe, false)
	parseExtraSection(page, doc, "Extra Schedule Backup", watchBackupRe, true)
	parseExtraSection(page, doc, "Extra SD Stream Schedule", watchSDRe, false)

	return doc, nil
}

func parseDay(day *goquery.Selection, doc Document, hrefRe *regexp.Regexp, numericID bool) {
	dateLabel := strings.TrimSpace(day.Find("div.schedule__dayTitle").First().Text())
	if dateLabel == "" {
		return
	}
	if doc[dateLabel] == nil {
		doc[dateLabel] = map[string][]Event{}
	}
	day.Find("div.schedule__category").Each(func(_ int, cat *goquery.Selection) {
		category := strings.TrimSpace(cat.Find("div.schedule__catHeader").First().Text())
		if category == "" {
			return
		}
		body := cat.Find("div.schedule__categoryBody").First()
		body.Find("div.schedule__event").Each(func(_ int, ev *goquery.Selection) {
			event, ok := parseEvent(ev, hrefRe, numericID)
			if !ok {
				return
			}
			doc[dateLabel][category] = append(doc[dateLabel][category], event)
		})
	})
}

// parseExtraSection handles the flat "Extra" schedules that follow an <h2>
// heading. Events there carry no category container; when the title looks
// like "Category: Event" the prefix is promoted to the category.
func parseExtraSection(page *goquery.Document, doc Document, heading string, hrefRe *regexp.Regexp, categorized bool) {
	var section *goquery.Selection
	page.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(h.Text(), heading) {
			section = h.NextFiltered("div.schedule")
			return false
		}
		return true
	})
	if section == nil || section.Length() == 0 {
		return
	}
	section.Find("div.schedule__day").Each(func(_ int, day *goquery.Selection) {
		if categorized {
			parseDay(day, doc, hrefRe, true)
			return
		}
		dateLabel := strings.TrimSpace(day.Find("div.schedule__dayTitle").First().Text())
		if dateLabel == "" {
			return
		}
		if doc[dateLabel] == nil {
			doc[dateLabel] = map[string][]Event{}
		}
		day.Find("div.schedule__event").Each(func(_ int, ev *goquery.Selection) {
			event, ok := parseEvent(ev, hrefRe, false)
			if !ok || len(event.Channels) == 0 {
				return
			}
			category := extraCategory(event.Name)
			doc[dateLabel][category] = append(doc[dateLabel][category], event)
		})
	})
}

func parseEvent(ev *goquery.Selection, hrefRe *regexp.Regexp, numericID bool) (Event, bool) {
	header := ev.Find("div.schedule__eventHeader").First()
	if header.Length() == 0 {
		return Event{}, false
	}
	event := Event{
		Time: strings.TrimSpace(header.Find("span.schedule__time").First().Text()),
		Name: strings.TrimSpace(header.Find("span.schedule__eventTitle").First().Text()),
	}
	if event.Name == "" {
		event.Name = "Unknown Event"
	}
	ev.Find("div.schedule__channels a").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !hrefRe.MatchString(href) {
			return
		}
		var id string
		if numericID {
			m := numericIDRe.FindStringSubmatch(href)
			if m == nil {
				return
			}
			id = m[1]
		} else {
			if i := strings.LastIndex(href, "id="); i >= 0 {
				id = href[i+len("id="):]
			}
			if id == "" {
				return
			}
		}
		name := chSuffixRe.ReplaceAllString(strings.TrimSpace(link.Text()), "")
		event.Channels = append(event.Channels, Channel{Name: strings.TrimSpace(name), ID: id})
	})
	return event, true
}

// extraCategory guesses a category from a "Category: Event" title. Short,
// digit-free prefixes are treated as categories; everything else falls into
// the catch-all bucket.
func extraCategory(title string) string {
	if i := strings.Index(title, ":"); i > 0 {
		prefix := strings.TrimSpace(title[:i])
		if len(strings.Fields(prefix)) < 4 && !strings.ContainsAny(prefix, "0123456789") {
			return prefix
		}
	}
	return "Live Extra"
}
