// Package vixsrc resolves on-demand stream URLs from the vixsrc embed
// service: a catalog API lists the available TMDB ids, and per-title embed
// pages carry the tokenized playlist URL inside an inline script.
package vixsrc

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/listatv/listatv/internal/fetch"
	"github.com/listatv/listatv/internal/httpclient"
)

var (
	tokenRe   = regexp.MustCompile(`'token':\s*'(\w+)'`)
	expiresRe = regexp.MustCompile(`'expires':\s*'(\d+)'`)
	urlRe     = regexp.MustCompile(`url:\s*'([^']+)'`)
	fhdRe     = regexp.MustCompile(`window\.canPlayFHD\s*=\s*true`)
)

// Client fetches catalog listings and resolves playlist URLs.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// Concurrency bounds the resolver fan-out. Zero means 100.
	Concurrency int
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: httpclient.Default(),
	}
}

type movieListItem struct {
	TMDBID int `json:"tmdb_id"`
}

type episodeListItem struct {
	TMDBID  int `json:"tmdb_id"`
	Season  int `json:"s"`
	Episode int `json:"e"`
}

// EpisodeKey identifies one episode in the availability set.
type EpisodeKey struct {
	TMDBID  int
	Season  int
	Episode int
}

// AvailableMovies returns the set of TMDB movie ids the service carries.
func (c *Client) AvailableMovies(ctx context.Context) (map[int]bool, error) {
	var items []movieListItem
	err := fetch.JSON(ctx, c.HTTPClient, c.BaseURL+"/api/list/movie?lang=it", nil, &items)
	if err != nil {
		return nil, fmt.Errorf("movie list: %w", err)
	}
	out := make(map[int]bool, len(items))
	for _, it := range items {
		out[it.TMDBID] = true
	}
	return out, nil
}

// AvailableEpisodes returns the set of episodes the service carries.
func (c *Client) AvailableEpisodes(ctx context.Context) (map[EpisodeKey]bool, error) {
	var items []episodeListItem
	err := fetch.JSON(ctx, c.HTTPClient, c.BaseURL+"/api/list/episode?lang=it", nil, &items)
	if err != nil {
		return nil, fmt.Errorf("episode list: %w", err)
	}
	out := make(map[EpisodeKey]bool, len(items))
	for _, it := range items {
		out[EpisodeKey{TMDBID: it.TMDBID, Season: it.Season, Episode: it.Episode}] = true
	}
	return out, nil
}

// MovieStream resolves the playlist URL for a movie.
func (c *Client) MovieStream(ctx context.Context, tmdbID int) (string, error) {
	return c.resolve(ctx, fmt.Sprintf("%s/movie/%d/?lang=it", c.BaseURL, tmdbID))
}

// EpisodeStream resolves the playlist URL for one episode.
func (c *Client) EpisodeStream(ctx context.Context, tmdbID, season, episode int) (string, error) {
	return c.resolve(ctx, fmt.Sprintf("%s/tv/%d/%d/%d/?lang=it", c.BaseURL, tmdbID, season, episode))
}

// resolve fetches an embed page and extracts the tokenized playlist URL.
// Pages that wrap the player in an iframe are followed one level down.
func (c *Client) resolve(ctx context.Context, pageURL string) (string, error) {
	body, err := fetch.Bytes(ctx, c.HTTPClient, pageURL, nil)
	if err != nil {
		return "", err
	}
	if !tokenRe.Match(body) {
		src := iframeSrc(body)
		if src == "" {
			return "", fmt.Errorf("resolve %s: no player script or iframe", pageURL)
		}
		if strings.HasPrefix(src, "/") {
			src = c.BaseURL + src
		}
		body, err = fetch.Bytes(ctx, c.HTTPClient, src, nil)
		if err != nil {
			return "", err
		}
	}
	return buildStreamURL(body, pageURL)
}

func buildStreamURL(body []byte, pageURL string) (string, error) {
	token := tokenRe.FindSubmatch(body)
	expires := expiresRe.FindSubmatch(body)
	rawURL := urlRe.FindSubmatch(body)
	if token == nil || expires == nil || rawURL == nil {
		return "", fmt.Errorf("resolve %s: player parameters not found", pageURL)
	}
	u := string(rawURL[1])
	sep := "?"
	if strings.Contains(u, "?b=1") {
		sep = "&"
	}
	out := fmt.Sprintf("%s%stoken=%s&expires=%s", u, sep, token[1], expires[1])
	if fhdRe.Match(body) {
		out += "&h=1"
	}
	return out, nil
}

// iframeSrc returns the src of the first iframe in the document.
func iframeSrc(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var walk func(*html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "iframe" {
			for _, a := range n.Attr {
				if a.Key == "src" {
					return a.Val
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if src := walk(child); src != "" {
				return src
			}
		}
		return ""
	}
	return walk(doc)
}

// ResolveMovies resolves many movies with a bounded fan-out. Failures are
// logged and dropped; the returned map only carries successful lookups.
func (c *Client) ResolveMovies(ctx context.Context, ids []int) map[int]string {
	limit := c.Concurrency
	if limit <= 0 {
		limit = 100
	}
	sem := make(chan struct{}, limit)
	var (
		mu  sync.Mutex
		out = make(map[int]string, len(ids))
		wg  sync.WaitGroup
	)
	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(id int) {
			defer wg.Done()
			defer func() { <-sem }()
			u, err := c.MovieStream(ctx, id)
			if err != nil {
				log.WithField("component", "vixsrc").Warnf("movie %d: %v", id, err)
				return
			}
			mu.Lock()
			out[id] = u
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return out
}

// ResolveEpisodes resolves many episodes with a bounded fan-out.
func (c *Client) ResolveEpisodes(ctx context.Context, keys []EpisodeKey) map[EpisodeKey]string {
	limit := c.Concurrency
	if limit <= 0 {
		limit = 100
	}
	sem := make(chan struct{}, limit)
	var (
		mu  sync.Mutex
		out = make(map[EpisodeKey]string, len(keys))
		wg  sync.WaitGroup
	)
	for _, k := range keys {
		wg.Add(1)
		sem <- struct{}{}
		go func(k EpisodeKey) {
			defer wg.Done()
			defer func() { <-sem }()
			u, err := c.EpisodeStream(ctx, k.TMDBID, k.Season, k.Episode)
			if err != nil {
				log.WithField("component", "vixsrc").Warnf("episode %d S%02dE%02d: %v", k.TMDBID, k.Season, k.Episode, err)
				return
			}
			mu.Lock()
			out[k] = u
			mu.Unlock()
		}(k)
	}
	wg.Wait()
	return out
}
