// Package tmdb is a client for The Movie Database API, scoped to the
// catalog endpoints the playlist builder needs.
package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/listatv/listatv/internal/fetch"
	"github.com/listatv/listatv/internal/httpclient"
	"github.com/listatv/listatv/internal/store"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBaseURL  = "https://image.tmdb.org/t/p/w500"

	// detailsTTL bounds how long cached movie/series details are reused.
	detailsTTL = 7 * 24 * time.Hour
)

// Client talks to the TMDB v3 API. Requests are rate limited client-side to
// stay under the API's burst ceiling.
type Client struct {
	APIKey     string
	Language   string
	BaseURL    string
	HTTPClient *http.Client
	// Cache, when set, backs MovieDetails and TVDetails lookups.
	Cache *store.Store

	limiter *rate.Limiter
}

// NewClient builds a client for apiKey. language selects the localized
// metadata, e.g. "it-IT".
func NewClient(apiKey, language string) *Client {
	return &Client{
		APIKey:     apiKey,
		Language:   language,
		BaseURL:    defaultBaseURL,
		HTTPClient: httpclient.Default(),
		limiter:    rate.NewLimiter(rate.Limit(35), 35),
	}
}

// Genre is one TMDB genre list entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is one movie list result.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
}

// MovieDetails is the full movie record.
type MovieDetails struct {
	Movie
	Genres  []Genre `json:"genres"`
	Runtime int     `json:"runtime"`
}

// TVShow is one series list result.
type TVShow struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

// TVDetails is the full series record.
type TVDetails struct {
	TVShow
	Genres          []Genre `json:"genres"`
	NumberOfSeasons int     `json:"number_of_seasons"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

type movieList struct {
	Page    int     `json:"page"`
	Results []Movie `json:"results"`
}

type tvList struct {
	Page    int      `json:"page"`
	Results []TVShow `json:"results"`
}

// MovieGenres fetches the localized movie genre list.
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	var out genreList
	if err := c.get(ctx, "/genre/movie/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// TVGenres fetches the localized series genre list.
func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	var out genreList
	if err := c.get(ctx, "/genre/tv/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// PopularMovies fetches the first pages of the popular movie chart.
func (c *Client) PopularMovies(ctx context.Context, pages int) ([]Movie, error) {
	return c.movieChart(ctx, "/movie/popular", pages)
}

// NowPlaying fetches the first pages of the movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context, pages int) ([]Movie, error) {
	return c.movieChart(ctx, "/movie/now_playing", pages)
}

// TopRated fetches the first pages of the top rated movie chart.
func (c *Client) TopRated(ctx context.Context, pages int) ([]Movie, error) {
	return c.movieChart(ctx, "/movie/top_rated", pages)
}

// PopularTV fetches the first pages of the popular series chart.
func (c *Client) PopularTV(ctx context.Context, pages int) ([]TVShow, error) {
	var all []TVShow
	for page := 1; page <= pages; page++ {
		var out tvList
		err := c.get(ctx, "/tv/popular", url.Values{"page": {fmt.Sprint(page)}}, &out)
		if err != nil {
			return nil, err
		}
		all = append(all, out.Results...)
	}
	return all, nil
}

func (c *Client) movieChart(ctx context.Context, path string, pages int) ([]Movie, error) {
	var all []Movie
	for page := 1; page <= pages; page++ {
		var out movieList
		err := c.get(ctx, path, url.Values{"page": {fmt.Sprint(page)}}, &out)
		if err != nil {
			return nil, err
		}
		all = append(all, out.Results...)
	}
	return all, nil
}

// MovieDetails fetches one movie record, through the cache when one is set.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	var out MovieDetails
	key := fmt.Sprint(id)
	if c.Cache != nil {
		if ok, err := c.Cache.Get("movies", key, detailsTTL, &out); err == nil && ok {
			return &out, nil
		}
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	if c.Cache != nil {
		if err := c.Cache.Put("movies", key, &out); err != nil {
			return &out, nil // cache write failures never fail the lookup
		}
	}
	return &out, nil
}

// TVDetails fetches one series record, through the cache when one is set.
func (c *Client) TVDetails(ctx context.Context, id int) (*TVDetails, error) {
	var out TVDetails
	key := fmt.Sprint(id)
	if c.Cache != nil {
		if ok, err := c.Cache.Get("series", key, detailsTTL, &out); err == nil && ok {
			return &out, nil
		}
	}
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &out); err != nil {
		return nil, err
	}
	if c.Cache != nil {
		if err := c.Cache.Put("series", key, &out); err != nil {
			return &out, nil
		}
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)
	params.Set("language", c.Language)
	u := strings.TrimSuffix(c.BaseURL, "/") + path + "?" + params.Encode()
	if err := fetch.JSON(ctx, c.HTTPClient, u, nil, v); err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	return nil
}

// PosterURL resolves a poster path to the w500 render, or "" when absent.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return posterBaseURL + path
}
