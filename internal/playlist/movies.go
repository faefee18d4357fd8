package playlist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/m3u"
	"github.com/listatv/listatv/internal/tmdb"
)

// sectionLimit caps the three chart sections; genre sections take every
// available title.
const sectionLimit = 50

// MovieCatalog is the metadata side of the movie playlist build.
type MovieCatalog interface {
	MovieGenres(ctx context.Context) ([]tmdb.Genre, error)
	PopularMovies(ctx context.Context, pages int) ([]tmdb.Movie, error)
	NowPlaying(ctx context.Context, pages int) ([]tmdb.Movie, error)
	TopRated(ctx context.Context, pages int) ([]tmdb.Movie, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// MovieResolver is the stream side of the movie playlist build.
type MovieResolver interface {
	AvailableMovies(ctx context.Context) (map[int]bool, error)
	ResolveMovies(ctx context.Context, ids []int) map[int]string
}

// BuildMovies assembles the on-demand movie playlist: chart sections for
// what's in theaters, popular, and top rated, then one section per genre.
// Only titles the resolver actually carries are listed.
func BuildMovies(ctx context.Context, catalog MovieCatalog, resolver MovieResolver) ([]byte, error) {
	genres, err := catalog.MovieGenres(ctx)
	if err != nil {
		return nil, err
	}
	available, err := resolver.AvailableMovies(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(available))
	for id := range available {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var details []*tmdb.MovieDetails
	for _, id := range ids {
		d, err := catalog.MovieDetails(ctx, id)
		if err != nil {
			log.WithField("component", "playlist").Warnf("movie %d: %v", id, err)
			continue
		}
		details = append(details, d)
	}

	streams := resolver.ResolveMovies(ctx, idsOf(details))

	cinema, err := chartIDs(catalog.NowPlaying, ctx, 2)
	if err != nil {
		return nil, err
	}
	popular, err := chartIDs(catalog.PopularMovies, ctx, 3)
	if err != nil {
		return nil, err
	}
	topRated, err := chartIDs(catalog.TopRated, ctx, 2)
	if err != nil {
		return nil, err
	}

	genreNames := map[int]string{}
	for _, g := range genres {
		genreNames[g.ID] = g.Name
	}
	byGenre := map[string][]*tmdb.MovieDetails{}
	for _, d := range details {
		for _, g := range d.Genres {
			name := genreNames[g.ID]
			if name == "" {
				name = g.Name
			}
			if name != "" {
				byGenre[name] = append(byGenre[name], d)
			}
		}
	}

	w := m3u.NewWriter("")
	total := len(details)
	w.Raw(fmt.Sprintf("#PLAYLIST:Film VixSrc (%d Film)", total))

	writeMovieSection(w, "Al Cinema", pick(details, cinema, sectionLimit), streams)
	writeMovieSection(w, "Popolari", pick(details, popular, sectionLimit), streams)
	writeMovieSection(w, "Più Votati", pick(details, topRated, sectionLimit), streams)

	names := make([]string, 0, len(byGenre))
	for name := range byGenre {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		movies := byGenre[name]
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].ReleaseDate > movies[j].ReleaseDate
		})
		writeMovieSection(w, name, movies, streams)
	}
	return w.Bytes(), nil
}

func writeMovieSection(w *m3u.Writer, section string, movies []*tmdb.MovieDetails, streams map[int]string) {
	if len(movies) == 0 {
		return
	}
	w.Raw("\n# " + section)
	for _, d := range movies {
		url, ok := streams[d.ID]
		if !ok {
			continue
		}
		year := ""
		if len(d.ReleaseDate) >= 4 {
			year = d.ReleaseDate[:4]
		}
		w.Add(m3u.Entry{
			Type:  "movie",
			Logo:  tmdb.PosterURL(d.PosterPath),
			Group: "Film - " + section,
			Name:  fmt.Sprintf("%s (%s) %s", d.Title, year, starBar(d.VoteAverage)),
			URL:   url,
		})
	}
}

func chartIDs(fn func(context.Context, int) ([]tmdb.Movie, error), ctx context.Context, pages int) (map[int]bool, error) {
	movies, err := fn(ctx, pages)
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(movies))
	for _, m := range movies {
		out[m.ID] = true
	}
	return out, nil
}

func pick(details []*tmdb.MovieDetails, ids map[int]bool, limit int) []*tmdb.MovieDetails {
	var out []*tmdb.MovieDetails
	for _, d := range details {
		if ids[d.ID] {
			out = append(out, d)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func idsOf(details []*tmdb.MovieDetails) []int {
	out := make([]int, len(details))
	for i, d := range details {
		out[i] = d.ID
	}
	return out
}

// starBar renders a 0–10 vote as five star slots.
func starBar(vote float64) string {
	if vote <= 0 {
		return "☆☆☆☆☆"
	}
	full := int(vote / 2)
	if full > 5 {
		full = 5
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}
