package playlist

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/m3u"
	"github.com/listatv/listatv/internal/tmdb"
	"github.com/listatv/listatv/internal/vixsrc"
)

// SeriesCatalog is the metadata side of the series playlist build.
type SeriesCatalog interface {
	TVDetails(ctx context.Context, id int) (*tmdb.TVDetails, error)
}

// EpisodeResolver is the stream side of the series playlist build.
type EpisodeResolver interface {
	AvailableEpisodes(ctx context.Context) (map[vixsrc.EpisodeKey]bool, error)
	ResolveEpisodes(ctx context.Context, keys []vixsrc.EpisodeKey) map[vixsrc.EpisodeKey]string
}

// BuildSeries assembles the on-demand series playlist: every carried episode,
// grouped by series with the newest shows first and episodes in airing order.
func BuildSeries(ctx context.Context, catalog SeriesCatalog, resolver EpisodeResolver) ([]byte, error) {
	available, err := resolver.AvailableEpisodes(ctx)
	if err != nil {
		return nil, err
	}

	bySeries := map[int][]vixsrc.EpisodeKey{}
	for key := range available {
		bySeries[key.TMDBID] = append(bySeries[key.TMDBID], key)
	}

	seriesIDs := make([]int, 0, len(bySeries))
	for id := range bySeries {
		seriesIDs = append(seriesIDs, id)
	}
	sort.Ints(seriesIDs)

	var shows []*tmdb.TVDetails
	for _, id := range seriesIDs {
		d, err := catalog.TVDetails(ctx, id)
		if err != nil {
			log.WithField("component", "playlist").Warnf("series %d: %v", id, err)
			continue
		}
		shows = append(shows, d)
	}
	sort.SliceStable(shows, func(i, j int) bool {
		return airYear(shows[i]) > airYear(shows[j])
	})

	var allKeys []vixsrc.EpisodeKey
	for _, show := range shows {
		allKeys = append(allKeys, bySeries[show.ID]...)
	}
	streams := resolver.ResolveEpisodes(ctx, allKeys)

	w := m3u.NewWriter("")
	w.Raw(fmt.Sprintf("#PLAYLIST: Serie TV VixSrc (%d episodi)", len(available)))

	for _, show := range shows {
		keys := bySeries[show.ID]
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Season != keys[j].Season {
				return keys[i].Season < keys[j].Season
			}
			return keys[i].Episode < keys[j].Episode
		})
		stars := starBar(show.VoteAverage)
		logo := tmdb.PosterURL(show.PosterPath)
		for _, key := range keys {
			url, ok := streams[key]
			if !ok {
				continue
			}
			w.Add(m3u.Entry{
				Type:  "series",
				Logo:  logo,
				Group: "SerieTV - VixSrc",
				Name:  fmt.Sprintf("%s S%02d E%02d %s", show.Name, key.Season, key.Episode, stars),
				URL:   url,
			})
		}
	}
	return w.Bytes(), nil
}

func airYear(d *tmdb.TVDetails) int {
	if len(d.FirstAirDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(d.FirstAirDate[:4])
	if err != nil {
		return 0
	}
	return year
}
