package playlist

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/m3u"
)

// MergeOptions assembles the final combined playlist.
type MergeOptions struct {
	// EPGURL is advertised in the header's url-tvg attribute.
	EPGURL string
	// Italian playlists are pooled and sorted by display name.
	Italian [][]byte
	// Others are appended after the Italian block, in order, unchanged.
	Others [][]byte
}

// Merge builds the combined playlist. Italian sources are interleaved and
// sorted case-insensitively by channel name; everything else keeps its
// original order and directives.
func Merge(opts MergeOptions) []byte {
	var italian []m3u.Block
	for _, data := range opts.Italian {
		_, blocks, err := m3u.ParseBlocks(data)
		if err != nil {
			log.WithField("component", "playlist").Warnf("italian source: %v", err)
			continue
		}
		italian = append(italian, blocks...)
	}
	sort.SliceStable(italian, func(i, j int) bool {
		return strings.ToLower(italian[i].DisplayName()) < strings.ToLower(italian[j].DisplayName())
	})

	w := m3u.NewWriter(opts.EPGURL)
	for _, b := range italian {
		w.Raw(b.Render())
	}
	for _, data := range opts.Others {
		_, blocks, err := m3u.ParseBlocks(data)
		if err != nil {
			log.WithField("component", "playlist").Warnf("merge source: %v", err)
			continue
		}
		for _, b := range blocks {
			w.Raw(b.Render())
		}
	}
	return w.Bytes()
}

// ExcludeGroup drops every entry carrying the given group-title. The world
// list reuses the global playlist minus its Italian section.
func ExcludeGroup(data []byte, group string) []byte {
	_, blocks, err := m3u.ParseBlocks(data)
	if err != nil {
		log.WithField("component", "playlist").Warnf("exclude group: %v", err)
		return data
	}
	w := m3u.NewWriter("")
	for _, b := range blocks {
		if b.Group() == group {
			continue
		}
		w.Raw(b.Render())
	}
	// Strip the writer's own header; callers feed this into Merge.
	out := w.Bytes()
	return []byte(strings.TrimPrefix(string(out), "#EXTM3U\n"))
}
