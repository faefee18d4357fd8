// Command listatv runs the playlist/EPG pipeline once and exits.
//
// Stages, driven by config: scrape the event schedule, build the live-event
// guide and playlist, merge upstream EPG sources into epg.xml(.gz), pull the
// vavoo channel catalog (plus the 24/7 lineup), generate the movie and series
// playlists, and assemble the final lista.m3u. A failed stage is logged and
// the run continues; the exit code reports whether everything succeeded.
package main

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/config"
	"github.com/listatv/listatv/internal/epg"
	"github.com/listatv/listatv/internal/epgmerge"
	"github.com/listatv/listatv/internal/fetch"
	"github.com/listatv/listatv/internal/httpclient"
	"github.com/listatv/listatv/internal/iptvorg"
	"github.com/listatv/listatv/internal/metrics"
	"github.com/listatv/listatv/internal/playlist"
	"github.com/listatv/listatv/internal/schedule"
	"github.com/listatv/listatv/internal/store"
	"github.com/listatv/listatv/internal/tmdb"
	"github.com/listatv/listatv/internal/vavoo"
	"github.com/listatv/listatv/internal/vixsrc"
)

const (
	scheduleFile    = "daddyliveSchedule.json"
	eventsGuideFile = "eventi_dlhd.xml"
	eventsListFile  = "eventi_dlhd.m3u"
	mergedGuideFile = "epg.xml"
	vavooListFile   = "vavoo.m3u"
	worldListFile   = "world.m3u"
	moviesListFile  = "film.m3u"
	seriesListFile  = "serie.m3u"
	finalListFile   = "lista.m3u"

	cachePruneAge = 30 * 24 * time.Hour
)

func main() {
	_ = godotenv.Load()

	outDir := flag.String("out", "", "Output directory (default: LISTATV_OUT or .)")
	metricsFile := flag.String("metrics", "", "Prometheus textfile path (default: LISTATV_METRICS_FILE)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.Load()
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if *metricsFile != "" {
		cfg.MetricsFile = *metricsFile
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Fatalf("create output dir %s: %v", cfg.OutDir, err)
	}
	httpclient.GlobalHostSem.SetLimit(cfg.HostConcurrency)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var run *metrics.Run
	if cfg.MetricsFile != "" {
		run = metrics.NewRun()
	}

	p := &pipeline{
		cfg:    cfg,
		client: httpclient.WithTimeout(cfg.HTTPTimeout),
		run:    run,
		log:    log.WithField("component", "pipeline"),
	}
	start := time.Now()
	ok := p.execute(ctx)
	run.Finish(ok)
	if err := run.WriteFile(cfg.MetricsFile); err != nil {
		log.Warnf("write metrics: %v", err)
	}
	p.log.Infof("run finished in %s (success=%v)", time.Since(start).Round(time.Second), ok)
	if !ok {
		os.Exit(1)
	}
}

type pipeline struct {
	cfg    *config.Config
	client *http.Client
	run    *metrics.Run
	log    *log.Entry
}

// execute walks the stages in dependency order. Each stage is timed and its
// failure recorded; downstream stages run with whatever the earlier ones
// produced so a single dead source never blanks the whole lineup.
func (p *pipeline) execute(ctx context.Context) bool {
	ok := true
	stage := func(name string, fn func() error) {
		p.log.Infof("stage %s", name)
		if err := p.run.Stage(name, fn); err != nil {
			p.log.WithField("stage", name).Errorf("%v", err)
			ok = false
		}
	}

	var (
		doc        schedule.Document
		eventGuide []byte
		eventsList []byte
		vavooList  []byte
		worldList  []byte
		plutoList  []byte
	)

	if p.cfg.EventChannels {
		stage("schedule", func() error {
			var err error
			doc, err = p.fetchSchedule(ctx)
			return err
		})
		stage("events-guide", func() error {
			var err error
			eventGuide, err = p.buildEventGuide(doc)
			return err
		})
		stage("events-list", func() error {
			eventsList = playlist.BuildEvents(doc, playlist.EventsOptions{
				Keywords:        p.cfg.Keywords,
				BaseURL:         p.cfg.ScheduleBase,
				FreshnessWindow: p.cfg.FreshnessWindow,
				SourceTimeShift: p.cfg.SourceTimeShift,
				OutputOffset:    p.cfg.OutputOffset,
			})
			return p.writeOutput(eventsListFile, eventsList)
		})
	}

	stage("epg-merge", func() error {
		return p.mergeGuides(ctx, eventGuide)
	})

	stage("vavoo", func() error {
		var err error
		vavooList, err = p.buildVavooList(ctx)
		return err
	})

	if p.cfg.WorldChannels {
		stage("world", func() error {
			var err error
			worldList, err = p.buildWorldList(ctx)
			return err
		})
	}

	if p.cfg.TMDBAPIKey != "" {
		stage("vod", func() error {
			return p.buildVODLists(ctx)
		})
	} else {
		p.log.Info("TMDB_API_KEY unset, skipping movie and series playlists")
	}

	stage("pluto", func() error {
		var err error
		plutoList, err = fetch.Bytes(ctx, p.client, p.cfg.PlutoPlaylistURL, nil)
		return err
	})

	stage("merge", func() error {
		var others [][]byte
		if len(eventsList) > 0 {
			others = append(others, eventsList)
		}
		if len(plutoList) > 0 {
			others = append(others, plutoList)
		}
		if len(worldList) > 0 {
			others = append(others, playlist.ExcludeGroup(worldList, "Italy"))
		}
		final := playlist.Merge(playlist.MergeOptions{
			EPGURL:  p.cfg.EPGURL(),
			Italian: [][]byte{vavooList},
			Others:  others,
		})
		return p.writeOutput(finalListFile, final)
	})

	return ok
}

// fetchSchedule scrapes the provider's schedule page, falling back to the
// cached copy from the previous run when the scrape fails.
func (p *pipeline) fetchSchedule(ctx context.Context) (schedule.Document, error) {
	path := filepath.Join(p.cfg.OutDir, scheduleFile)
	doc, err := schedule.Scrape(ctx, p.client, p.cfg.ScheduleBase)
	if err != nil {
		cached, loadErr := schedule.Load(path)
		if loadErr != nil || len(cached) == 0 {
			return nil, err
		}
		p.log.Warnf("schedule scrape failed (%v), using cached copy", err)
		return cached, nil
	}
	if err := schedule.Save(doc, path); err != nil {
		p.log.Warnf("save schedule cache: %v", err)
	}
	return doc, nil
}

func (p *pipeline) buildEventGuide(doc schedule.Document) ([]byte, error) {
	builder := epg.NewBuilder(epg.Options{
		Keywords:         p.cfg.Keywords,
		FreshnessWindow:  p.cfg.FreshnessWindow,
		EventDuration:    p.cfg.EventDuration,
		SourceTimeShift:  p.cfg.SourceTimeShift,
		OutputOffset:     p.cfg.OutputOffset,
		ExcludeLateNight: p.cfg.WideEventEPG,
	})
	guide := builder.Build(doc)

	var buf bytes.Buffer
	if err := epg.WriteXMLTV(&buf, guide); err != nil {
		return nil, err
	}
	if err := p.writeOutput(eventsGuideFile, buf.Bytes()); err != nil {
		return nil, err
	}
	p.log.Infof("event guide: %d channels, %d programmes", len(guide.Channels), len(guide.Programmes))
	return buf.Bytes(), nil
}

func (p *pipeline) mergeGuides(ctx context.Context, local []byte) error {
	merger := epgmerge.New(p.cfg.EPGSources)
	merger.HTTPClient = p.client

	var locals [][]byte
	if len(local) > 0 {
		locals = append(locals, local)
	}
	merged, err := merger.Merge(ctx, locals...)
	if err != nil {
		return err
	}
	path := filepath.Join(p.cfg.OutDir, mergedGuideFile)
	if err := epgmerge.WriteFiles(path, merged); err != nil {
		return err
	}
	p.run.RecordOutput(mergedGuideFile, strings.Count(string(merged), "<channel "), len(merged))
	return nil
}

func (p *pipeline) buildVavooList(ctx context.Context) ([]byte, error) {
	vc := vavoo.NewClient()
	vc.HTTPClient = p.client
	items, err := vc.Channels(ctx)
	if err != nil {
		return nil, err
	}

	var daddy []vavoo.DaddyChannel
	if p.cfg.EventChannels {
		daddy, err = vavoo.FetchDaddyChannels(ctx, p.client, p.cfg.ScheduleBase)
		if err != nil {
			p.log.Warnf("24/7 lineup: %v", err)
		}
	}

	tvgIDs := vavoo.TVGIDMap(filepath.Join(p.cfg.OutDir, mergedGuideFile))
	data := vavoo.BuildPlaylist(items, daddy, tvgIDs, p.logoResolver(ctx))
	if err := p.writeOutput(vavooListFile, data); err != nil {
		return nil, err
	}
	return data, nil
}

// logoResolver loads the iptv-org channel DB for logo enrichment. First run
// downloads the Italian slice and persists it; later runs reuse the file.
// Disabled (nil) when no DB path is configured.
func (p *pipeline) logoResolver(ctx context.Context) func(string) string {
	if p.cfg.IPTVOrgDB == "" {
		return nil
	}
	db, err := iptvorg.Load(p.cfg.IPTVOrgDB)
	if err != nil {
		p.log.Warnf("iptv-org db: %v", err)
		return nil
	}
	if db.Len() == 0 {
		n, err := db.Fetch(ctx, p.client, "", "IT")
		if err != nil {
			p.log.Warnf("iptv-org fetch: %v", err)
			return nil
		}
		if err := db.Save(p.cfg.IPTVOrgDB); err != nil {
			p.log.Warnf("iptv-org save: %v", err)
		}
		p.log.Infof("iptv-org db: %d Italian channels", n)
	}
	return db.Logo
}

func (p *pipeline) buildWorldList(ctx context.Context) ([]byte, error) {
	wc := vavoo.NewClient()
	wc.HTTPClient = p.client
	// An empty group filter returns the whole multi-country catalog.
	wc.Groups = []string{""}
	items, err := wc.Channels(ctx)
	if err != nil {
		return nil, err
	}
	data := vavoo.BuildWorldPlaylist(items)
	if err := p.writeOutput(worldListFile, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (p *pipeline) buildVODLists(ctx context.Context) error {
	tc := tmdb.NewClient(p.cfg.TMDBAPIKey, p.cfg.TMDBLanguage)
	tc.HTTPClient = p.client

	st, err := store.Open(p.cfg.CacheDBPath)
	if err != nil {
		p.log.Warnf("metadata cache unavailable: %v", err)
	} else {
		tc.Cache = st
		defer func() {
			for _, ns := range []string{"movies", "series"} {
				if n, err := st.Prune(ns, cachePruneAge); err == nil && n > 0 {
					p.log.Debugf("pruned %d stale %s cache rows", n, ns)
				}
			}
			st.Close()
		}()
	}

	vx := vixsrc.NewClient(p.cfg.VixsrcBase)
	vx.HTTPClient = p.client
	vx.Concurrency = p.cfg.FetchConcurrency

	movies, err := playlist.BuildMovies(ctx, tc, vx)
	if err != nil {
		return err
	}
	if err := p.writeOutput(moviesListFile, movies); err != nil {
		return err
	}

	series, err := playlist.BuildSeries(ctx, tc, vx)
	if err != nil {
		return err
	}
	return p.writeOutput(seriesListFile, series)
}

func (p *pipeline) writeOutput(name string, data []byte) error {
	path := filepath.Join(p.cfg.OutDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	p.run.RecordOutput(name, strings.Count(string(data), "#EXTINF"), len(data))
	p.log.Infof("wrote %s (%d bytes)", path, len(data))
	return nil
}
