package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds connector, playlist and EPG settings.
// Load from env; main loads .env first so local runs work without exporting.
type Config struct {
	// TMDB metadata API
	TMDBAPIKey   string
	TMDBLanguage string // e.g. it-IT

	// Event schedule provider
	ScheduleBase string // e.g. https://dlhd.dad

	// Stream resolver base
	VixsrcBase string

	// Feature flags (the historical env values are "si"/"no")
	EventChannels bool // CANALI_DADDY: scrape the schedule, emit event playlist + EPG
	WideEventEPG  bool // EVENTI_EN: use the wide keyword set and late-night policy
	WorldChannels bool // WORLD: include the world catalog in the final merge

	// Published playlist/EPG location, used for the url-tvg header
	GithubUser string
	GithubRepo string

	// Paths
	OutDir      string
	CacheDBPath string
	MetricsFile string // prometheus textfile output; "" = disabled
	IPTVOrgDB   string // iptv-org channel db for logo enrichment; "" = disabled

	// HTTP
	HTTPTimeout      time.Duration
	FetchConcurrency int // cap on concurrent stream resolutions
	HostConcurrency  int // cap on concurrent requests per upstream host

	// EPG builder tuning. SourceTimeShift compensates the schedule feed's
	// UTC-encoded times; OutputOffset is the guide's target timezone. They
	// happen to coincide today but have independent origins.
	Keywords        []string
	FreshnessWindow time.Duration
	EventDuration   time.Duration
	SourceTimeShift time.Duration
	OutputOffset    time.Duration

	// EPG merge sources (.xml or .xml.gz)
	EPGSources []string

	// External playlists pulled into the final merge
	PlutoPlaylistURL string
}

// DefaultEPGSources are the upstream guides merged into epg.xml.
var DefaultEPGSources = []string{
	"https://www.open-epg.com/files/italy1.xml",
	"https://www.open-epg.com/files/italy2.xml",
	"https://www.open-epg.com/files/italy3.xml",
	"https://www.open-epg.com/files/italy4.xml",
	"https://epgshare01.online/epgshare01/epg_ripper_IT1.xml.gz",
}

// DefaultKeywords match channels of interest by whole word.
var DefaultKeywords = []string{
	"italy", "rai", "italia", "it", "uk", "tnt", "usa",
	"tennis channel", "tennis stream", "la",
}

// NarrowKeywords is the reduced set used when WideEventEPG is off.
var NarrowKeywords = []string{"italy", "rai", "italia", "it"}

// Load reads config from environment. Call godotenv.Load before Load() to use a .env file.
func Load() *Config {
	c := &Config{
		TMDBAPIKey:       os.Getenv("TMDB_API_KEY"),
		TMDBLanguage:     getEnv("TMDB_LANGUAGE", "it-IT"),
		ScheduleBase:     getEnv("LINK_DADDY", "https://dlhd.dad"),
		VixsrcBase:       getEnv("LISTATV_VIXSRC_BASE", "https://vixsrc.to"),
		EventChannels:    getEnvSiNo("CANALI_DADDY", false),
		WideEventEPG:     getEnvSiNo("EVENTI_EN", false),
		WorldChannels:    getEnvSiNo("WORLD", true),
		GithubUser:       os.Getenv("NOMEGITHUB"),
		GithubRepo:       os.Getenv("NOMEREPO"),
		OutDir:           getEnv("LISTATV_OUT", "."),
		CacheDBPath:      getEnv("LISTATV_CACHE_DB", "./listatv.db"),
		MetricsFile:      os.Getenv("LISTATV_METRICS_FILE"),
		IPTVOrgDB:        os.Getenv("LISTATV_IPTVORG_DB"),
		HTTPTimeout:      getEnvDuration("LISTATV_HTTP_TIMEOUT", 30*time.Second),
		FetchConcurrency: getEnvInt("LISTATV_FETCH_CONCURRENCY", 100),
		HostConcurrency:  getEnvInt("LISTATV_HOST_CONCURRENCY", 8),
		Keywords:         getEnvList("LISTATV_KEYWORDS", nil),
		FreshnessWindow:  getEnvDuration("LISTATV_FRESHNESS_WINDOW", 2*time.Hour),
		EventDuration:    getEnvDuration("LISTATV_EVENT_DURATION", 2*time.Hour),
		SourceTimeShift:  getEnvDuration("LISTATV_SOURCE_TIME_SHIFT", 2*time.Hour),
		OutputOffset:     getEnvDuration("LISTATV_OUTPUT_OFFSET", 2*time.Hour),
		EPGSources:       getEnvList("LISTATV_EPG_SOURCES", DefaultEPGSources),
		PlutoPlaylistURL: getEnv("LISTATV_PLUTO_URL", "https://raw.githubusercontent.com/Brenders/Pluto-TV-Italia-M3U/main/PlutoItaly.m3u"),
	}
	if c.Keywords == nil {
		if c.WideEventEPG {
			c.Keywords = DefaultKeywords
		} else {
			c.Keywords = NarrowKeywords
		}
	}
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = 100
	}
	if c.HostConcurrency <= 0 {
		c.HostConcurrency = 8
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
	return c
}

// EPGURL returns the published guide URL for the url-tvg playlist header.
// Empty when the publishing repo is not configured.
func (c *Config) EPGURL() string {
	if c.GithubUser == "" || c.GithubRepo == "" {
		return ""
	}
	return "https://raw.githubusercontent.com/" + c.GithubUser + "/" + c.GithubRepo + "/refs/heads/main/epg.xml"
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, _ := strconv.Atoi(v)
		return n
	}
	return defaultVal
}

// getEnvSiNo parses the legacy Italian flag values: "si" = true, "no" = false.
// Plain boolean spellings are accepted too.
func getEnvSiNo(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "si", "1", "true", "yes":
		return true
	case "no", "0", "false":
		return false
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
