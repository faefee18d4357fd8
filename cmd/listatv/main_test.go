package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/config"
	"github.com/listatv/listatv/internal/metrics"
	"github.com/listatv/listatv/internal/schedule"
)

func testPipeline(t *testing.T) *pipeline {
	t.Helper()
	return &pipeline{
		cfg:    &config.Config{OutDir: t.TempDir()},
		client: http.DefaultClient,
		log:    log.WithField("component", "pipeline"),
	}
}

func TestFetchScheduleFallsBackToCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := testPipeline(t)
	p.cfg.ScheduleBase = srv.URL
	p.client = srv.Client()

	cached := schedule.Document{
		"Monday 1st Jan 2024": {
			"Soccer": {{Time: "20:00", Name: "Milan - Inter"}},
		},
	}
	if err := schedule.Save(cached, filepath.Join(p.cfg.OutDir, scheduleFile)); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	doc, err := p.fetchSchedule(context.Background())
	if err != nil {
		t.Fatalf("fetchSchedule: %v", err)
	}
	if len(doc["Monday 1st Jan 2024"]["Soccer"]) != 1 {
		t.Errorf("cached doc not returned: %+v", doc)
	}
}

func TestFetchScheduleNoCacheNoServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := testPipeline(t)
	p.cfg.ScheduleBase = srv.URL
	p.client = srv.Client()

	if _, err := p.fetchSchedule(context.Background()); err == nil {
		t.Fatal("expected error with no cache and dead source")
	}
}

func TestWriteOutputRecordsMetrics(t *testing.T) {
	p := testPipeline(t)
	p.run = metrics.NewRun()

	data := []byte("#EXTM3U\n#EXTINF:-1,Rai 1\nhttps://v/rai1\n")
	if err := p.writeOutput("test.m3u", data); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(p.cfg.OutDir, "test.m3u"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("round trip mismatch: %q", got)
	}

	promPath := filepath.Join(p.cfg.OutDir, "run.prom")
	if err := p.run.WriteFile(promPath); err != nil {
		t.Fatalf("metrics: %v", err)
	}
	prom, _ := os.ReadFile(promPath)
	if !strings.Contains(string(prom), `listatv_output_entries{file="test.m3u"} 1`) {
		t.Errorf("entry count not recorded:\n%s", prom)
	}
}

func TestBuildEventGuideWritesFile(t *testing.T) {
	p := testPipeline(t)
	p.cfg.Keywords = []string{"italy"}

	doc := schedule.Document{}
	data, err := p.buildEventGuide(doc)
	if err != nil {
		t.Fatalf("buildEventGuide: %v", err)
	}
	if !strings.Contains(string(data), "<tv>") {
		t.Errorf("not an XMLTV doc:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(p.cfg.OutDir, eventsGuideFile)); err != nil {
		t.Errorf("guide file not written: %v", err)
	}
}
