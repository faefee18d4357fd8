package epgmerge

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const guideA = `<?xml version="1.0" encoding="UTF-8"?>
<tv generator-info-name="open-epg">
  <channel id="Rai 1 HD"><display-name>Rai 1</display-name></channel>
  <programme start="20240101200000 +0200" stop="20240101220000 +0200" channel="Rai 1 HD">
    <title>Telegiornale</title>
  </programme>
</tv>`

const guideB = `<?xml version="1.0" encoding="UTF-8"?>
<tv>
  <channel id="canale5"><display-name>Canale 5</display-name></channel>
</tv>`

func TestMergeCleansChannelIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, guideA)
	}))
	defer srv.Close()

	m := New([]string{srv.URL})
	m.HTTPClient = srv.Client()
	out, err := m.Merge(context.Background())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, `<channel id="rai1hd">`) {
		t.Errorf("channel id not cleaned:\n%s", got)
	}
	if !strings.Contains(got, `channel="rai1hd"`) {
		t.Errorf("programme channel not cleaned:\n%s", got)
	}
	if !strings.Contains(got, "<title>Telegiornale</title>") {
		t.Errorf("programme body lost:\n%s", got)
	}
}

func TestMergeGzippedSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gz := gzip.NewWriter(w)
		gz.Write([]byte(guideB))
		gz.Close()
	}))
	defer srv.Close()

	m := New([]string{srv.URL})
	m.HTTPClient = srv.Client()
	out, err := m.Merge(context.Background())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !strings.Contains(string(out), `<channel id="canale5">`) {
		t.Errorf("gzipped source not merged:\n%s", out)
	}
}

func TestMergeSkipsFailingSource(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, guideB)
	}))
	defer good.Close()

	m := New([]string{bad.URL, good.URL})
	out, err := m.Merge(context.Background())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !strings.Contains(string(out), "canale5") {
		t.Errorf("good source missing:\n%s", out)
	}
}

func TestMergeLocalGuide(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, guideB)
	}))
	defer srv.Close()

	local := `<?xml version="1.0" encoding="UTF-8"?>
<tv>
  <channel id="teamavsteamb"><display-name>Team A vs Team B</display-name></channel>
  <programme start="20240101220000 +0200" stop="20240102000000 +0200" channel="teamavsteamb">
    <title>Trasmesso in diretta.</title>
  </programme>
</tv>`

	m := New([]string{srv.URL})
	m.HTTPClient = srv.Client()
	out, err := m.Merge(context.Background(), []byte(local))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, "teamavsteamb") || !strings.Contains(got, "canale5") {
		t.Errorf("local guide not appended:\n%s", got)
	}
}

func TestMergeAllSourcesFail(t *testing.T) {
	bad := httptest.NewServer(http.NotFoundHandler())
	defer bad.Close()

	m := New([]string{bad.URL})
	if _, err := m.Merge(context.Background()); err == nil {
		t.Error("expected error when nothing merges")
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "epg.xml")
	data := []byte("<tv></tv>\n")

	if err := WriteFiles(path, data); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	plain, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(plain, data) {
		t.Errorf("plain = %q, %v", plain, err)
	}
	gzData, err := os.ReadFile(path + ".gz")
	if err != nil {
		t.Fatalf("gz missing: %v", err)
	}
	gr, err := gzip.NewReader(bytes.NewReader(gzData))
	if err != nil {
		t.Fatalf("gz corrupt: %v", err)
	}
	unzipped, _ := io.ReadAll(gr)
	if !bytes.Equal(unzipped, data) {
		t.Errorf("gz content = %q", unzipped)
	}
}

func TestCleanID(t *testing.T) {
	if got := CleanID("Rai 1 HD"); got != "rai1hd" {
		t.Errorf("CleanID = %q", got)
	}
}

func TestMergeRejectsNonHTTPSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<tv><channel id="rai1"><display-name>Rai 1</display-name></channel></tv>`)
	}))
	defer srv.Close()

	m := New([]string{"file:///etc/passwd", srv.URL})
	m.HTTPClient = srv.Client()
	out, err := m.Merge(context.Background())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !strings.Contains(string(out), `id="rai1"`) {
		t.Errorf("http source not merged:\n%s", out)
	}
}
