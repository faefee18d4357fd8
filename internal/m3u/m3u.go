// Package m3u writes and parses extended M3U playlists. The writer builds
// entries attribute by attribute; the parser keeps entries as raw blocks so
// playlists from other generators survive a merge byte-for-byte.
package m3u

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

const maxLineSize = 1 << 20 // 1 MiB per line

// Entry is one playlist item.
type Entry struct {
	// Type tags on-demand entries ("movie", "series").
	Type    string
	TVGID   string
	TVGName string
	Logo    string
	Group   string
	// Name is the display name after the EXTINF comma. Empty falls back to TVGName.
	Name string
	// Options are verbatim directive lines (#EXTVLCOPT, #EXTHTTP) emitted
	// between the EXTINF line and the URL.
	Options []string
	URL     string
}

// Writer accumulates a playlist in memory.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter starts a playlist. A non-empty epgURL is advertised in the
// header's url-tvg attribute.
func NewWriter(epgURL string) *Writer {
	w := &Writer{}
	if epgURL != "" {
		fmt.Fprintf(&w.buf, "#EXTM3U url-tvg=%q\n", epgURL)
	} else {
		w.buf.WriteString("#EXTM3U\n")
	}
	return w
}

// Add appends one entry.
func (w *Writer) Add(e Entry) {
	name := e.Name
	if name == "" {
		name = e.TVGName
	}
	w.buf.WriteString("#EXTINF:-1")
	if e.Type != "" {
		fmt.Fprintf(&w.buf, " type=%q", e.Type)
	}
	if e.TVGID != "" {
		fmt.Fprintf(&w.buf, " tvg-id=%q", e.TVGID)
	}
	if e.TVGName != "" {
		fmt.Fprintf(&w.buf, " tvg-name=%q", e.TVGName)
	}
	if e.Logo != "" {
		fmt.Fprintf(&w.buf, " tvg-logo=%q", e.Logo)
	}
	if e.Group != "" {
		fmt.Fprintf(&w.buf, " group-title=%q", e.Group)
	}
	fmt.Fprintf(&w.buf, ",%s\n", name)
	for _, opt := range e.Options {
		w.buf.WriteString(opt)
		w.buf.WriteByte('\n')
	}
	w.buf.WriteString(e.URL)
	w.buf.WriteByte('\n')
}

// Raw appends pre-rendered playlist text, normalizing the trailing newline.
func (w *Writer) Raw(block string) {
	block = strings.TrimRight(block, "\n")
	if block == "" {
		return
	}
	w.buf.WriteString(block)
	w.buf.WriteByte('\n')
}

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) WriteFile(path string) error {
	return os.WriteFile(path, w.buf.Bytes(), 0o644)
}

// Block is one parsed playlist item: the EXTINF line plus every following
// line up to the next EXTINF (directives, then the stream URL).
type Block struct {
	EXTINF string
	Lines  []string
}

// Render returns the block as playlist text without a trailing newline.
func (b Block) Render() string {
	if len(b.Lines) == 0 {
		return b.EXTINF
	}
	return b.EXTINF + "\n" + strings.Join(b.Lines, "\n")
}

// DisplayName returns the name after the EXTINF comma.
func (b Block) DisplayName() string {
	if i := strings.Index(b.EXTINF, ","); i >= 0 {
		return strings.TrimSpace(b.EXTINF[i+1:])
	}
	return ""
}

// Group returns the group-title attribute, if any.
func (b Block) Group() string { return Attr(b.EXTINF, "group-title") }

// URL returns the block's stream URL: the last non-directive line.
func (b Block) URL() string {
	for i := len(b.Lines) - 1; i >= 0; i-- {
		if !strings.HasPrefix(b.Lines[i], "#") {
			return b.Lines[i]
		}
	}
	return ""
}

// Attr extracts a key="value" attribute from an EXTINF line.
func Attr(extinf, key string) string {
	prefix := key + `="`
	if i := strings.Index(extinf, prefix); i >= 0 {
		i += len(prefix)
		if j := strings.Index(extinf[i:], `"`); j >= 0 {
			return extinf[i : i+j]
		}
	}
	return ""
}

// ParseBlocks splits a playlist into its header lines and entry blocks.
func ParseBlocks(data []byte) (header []string, blocks []Block, err error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(nil, maxLineSize)
	var cur *Block
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "#EXTINF:") {
			if cur != nil {
				blocks = append(blocks, *cur)
			}
			cur = &Block{EXTINF: line}
			continue
		}
		if cur == nil {
			if strings.TrimSpace(line) != "" {
				header = append(header, line)
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		cur.Lines = append(cur.Lines, line)
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return header, blocks, sc.Err()
}
