// Package epgmerge combines external XMLTV guides with the locally built
// events guide into a single document, published both plain and gzipped.
package epgmerge

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/listatv/listatv/internal/fetch"
	"github.com/listatv/listatv/internal/httpclient"
	"github.com/listatv/listatv/internal/safeurl"
)

// Merger fetches remote guides and concatenates their channels and
// programmes. Guide mirrors come and go, so a failing source is logged and
// skipped rather than failing the whole merge.
type Merger struct {
	Sources    []string
	HTTPClient *http.Client
}

func New(sources []string) *Merger {
	return &Merger{Sources: sources, HTTPClient: httpclient.Default()}
}

// Merge downloads every source, appends the given local guides, and returns
// the merged XMLTV document. Channel ids and programme channel references
// are normalized (spaces stripped, lowercased) so playlist tvg-id lookups
// match regardless of the source's formatting.
func (m *Merger) Merge(ctx context.Context, local ...[]byte) ([]byte, error) {
	var out bytes.Buffer
	out.WriteString(xml.Header)
	out.WriteString("<tv>\n")
	enc := xml.NewEncoder(&out)
	enc.Indent("", "  ")

	merged := 0
	for _, src := range m.Sources {
		if !safeurl.IsFetchable(src) {
			log.WithField("component", "epgmerge").Warnf("source %s: not an http(s) URL, skipped", safeurl.Redact(src))
			continue
		}
		data, err := fetch.Bytes(ctx, m.HTTPClient, src, nil)
		if err != nil {
			log.WithField("component", "epgmerge").Warnf("source %s: %v", safeurl.Redact(src), err)
			continue
		}
		data, err = fetch.MaybeGunzip(data)
		if err != nil {
			log.WithField("component", "epgmerge").Warnf("source %s: %v", safeurl.Redact(src), err)
			continue
		}
		if err := appendTVChildren(enc, data); err != nil {
			log.WithField("component", "epgmerge").Warnf("source %s: %v", safeurl.Redact(src), err)
			continue
		}
		merged++
	}
	for _, doc := range local {
		if len(doc) == 0 {
			continue
		}
		if err := appendTVChildren(enc, doc); err != nil {
			log.WithField("component", "epgmerge").Warnf("local guide: %v", err)
			continue
		}
		merged++
	}
	if merged == 0 {
		return nil, errors.New("no guide sources could be merged")
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	out.WriteString("\n</tv>\n")
	return out.Bytes(), nil
}

// WriteFiles writes the merged guide to path and a gzipped copy to path.gz.
func WriteFiles(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return os.WriteFile(path+".gz", buf.Bytes(), 0o644)
}

type xmlRawNode struct {
	XMLName  xml.Name   `xml:""`
	Attrs    []xml.Attr `xml:",any,attr"`
	InnerXML string     `xml:",innerxml"`
}

// appendTVChildren copies the channel and programme children of a guide's
// <tv> root onto enc, normalizing their channel id attributes.
func appendTVChildren(enc *xml.Encoder, data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("guide root <tv> not found")
			}
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "tv" {
			_ = dec.Skip()
			continue
		}
		return copyChildren(dec, enc)
	}
}

func copyChildren(dec *xml.Decoder, enc *xml.Encoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "channel", "programme":
				var node xmlRawNode
				if err := dec.DecodeElement(&node, &t); err != nil {
					return err
				}
				node.XMLName = xml.Name{Local: t.Name.Local}
				key := "channel"
				if t.Name.Local == "channel" {
					key = "id"
				}
				normalizeAttr(node.Attrs, key)
				if err := enc.EncodeElement(node, xml.StartElement{Name: node.XMLName}); err != nil {
					return err
				}
			default:
				_ = dec.Skip()
			}
		case xml.EndElement:
			if t.Name.Local == "tv" {
				return nil
			}
		}
	}
}

func normalizeAttr(attrs []xml.Attr, key string) {
	for i := range attrs {
		if attrs[i].Name.Local == key {
			attrs[i].Value = CleanID(attrs[i].Value)
		}
	}
}

// CleanID normalizes a guide channel id: spaces stripped, lowercased.
func CleanID(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
