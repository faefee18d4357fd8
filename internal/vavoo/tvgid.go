package vavoo

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// TVGIDMap reads the merged guide and maps normalized channel display names
// to their guide ids, so playlist entries can link into the EPG. A missing
// or unreadable guide yields an empty map.
func TVGIDMap(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithField("component", "vavoo").Warnf("guide not readable: %v", err)
		return map[string]string{}
	}
	return tvgIDMapFromXML(data)
}

func tvgIDMapFromXML(data []byte) map[string]string {
	out := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.WithField("component", "vavoo").Warnf("guide parse: %v", err)
			}
			return out
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "channel" {
			continue
		}
		var ch struct {
			ID      string   `xml:"id,attr"`
			Display []string `xml:"display-name"`
		}
		if err := dec.DecodeElement(&ch, &start); err != nil {
			continue
		}
		if ch.ID == "" || len(ch.Display) == 0 {
			continue
		}
		key := NormalizeChannelName(ch.Display[0])
		if key == "" {
			continue
		}
		if _, exists := out[key]; !exists {
			out[key] = ch.ID
		}
	}
}
