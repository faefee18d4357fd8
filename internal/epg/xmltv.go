package epg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// timestampLayout renders the guide's fixed-offset stamps, e.g.
// "20240101220000 +0200".
const timestampLayout = "20060102150405 -0700"

// WriteXMLTV emits the guide as an XMLTV document.
func WriteXMLTV(w io.Writer, g *Guide) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<tv>\n")
	for _, c := range g.Channels {
		fmt.Fprintf(&buf, "  <channel id=%q>\n    <display-name>%s</display-name>\n  </channel>\n",
			c.ID, xmlEscapeStr(c.Name))
	}
	for _, p := range g.Programmes {
		fmt.Fprintf(&buf,
			"  <programme start=%q stop=%q channel=%q>\n    <title lang=\"it\">%s</title>\n    <desc lang=\"it\">%s</desc>\n    <category lang=\"it\">%s</category>\n  </programme>\n",
			p.Start.Format(timestampLayout),
			p.Stop.Format(timestampLayout),
			p.Channel,
			xmlEscapeStr(p.Title),
			xmlEscapeStr(p.Desc),
			xmlEscapeStr(p.Category),
		)
	}
	buf.WriteString("</tv>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes the guide XML to path.
func WriteFile(path string, g *Guide) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteXMLTV(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// xmlEscapeStr escapes XML special characters in a string value.
func xmlEscapeStr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
