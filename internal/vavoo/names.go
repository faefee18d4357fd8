package vavoo

import (
	"regexp"
	"strings"
)

var (
	letterSuffixRe = regexp.MustCompile(`(?i)\s*\.[a-z]\s*$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	itSuffixRe     = regexp.MustCompile(`\.it\b`)
	hdMarkerRe     = regexp.MustCompile(`hd|fullhd`)
	parenNumberRe  = regexp.MustCompile(`\s*\(\d+\)`)
)

// CleanChannelName strips the catalog's trailing variant letter (".a", ".b", ...).
func CleanChannelName(name string) string {
	return strings.TrimSpace(letterSuffixRe.ReplaceAllString(name, ""))
}

// NormalizeChannelName reduces a display name to a lookup key: no spaces,
// lowercased, with ".it" and HD markers removed.
func NormalizeChannelName(name string) string {
	s := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
	s = itSuffixRe.ReplaceAllString(s, "")
	s = hdMarkerRe.ReplaceAllString(s, "")
	return s
}

// renameMap maps raw catalog names to their canonical display names.
var renameMap = map[string]string{
	"DISCOVERY FOCUS":  "FOCUS",
	"CINE 34 MEDIASET": "CINE 34",
	"MEDIASET IRIS":    "IRIS",
	"MEDIASET 1":       "ITALIA 1",
	"ZONA DAZN":        "DAZN",
	"27 TWENTY SEVEN":  "27 TWENTYSEVEN",
}

// Rename applies the canonical display name for known catalog aliases.
func Rename(name string) string {
	if canonical, ok := renameMap[strings.ToUpper(name)]; ok {
		return canonical
	}
	return name
}

type categoryRule struct {
	name  string
	words []string
}

// categoryRules is ordered: the first matching rule wins.
var categoryRules = []categoryRule{
	{"Rai", []string{"rai"}},
	{"Mediaset", []string{"twenty seven", "twentyseven", "mediaset", "italia 1", "italia 2", "canale 5", "la 5", "cine 34", "top crime", "iris", "focus", "rete 4"}},
	{"Sport", []string{"inter", "milan", "lazio", "calcio", "tennis", "sport", "sportitalia", "trsport", "sports", "super tennis", "supertennis", "dazn", "eurosport", "sky sport", "rai sport"}},
	{"Film - Serie TV", []string{"crime", "primafila", "cinema", "movie", "film", "serie", "hbo", "fox", "rakuten", "atlantic"}},
	{"News", []string{"news", "tg", "rai news", "sky tg", "tgcom", "euronews"}},
	{"Bambini", []string{"frisbee", "super!", "fresbee", "k2", "cartoon", "boing", "nick", "disney", "baby", "rai yoyo", "cartoonito"}},
	{"Documentari", []string{"documentaries", "discovery", "geo", "history", "nat geo", "nature", "arte", "documentary"}},
	{"Musica", []string{"deejay", "rds", "hits", "rtl", "mtv", "vh1", "radio", "music", "kiss", "kisskiss", "m2o", "fm"}},
	{"Altro", []string{"real time"}},
}

var wordPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, rule := range categoryRules {
		for _, word := range rule.words {
			if strings.ContainsAny(word, "!&+-") {
				continue
			}
			wordPatterns[word] = regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
		}
	}
}

// Classify assigns a playlist category by keyword. Keywords containing
// punctuation match as substrings; plain words match on word boundaries.
func Classify(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, word := range rule.words {
			if re, ok := wordPatterns[word]; ok {
				if re.MatchString(lower) {
					return rule.name
				}
				continue
			}
			if strings.Contains(lower, word) {
				return rule.name
			}
		}
	}
	return "Altro"
}
