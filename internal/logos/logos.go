// Package logos maps Italian channel names to their logo artwork.
package logos

import "strings"

// byName is keyed by the lowercased display name.
var byName = map[string]string{
	"rai 1":            "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-1-it.png",
	"rai 2":            "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-2-it.png",
	"rai 3":            "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-3-it.png",
	"rai 4":            "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-4-it.png",
	"rai 5":            "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-5-it.png",
	"rai movie":        "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-movie-it.png",
	"rai premium":      "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-premium-it.png",
	"rai gulp":         "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-gulp-it.png",
	"rai yoyo":         "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-yoyo-it.png",
	"rai news 24":      "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-news-24-it.png",
	"rai storia":       "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-storia-it.png",
	"rai scuola":       "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-scuola-it.png",
	"rai sport":        "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rai-sport-it.png",
	"canale 5":         "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/canale-5-it.png",
	"italia 1":         "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/italia-1-it.png",
	"italia 2":         "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/italia-2-it.png",
	"rete 4":           "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rete-4-it.png",
	"la 5":             "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/la5-it.png",
	"iris":             "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/iris-it.png",
	"cine 34":          "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/cine34-it.png",
	"focus":            "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/focus-it.png",
	"top crime":        "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/top-crime-it.png",
	"27 twentyseven":   "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/27-twentyseven-it.png",
	"tgcom 24":         "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/tgcom-24-it.png",
	"mediaset extra":   "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/mediaset-extra-it.png",
	"boing":            "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/boing-it.png",
	"cartoonito":       "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/cartoonito-it.png",
	"frisbee":          "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/frisbee-it.png",
	"k2":               "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/k2-it.png",
	"super!":           "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/super-it.png",
	"real time":        "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/real-time-it.png",
	"dmax":             "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/dmax-it.png",
	"giallo":           "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/giallo-it.png",
	"nove":             "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/nove-it.png",
	"food network":     "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/food-network-it.png",
	"la7":              "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/la7-it.png",
	"la7d":             "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/la7d-it.png",
	"tv8":              "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/tv8-it.png",
	"cielo":            "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/cielo-it.png",
	"sky uno":          "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-uno-it.png",
	"sky atlantic":     "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-atlantic-it.png",
	"sky cinema uno":   "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-cinema-uno-it.png",
	"sky cinema due":   "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-cinema-due-it.png",
	"sky sport 24":     "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-sport-24-it.png",
	"sky sport uno":    "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-sport-uno-it.png",
	"sky sport calcio": "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-sport-calcio-it.png",
	"sky sport f1":     "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-sport-f1-it.png",
	"sky sport motogp": "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-sport-motogp-it.png",
	"sky sport tennis": "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-sport-tennis-it.png",
	"sky sport arena":  "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-sport-arena-it.png",
	"sky sport max":    "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-sport-max-it.png",
	"sky tg24":         "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sky-tg-24-it.png",
	"eurosport 1":      "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/eurosport-1-it.png",
	"eurosport 2":      "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/eurosport-2-it.png",
	"dazn":             "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/dazn-it.png",
	"sportitalia":      "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/sportitalia-it.png",
	"supertennis":      "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/super-tennis-it.png",
	"euronews":         "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/euronews-it.png",
	"discovery":        "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/discovery-it.png",
	"history":          "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/history-channel-it.png",
	"nat geo":          "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/national-geographic-it.png",
	"mtv":              "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/mtv-it.png",
	"radio deejay":     "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/radio-deejay-it.png",
	"radio 105":        "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/radio-105-it.png",
	"rtl 102.5":        "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/italy/rtl-102-5-it.png",
}

// Lookup returns the logo URL for a display name, or "" when unknown.
func Lookup(name string) string {
	return byName[strings.ToLower(strings.TrimSpace(name))]
}
