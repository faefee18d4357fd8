package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var ordinalRe = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

// dateLabelLayout matches labels like "Monday 1 Jan 2024" once ordinal
// suffixes are stripped.
const dateLabelLayout = "Monday 2 Jan 2006"

// ParseDateLabel parses a schedule date label into a calendar date in loc.
// Labels may carry a " - " suffix ("Monday 1st Jan 2024 - Schedule") and
// ordinal day suffixes; both are tolerated. Labels the strict layout rejects
// go through a fuzzy parse before giving up.
func ParseDateLabel(label string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(strings.SplitN(label, " - ", 2)[0])
	s = ordinalRe.ReplaceAllString(s, "$1")
	if t, err := time.ParseInLocation(dateLabelLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date label %q: %w", label, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseEventTime parses the feed's 24-hour "HH:MM" wall-clock time.
func ParseEventTime(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("event time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
