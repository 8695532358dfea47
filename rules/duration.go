package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseRelativeDuration parses the target value of newer-than/older-than
// operators: an integer followed by a unit suffix. Supported units: h, d, w,
// mo, y. A bare Go duration string ("36h") is also accepted.
func ParseRelativeDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	for _, u := range []struct {
		suffix string
		unit   time.Duration
	}{
		{"mo", 30 * 24 * time.Hour},
		{"y", 365 * 24 * time.Hour},
		{"w", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
		{"h", time.Hour},
	} {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(s, u.suffix))
		if err != nil {
			break // fall through to time.ParseDuration
		}
		if n < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(n) * u.unit, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// dateFormats accepted for absolute date targets, tried in order.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses an absolute date target value.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseWeekdays parses a semicolon-delimited set of weekday names.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := splitTargetSet(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty weekday set")
	}
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		day, ok := weekdayNames[strings.ToLower(p)]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q", p)
		}
		days = append(days, day)
	}
	return days, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// splitTargetSet splits a multi-value target on semicolons, trimming
// whitespace and dropping empty entries.
func splitTargetSet(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseResolution maps a categorical resolution target ("1080p", "4K") or a
// raw pixel height to a numeric height.
func ParseResolution(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "480p", "sd":
		return 480, nil
	case "576p":
		return 576, nil
	case "720p", "hd":
		return 720, nil
	case "1080p", "fullhd":
		return 1080, nil
	case "1440p":
		return 1440, nil
	case "2160p", "4k", "uhd":
		return 2160, nil
	case "4320p", "8k":
		return 4320, nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid resolution %q", s)
	}
	return n, nil
}
