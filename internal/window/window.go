// Package window parses the since/until time bounds given on the command
// line, accepting relative durations and a few absolute formats.
package window

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse resolves sinceStr/untilStr into a concrete window. An empty until
// means now; an empty since means 24 hours before until.
func Parse(sinceStr, untilStr string) (since, until time.Time, err error) {
	until = time.Now()
	if untilStr != "" {
		until, err = parseTimeArg(untilStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until value %q: %w", untilStr, err)
		}
	}

	since = until.Add(-24 * time.Hour)
	if sinceStr != "" {
		since, err = parseTimeArg(sinceStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since value %q: %w", sinceStr, err)
		}
	}

	if since.After(until) {
		return time.Time{}, time.Time{}, fmt.Errorf("window is empty: since %s is after until %s",
			since.Format(time.RFC3339), until.Format(time.RFC3339))
	}
	return since, until, nil
}

// parseTimeArg tries a relative duration (e.g. "2h", "1d") first, then
// absolute timestamp formats.
func parseTimeArg(s string) (time.Time, error) {
	if d, ok := parseRelativeDuration(s); ok {
		return time.Now().Add(-d), nil
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("expected relative duration (30m, 2h, 1d, 1w) or timestamp (2006-01-02, 2006-01-02T15:04, RFC3339)")
}

// parseRelativeDuration handles suffixes: m (minutes), h (hours), d (days),
// w (weeks).
func parseRelativeDuration(s string) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}

	suffix := s[len(s)-1]
	n, err := strconv.Atoi(strings.TrimSpace(s[:len(s)-1]))
	if err != nil || n <= 0 {
		return 0, false
	}

	switch suffix {
	case 'm':
		return time.Duration(n) * time.Minute, true
	case 'h':
		return time.Duration(n) * time.Hour, true
	case 'd':
		return time.Duration(n) * 24 * time.Hour, true
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}
