package validation

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp coerces a date string into a UTC time. RFC 3339 is tried
// first so round-tripped values keep full precision; looser layouts such as
// "2026-03-01" or "Mar 1, 2026" fall back to dateparse, read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Timestamp parses value for field, recording a violation when it is not a
// recognizable date.
func Timestamp(vs *Violations, field, value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		vs.Add(Shape(field, RuleTimestamp, "must be a date"))
		return time.Time{}, false
	}
	t, err := ParseTimestamp(value)
	if err != nil {
		vs.Add(Shape(field, RuleTimestamp, "must be a date, e.g. 2026-03-01T09:00:00Z"))
		return time.Time{}, false
	}
	return t, true
}
