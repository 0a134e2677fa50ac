package domain

import "time"

// TimeLayout is the canonical wire format for every stored timestamp:
// millisecond-precision UTC with a literal Z suffix. All records share it, so
// lexicographic comparison of two timestamps is equivalent to chronological
// comparison.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the canonical day key (YYYY-MM-DD, UTC).
const DateLayout = "2006-01-02"

// FormatTime renders t in the canonical timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a canonical timestamp. It also accepts RFC 3339 input so
// externally supplied instants (request payloads) normalise cleanly.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// DateStr derives the canonical day key for t.
func DateStr(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Now returns the current instant in the canonical timestamp format.
func Now() string {
	return FormatTime(time.Now())
}
