package logger

import (
	"strings"
	"time"
	"unicode"
)

// Status collapses an error into the two-valued status field used by
// the summary log lines.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Took reports the elapsed time since start, millisecond rounded.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to log friendly millisecond precision.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values, reporting whether any
// were cut.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if limit <= 0 {
		return "", len(values) > 0
	}
	if len(values) > limit {
		return strings.Join(values[:limit], ", "), true
	}
	return strings.Join(values, ", "), false
}

// Sanitize strips control and zero width runes so user supplied text
// cannot mangle a log line. Tabs and newlines survive.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r), r == 0x7F:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeLimit sanitizes s and truncates it to max runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	cleaned := Sanitize(s)
	runes := []rune(cleaned)
	if len(runes) <= max {
		return cleaned
	}
	return string(runes[:max])
}
