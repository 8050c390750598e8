package utils

import "time"

// ISOMillis is the UTC layout used for stored timestamps, e.g. 2024-01-01T00:00:00.000Z
const ISOMillis = "2006-01-02T15:04:05.000Z"

// FormatISO formats t in UTC with millisecond precision
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOMillis)
}

// NowISO returns the current time formatted by FormatISO
func NowISO() string {
	return FormatISO(time.Now())
}

// ParseISO parses a timestamp written by FormatISO
func ParseISO(s string) (time.Time, error) {
	return time.Parse(ISOMillis, s)
}
