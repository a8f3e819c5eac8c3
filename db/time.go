package db

import "time"

// TimeFormat is the canonical timestamp representation in the database:
// RFC3339 in UTC with second precision. Lexicographic order of two
// formatted values matches their chronological order, which the sqlite
// queries rely on for expiry comparisons.
const TimeFormat = "2006-01-02T15:04:05Z"

// TimeFormatString formats a time for storage.
func TimeFormatString(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// TimeParse parses a stored timestamp.
func TimeParse(s string) (time.Time, error) {
	return time.Parse(TimeFormat, s)
}
