package clock

import "time"

// All timestamps in the system are naive wall-clock values against a single
// reference clock. They are carried in UTC so that instant comparisons match
// wall-clock comparisons regardless of the server's local zone.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Now returns the current wall-clock time with the local zone stripped.
func Now() time.Time {
	t := time.Now()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// Day truncates t to midnight of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(DateTimeLayout, s)
}
