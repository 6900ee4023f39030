package vsdc

import "time"

// Watermarks are exchanged with the service as fixed-width local timestamps.
// All parsing and formatting happens here; the rest of the system works with
// time.Time. The fixed width keeps lexical comparison equivalent to time
// comparison, which the sync engine relies on.
const WatermarkLayout = "20060102150405"

// DefaultWatermark seeds a feed that has never synced.
const DefaultWatermark = "20231215000000"

// ParseWatermark parses a YYYYMMDDHHMMSS watermark string.
func ParseWatermark(s string) (time.Time, error) {
	return time.Parse(WatermarkLayout, s)
}

// FormatWatermark renders a time as a watermark string.
func FormatWatermark(t time.Time) string {
	return t.Format(WatermarkLayout)
}

// NextDay returns the watermark advanced to the start of the following
// calendar day (time-of-day reset to 000000).
func NextDay(s string) string {
	t, err := ParseWatermark(s)
	if err != nil {
		t = time.Now().UTC()
	}
	next := t.AddDate(0, 0, 1)
	day := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
	return FormatWatermark(day)
}

// Today returns the watermark for the start of the current UTC day.
func Today() string {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return FormatWatermark(day)
}

// NowWatermark returns the watermark for the current instant.
func NowWatermark() string {
	return FormatWatermark(time.Now().UTC())
}

// OlderThan reports whether the watermark lies more than d in the past.
// Malformed watermarks count as stale.
func OlderThan(s string, d time.Duration) bool {
	t, err := ParseWatermark(s)
	if err != nil {
		return true
	}
	return time.Since(t) >= d
}
