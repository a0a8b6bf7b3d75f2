package util

import "time"

// DateLayout is the ISO calendar date used for statement periods and rates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateFromUnix formats unix seconds as a UTC calendar date.
func DateFromUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(DateLayout)
}

// DateFromUnixOffset formats unix seconds as the calendar date in a zone
// offsetSec seconds east of UTC.
func DateFromUnixOffset(ts int64, offsetSec int) string {
	return time.Unix(ts, 0).In(time.FixedZone("", offsetSec)).Format(DateLayout)
}
