package extract

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"uidlens/domain/social"
)

// DateFields are tried in order; the first parseable value wins.
// posted_at closes the list so post exports carry activity dates.
var DateFields = []string{"date", "timestamp", "created_at", "updated_at", "time", "posted_at"}

// dateLayouts are the textual forms accepted for date cells
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Date returns the activity date of a row, if any date field parses
func Date(row social.Row) (time.Time, bool) {
	for _, f := range DateFields {
		v, ok := row.Present(f)
		if !ok {
			continue
		}
		if t, ok := ParseDate(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate interprets a cell as a point in time. Numbers are milliseconds
// since the Unix epoch; strings are matched against the accepted layouts,
// date-only forms landing on midnight UTC.
func ParseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		return parseDateString(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return parseDateString(t.String())
		}
		return fromEpochMillis(f)
	}
	if social.IsNumber(v) {
		s, _ := social.Stringify(v)
		return ParseDate(json.Number(s))
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// maxEpochMillis mirrors the ±8.64e15 ms range of a valid date
const maxEpochMillis = 8.64e15

func fromEpochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
