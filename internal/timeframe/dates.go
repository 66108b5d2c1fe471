// Package timeframe handles the date side of the engine: lenient parsing of
// whatever date text the CSVs carry, resolving range selections to concrete
// windows, coverage scanning, and time-bucket construction for series.
package timeframe

import (
	"regexp"
	"strings"
	"time"
)

var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

// ParseDate parses the date formats seen in agency exports: YYYY-MM-DD,
// ISO timestamps, M/D/YYYY and M/D/YY (two-digit years pivot to 20YY).
// It never fails hard; ok=false means the cell has no usable date.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	if m := slashDate.FindStringSubmatch(s); m != nil {
		mm, dd, yy := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if yy < 100 {
			yy += 2000
		}
		if mm >= 1 && mm <= 12 && dd >= 1 && dd <= 31 {
			t := time.Date(yy, time.Month(mm), dd, 0, 0, 0, 0, time.Local)
			// reject rollovers like 2/31
			if t.Day() == dd && int(t.Month()) == mm {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// StartOfDay clamps t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay clamps t to the last instant of its calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// InRange is the inclusive range test used by every filter.
func InRange(t time.Time, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// FormatYMD renders a date as YYYY-MM-DD.
func FormatYMD(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysBetween counts calendar days covered by [start, end], inclusive.
func DaysBetween(start, end time.Time) int {
	s, e := StartOfDay(start), StartOfDay(end)
	if e.Before(s) {
		return 0
	}
	// round, not truncate: a DST transition makes a day 23h or 25h
	days := int(e.Sub(s).Hours()/24 + 0.5)
	return days + 1
}
