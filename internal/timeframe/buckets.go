package timeframe

import "time"

// Granularity selects the bucket size for time series.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// Bucket is one contiguous calendar sub-interval of a series.
type Bucket struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
}

func readableDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func monthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

// StartOfWeek clamps t to the start of its week. weekStart is normally
// time.Monday; anything else is treated as Sunday.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	var back int
	if weekStart == time.Monday {
		back = (int(day.Weekday()) + 6) % 7
	} else {
		back = int(day.Weekday())
	}
	return day.AddDate(0, 0, -back)
}

// PickGranularity chooses a bucket size when the caller didn't. Preset modes
// have fixed answers; otherwise the span length decides, keeping chart
// density bounded regardless of how long the window is.
func PickGranularity(mode Mode, r *Range) Granularity {
	switch mode {
	case Mode7d:
		return Day
	case Mode30d, Mode90d:
		return Week
	case Mode365d:
		return Month
	}
	if r == nil {
		return Month
	}
	days := DaysBetween(r.Start, r.End)
	switch {
	case days <= 14:
		return Day
	case days <= 90:
		return Week
	}
	return Month
}

// BuildBuckets covers [start, end] with contiguous buckets, empty ones
// included. Day buckets are calendar days; week buckets start on weekStart
// and are labeled "Week of <start>"; month buckets are calendar months.
func BuildBuckets(start, end time.Time, g Granularity, weekStart time.Weekday) []Bucket {
	var buckets []Bucket
	if start.After(end) {
		return buckets
	}

	switch g {
	case Day:
		endDay := StartOfDay(end)
		for cur := StartOfDay(start); !cur.After(endDay); cur = cur.AddDate(0, 0, 1) {
			buckets = append(buckets, Bucket{Key: FormatYMD(cur), Label: readableDate(cur), Start: cur})
		}
	case Week:
		endDay := StartOfDay(end)
		for cur := StartOfWeek(start, weekStart); !cur.After(endDay); cur = cur.AddDate(0, 0, 7) {
			buckets = append(buckets, Bucket{Key: FormatYMD(cur), Label: "Week of " + readableDate(cur), Start: cur})
		}
	default:
		endMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
		for cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()); !cur.After(endMonth); cur = cur.AddDate(0, 1, 0) {
			buckets = append(buckets, Bucket{Key: cur.Format("2006-01"), Label: monthLabel(cur), Start: cur})
		}
	}
	return buckets
}

// BucketIndex maps a date to its 0-based bucket offset from first, which
// must be the Start of the first built bucket. Out-of-span dates produce an
// index outside [0, len(buckets)); callers bounds-check.
func BucketIndex(d time.Time, first time.Time, g Granularity) int {
	day := StartOfDay(d)
	switch g {
	case Day:
		return dayDelta(first, day)
	case Week:
		delta := dayDelta(first, day)
		if delta < 0 {
			return -1
		}
		return delta / 7
	}
	return (day.Year()-first.Year())*12 + int(day.Month()) - int(first.Month())
}

func dayDelta(from, to time.Time) int {
	hours := to.Sub(from).Hours()
	if hours < 0 {
		return int(hours/24 - 0.5)
	}
	return int(hours/24 + 0.5)
}
