package timeframe

import "time"

// Range is a concrete inclusive date window. A nil *Range means unbounded:
// no filtering is applied downstream.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Mode is a range selection mode.
type Mode string

const (
	ModeAll    Mode = "all"
	Mode7d     Mode = "7d"
	Mode30d    Mode = "30d"
	Mode90d    Mode = "90d"
	Mode365d   Mode = "365d"
	ModeCustom Mode = "custom"
)

func presetDays(m Mode) int {
	switch m {
	case Mode7d:
		return 7
	case Mode30d:
		return 30
	case Mode90d:
		return 90
	case Mode365d:
		return 365
	}
	return 0
}

// Resolve turns a range selection into a concrete window relative to now.
// Presets produce [today-(N-1) days, endOfDay(today)]. Custom mode needs
// both bounds parseable; a half-entered custom range resolves to unbounded
// rather than erroring so a partial selection never blanks the dashboard.
func Resolve(mode Mode, customStart, customEnd string, now time.Time) *Range {
	if n := presetDays(mode); n > 0 {
		today := StartOfDay(now)
		return &Range{Start: today.AddDate(0, 0, -(n - 1)), End: EndOfDay(today)}
	}
	if mode == ModeCustom {
		s, okS := ParseDate(customStart)
		e, okE := ParseDate(customEnd)
		if okS && okE {
			return &Range{Start: StartOfDay(s), End: EndOfDay(e)}
		}
		return nil
	}
	return nil
}

// Label renders the selection for display.
func Label(mode Mode, r *Range) string {
	switch mode {
	case Mode7d:
		return "Last 7 days"
	case Mode30d:
		return "Last 30 days"
	case Mode90d:
		return "Last 90 days"
	case Mode365d:
		return "Last year"
	case ModeCustom:
		if r != nil {
			return FormatYMD(r.Start) + " to " + FormatYMD(r.End)
		}
		return "Custom"
	}
	return "All Time"
}

// Span scans date strings and returns the [min, max] day window over the
// parseable ones, or nil if none parse.
func Span(dates []string) *Range {
	var out *Range
	for _, raw := range dates {
		d, ok := ParseDate(raw)
		if !ok {
			continue
		}
		day := StartOfDay(d)
		if out == nil {
			out = &Range{Start: day, End: day}
			continue
		}
		if day.Before(out.Start) {
			out.Start = day
		}
		if day.After(out.End) {
			out.End = day
		}
	}
	if out != nil {
		out.End = EndOfDay(out.End)
	}
	return out
}

// Union merges windows by taking the overall min start and max end.
// Nil inputs are skipped; all-nil yields nil.
func Union(ranges ...*Range) *Range {
	var out *Range
	for _, r := range ranges {
		if r == nil {
			continue
		}
		if out == nil {
			c := *r
			out = &c
			continue
		}
		if r.Start.Before(out.Start) {
			out.Start = r.Start
		}
		if r.End.After(out.End) {
			out.End = r.End
		}
	}
	return out
}
