package analytics

import (
	"sort"
	"time"

	"github.com/agencypulse/agencypulse/internal/models"
	"github.com/agencypulse/agencypulse/internal/timeframe"
)

// SeriesBucket is one time bucket of a per-agent stacked series.
type SeriesBucket struct {
	Key    string             `json:"key"`
	Label  string             `json:"label"`
	Start  time.Time          `json:"start"`
	Totals map[string]float64 `json:"totals"`
	Total  float64            `json:"total"`
}

// AgentSeries is a bucketed series stacked by agent. Agents are ordered by
// their overall total descending.
type AgentSeries struct {
	Buckets     []SeriesBucket        `json:"buckets"`
	Agents      []string              `json:"agents"`
	Granularity timeframe.Granularity `json:"granularity"`
}

// SeriesOptions carry the range context series share.
type SeriesOptions struct {
	Mode  timeframe.Mode
	Range *timeframe.Range // nil = unbounded; series derive a span from data
	// Granularity overrides auto-selection when set.
	Granularity timeframe.Granularity
	WeekStart   time.Weekday
}

func (o SeriesOptions) granularityFor(r *timeframe.Range) timeframe.Granularity {
	if o.Granularity != "" {
		return o.Granularity
	}
	if o.Range != nil || presetMode(o.Mode) {
		return timeframe.PickGranularity(o.Mode, o.Range)
	}
	return timeframe.PickGranularity(o.Mode, r)
}

func presetMode(m timeframe.Mode) bool {
	switch m {
	case timeframe.Mode7d, timeframe.Mode30d, timeframe.Mode90d, timeframe.Mode365d:
		return true
	}
	return false
}

// IssuedPremiumSeries buckets issued premium by effective date, stacked by
// agent. With an unbounded range the span derives from the issued rows.
func IssuedPremiumSeries(quoteSales []models.QuoteSaleRecord, opts SeriesOptions) AgentSeries {
	return issuedSeries(quoteSales, opts, func(r models.QuoteSaleRecord) float64 { return r.IssuedPremium })
}

// IssuedPolicySeries buckets issued policy counts the same way.
func IssuedPolicySeries(quoteSales []models.QuoteSaleRecord, opts SeriesOptions) AgentSeries {
	return issuedSeries(quoteSales, opts, func(models.QuoteSaleRecord) float64 { return 1 })
}

func issuedSeries(quoteSales []models.QuoteSaleRecord, opts SeriesOptions, value func(models.QuoteSaleRecord) float64) AgentSeries {
	issued := make([]models.QuoteSaleRecord, 0, len(quoteSales))
	for _, r := range quoteSales {
		if lower(r.Status) == "issued" {
			issued = append(issued, r)
		}
	}

	span := opts.Range
	if span == nil {
		dates := make([]string, 0, len(issued))
		for _, r := range issued {
			dates = append(dates, EffectiveDate(r))
		}
		span = timeframe.Span(dates)
	}
	if span == nil {
		return AgentSeries{Buckets: []SeriesBucket{}, Agents: []string{}, Granularity: timeframe.Month}
	}

	g := opts.granularityFor(span)
	buckets := timeframe.BuildBuckets(span.Start, span.End, g, opts.WeekStart)
	if len(buckets) == 0 {
		return AgentSeries{Buckets: []SeriesBucket{}, Agents: []string{}, Granularity: g}
	}

	totalsByAgent := map[string]float64{}
	perBucket := make([]map[string]float64, len(buckets))
	for i := range perBucket {
		perBucket[i] = map[string]float64{}
	}

	for _, r := range issued {
		d, ok := timeframe.ParseDate(EffectiveDate(r))
		if !ok {
			continue
		}
		if opts.Range != nil && !timeframe.InRange(d, span.Start, span.End) {
			continue
		}
		idx := timeframe.BucketIndex(d, buckets[0].Start, g)
		if idx < 0 || idx >= len(buckets) {
			continue
		}
		agent := agentKey(r.AgentName)
		v := value(r)
		totalsByAgent[agent] += v
		perBucket[idx][agent] += v
	}

	agents := sortedByTotal(totalsByAgent)

	out := make([]SeriesBucket, len(buckets))
	for i, b := range buckets {
		var total float64
		for _, v := range perBucket[i] {
			total += v
		}
		out[i] = SeriesBucket{Key: b.Key, Label: b.Label, Start: b.Start, Totals: perBucket[i], Total: total}
	}
	return AgentSeries{Buckets: out, Agents: agents, Granularity: g}
}

func sortedByTotal(totals map[string]float64) []string {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// ActivityBucket is one time bucket of activity-file volume.
type ActivityBucket struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`

	Dials            float64 `json:"dials"`
	Contacts         float64 `json:"contacts"`
	HouseholdsQuoted float64 `json:"households_quoted"`
	Sales            float64 `json:"sales"`
}

// ActivitySeries is the bucketed activity funnel feed.
type ActivitySeries struct {
	Buckets     []ActivityBucket      `json:"buckets"`
	Granularity timeframe.Granularity `json:"granularity"`
}

// ActivityFunnelSeries buckets dials/contacts/households-quoted/sales from
// the activity file over the active range.
func ActivityFunnelSeries(activity []models.ActivityRecord, opts SeriesOptions) ActivitySeries {
	span := opts.Range
	if span == nil {
		dates := make([]string, 0, len(activity))
		for _, r := range activity {
			dates = append(dates, r.Date)
		}
		span = timeframe.Span(dates)
	}
	if span == nil {
		return ActivitySeries{Buckets: []ActivityBucket{}, Granularity: timeframe.Month}
	}

	g := opts.granularityFor(span)
	buckets := timeframe.BuildBuckets(span.Start, span.End, g, opts.WeekStart)
	if len(buckets) == 0 {
		return ActivitySeries{Buckets: []ActivityBucket{}, Granularity: g}
	}

	out := make([]ActivityBucket, len(buckets))
	for i, b := range buckets {
		out[i] = ActivityBucket{Key: b.Key, Label: b.Label, Start: b.Start}
	}

	for _, r := range activity {
		d, ok := timeframe.ParseDate(r.Date)
		if !ok {
			continue
		}
		if opts.Range != nil && !timeframe.InRange(d, span.Start, span.End) {
			continue
		}
		idx := timeframe.BucketIndex(d, buckets[0].Start, g)
		if idx < 0 || idx >= len(out) {
			continue
		}
		out[idx].Dials += r.DialsMade
		out[idx].Contacts += r.ContactsMade
		out[idx].HouseholdsQuoted += r.HouseholdsQuoted
		out[idx].Sales += r.TotalSales
	}
	return ActivitySeries{Buckets: out, Granularity: g}
}
