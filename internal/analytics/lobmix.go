package analytics

import (
	"sort"
	"time"

	"github.com/agencypulse/agencypulse/internal/models"
	"github.com/agencypulse/agencypulse/internal/timeframe"
)

var defaultLOBOrder = []string{"Auto", "Fire", "Life", "Health"}

func normalizeLOB(raw string) string {
	switch lower(raw) {
	case "":
		return ""
	case "auto":
		return "Auto"
	case "fire":
		return "Fire"
	case "life":
		return "Life"
	case "health":
		return "Health"
	}
	return raw
}

// LOBBucket is one time bucket of the multiline LOB mix: how many cross-sell
// groups touched each line of business.
type LOBBucket struct {
	Key    string             `json:"key"`
	Label  string             `json:"label"`
	Counts map[string]int     `json:"counts"`
	Pct    map[string]float64 `json:"pct"`
	Total  int                `json:"total"`
}

// LOBMixSeries is the multiline LOB-mix series.
type LOBMixSeries struct {
	Buckets     []LOBBucket           `json:"buckets"`
	LOBs        []string              `json:"lobs"`
	Granularity timeframe.Granularity `json:"granularity"`
}

// LOBMixOptions configure cross-sell grouping.
type LOBMixOptions struct {
	Granularity timeframe.Granularity
	WeekStart   time.Weekday
	Range       *timeframe.Range
	// GroupWindowDays widens the customer-id fallback grouping beyond a
	// single day; <=1 keeps same-day grouping.
	GroupWindowDays int
}

type lobGroup struct {
	lobs    map[string]bool
	minDate time.Time
}

func crossSellKey(r models.QuoteSaleRecord, date time.Time, windowDays int) string {
	if r.OpportunityID != "" {
		return "opp__" + r.OpportunityID
	}
	customer := r.CustomerID
	if customer == "" {
		customer = r.Policyholder
	}
	if customer == "" {
		return ""
	}
	return "cust__" + customer + "__" + windowKey(date, windowDays)
}

func windowKey(date time.Time, windowDays int) string {
	day := timeframe.StartOfDay(date)
	if windowDays <= 1 {
		return timeframe.FormatYMD(day)
	}
	dayIndex := int(day.Unix() / 86400)
	start := dayIndex - dayIndex%windowDays
	return timeframe.FormatYMD(time.Unix(int64(start)*86400, 0).UTC())
}

// ComputeLOBMixSeries builds the multiline LOB-mix series: rows group into
// cross-sell units by opportunity id (customer+date-window fallback), groups
// with fewer than two distinct LOBs drop out, and each surviving group
// counts once per LOB in the bucket of its earliest date.
func ComputeLOBMixSeries(quoteSales []models.QuoteSaleRecord, opts LOBMixOptions) LOBMixSeries {
	g := opts.Granularity
	if g == "" {
		g = timeframe.Month
	}

	groups := map[string]*lobGroup{}
	for _, r := range quoteSales {
		date, ok := timeframe.ParseDate(r.Date)
		if !ok {
			date, ok = timeframe.ParseDate(r.DateIssued)
		}
		if !ok {
			continue
		}
		lob := normalizeLOB(r.LineOfBusiness)
		if lob == "" {
			continue
		}
		key := crossSellKey(r, date, opts.GroupWindowDays)
		if key == "" {
			continue
		}
		grp, exists := groups[key]
		if !exists {
			grp = &lobGroup{lobs: map[string]bool{}, minDate: date}
			groups[key] = grp
		}
		grp.lobs[lob] = true
		if date.Before(grp.minDate) {
			grp.minDate = date
		}
	}

	span := opts.Range
	if span == nil {
		var dates []time.Time
		for _, grp := range groups {
			if len(grp.lobs) >= 2 {
				dates = append(dates, grp.minDate)
			}
		}
		if len(dates) == 0 {
			return LOBMixSeries{Buckets: []LOBBucket{}, LOBs: defaultLOBOrder, Granularity: g}
		}
		min, max := dates[0], dates[0]
		for _, d := range dates[1:] {
			if d.Before(min) {
				min = d
			}
			if d.After(max) {
				max = d
			}
		}
		span = &timeframe.Range{Start: timeframe.StartOfDay(min), End: timeframe.EndOfDay(max)}
	}

	buckets := timeframe.BuildBuckets(span.Start, span.End, g, opts.WeekStart)
	if len(buckets) == 0 {
		return LOBMixSeries{Buckets: []LOBBucket{}, LOBs: defaultLOBOrder, Granularity: g}
	}

	perBucket := make([]map[string]int, len(buckets))
	for i := range perBucket {
		perBucket[i] = map[string]int{}
	}
	lobsSeen := map[string]bool{}

	for _, grp := range groups {
		if len(grp.lobs) < 2 {
			continue
		}
		idx := timeframe.BucketIndex(grp.minDate, buckets[0].Start, g)
		if idx < 0 || idx >= len(buckets) {
			continue
		}
		for lob := range grp.lobs {
			perBucket[idx][lob]++
			lobsSeen[lob] = true
		}
	}

	lobs := append([]string{}, defaultLOBOrder...)
	var extras []string
	for lob := range lobsSeen {
		if !isDefaultLOB(lob) {
			extras = append(extras, lob)
		}
	}
	sort.Strings(extras)
	lobs = append(lobs, extras...)

	out := make([]LOBBucket, len(buckets))
	for i, b := range buckets {
		counts := make(map[string]int, len(lobs))
		total := 0
		for _, lob := range lobs {
			counts[lob] = perBucket[i][lob]
			total += perBucket[i][lob]
		}
		pct := make(map[string]float64, len(lobs))
		for _, lob := range lobs {
			pct[lob] = div(float64(counts[lob]), float64(total))
		}
		out[i] = LOBBucket{Key: b.Key, Label: b.Label, Counts: counts, Pct: pct, Total: total}
	}
	return LOBMixSeries{Buckets: out, LOBs: lobs, Granularity: g}
}

func isDefaultLOB(lob string) bool {
	for _, d := range defaultLOBOrder {
		if d == lob {
			return true
		}
	}
	return false
}
