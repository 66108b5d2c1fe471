package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/agencypulse/agencypulse/internal/models"
)

// ROIRow is one lead source's spend-vs-outcome rollup.
type ROIRow struct {
	// LeadSource is the display name: the most frequent original casing
	// seen for this source's normalized key.
	LeadSource string `json:"lead_source"`

	Leads        float64 `json:"leads"`
	Spend        float64 `json:"spend"`
	SpendPerLead float64 `json:"spend_per_lead"`

	Quoted              int `json:"quoted"`
	Issued              int `json:"issued"`
	TotalQuotedOrIssued int `json:"total_quoted_or_issued"`

	Conversion float64 `json:"conversion"`
	CPA        float64 `json:"cpa"`

	WrittenPremium  float64 `json:"written_premium"`
	IssuedPremium   float64 `json:"issued_premium"`
	PremiumPerSpend float64 `json:"premium_per_spend"`
}

// ROIScope filters which sources an ROI view keeps.
type ROIScope string

const (
	// ScopePaid keeps sources with any lead volume or spend.
	ScopePaid ROIScope = "paid"
	// ScopeAll keeps everything, organic and referral sources included.
	ScopeAll ROIScope = "all"
)

// ROISort orders ROI rows.
type ROISort string

const (
	SortROI     ROISort = "roi"     // premiumPerSpend desc, zero-ROI rows sink
	SortPremium ROISort = "premium" // issuedPremium desc
	SortCPA     ROISort = "cpa"     // cpa asc, zero-CPA rows sink
)

type sourceAcc struct {
	originals map[string]int

	leads float64
	spend float64

	quoted, issued int
	writtenPremium float64
	issuedPremium  float64
}

func displayName(originals map[string]int) string {
	best, bestCount := "", 0
	for name, count := range originals {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	if best == "" {
		return unknownName
	}
	return best
}

// ComputeLeadSourceROI groups quote/sale and paid-lead rows by normalized
// source key and derives the per-source ROI table, default-sorted by
// premium-per-spend descending. Blank sources group under "Unknown".
func ComputeLeadSourceROI(quoteSales []models.QuoteSaleRecord, paidLeads []models.PaidLeadRecord) []ROIRow {
	bySource := map[string]*sourceAcc{}
	get := func(raw string) *sourceAcc {
		key := SourceKey(raw)
		if key == "" {
			key = "unknown"
		}
		acc, ok := bySource[key]
		if !ok {
			acc = &sourceAcc{originals: map[string]int{}}
			bySource[key] = acc
		}
		if raw = strings.TrimSpace(raw); raw != "" {
			acc.originals[raw]++
		}
		return acc
	}

	for _, r := range paidLeads {
		acc := get(r.LeadSource)
		acc.leads += r.LeadCount
		acc.spend += r.LeadCount * r.LeadCost
	}

	for _, r := range quoteSales {
		acc := get(r.LeadSource)
		switch lower(r.Status) {
		case "quoted":
			acc.quoted++
		case "issued":
			acc.issued++
		}
		acc.writtenPremium += r.WrittenPremium
		acc.issuedPremium += r.IssuedPremium
	}

	rows := make([]ROIRow, 0, len(bySource))
	for _, acc := range bySource {
		total := acc.quoted + acc.issued
		rows = append(rows, ROIRow{
			LeadSource:          displayName(acc.originals),
			Leads:               acc.leads,
			Spend:               acc.spend,
			SpendPerLead:        div(acc.spend, acc.leads),
			Quoted:              acc.quoted,
			Issued:              acc.issued,
			TotalQuotedOrIssued: total,
			Conversion:          div(float64(acc.issued), float64(total)),
			CPA:                 div(acc.spend, float64(acc.issued)),
			WrittenPremium:      acc.writtenPremium,
			IssuedPremium:       acc.issuedPremium,
			PremiumPerSpend:     div(acc.issuedPremium, acc.spend),
		})
	}

	SortROIRows(rows, SortROI)
	return rows
}

// FilterROIRows applies the scope filter.
func FilterROIRows(rows []ROIRow, scope ROIScope) []ROIRow {
	if scope != ScopePaid {
		return rows
	}
	out := make([]ROIRow, 0, len(rows))
	for _, r := range rows {
		if r.Leads > 0 || r.Spend > 0 {
			out = append(out, r)
		}
	}
	return out
}

// SortROIRows orders rows in place. Zero values are deliberately treated as
// worst-case: a zero premium-per-spend sorts below any positive value in the
// descending ROI sort, and a zero CPA sorts as +Inf in the ascending CPA
// sort, so no-spend/no-issued sources sink instead of topping the list.
func SortROIRows(rows []ROIRow, mode ROISort) {
	switch mode {
	case SortPremium:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].IssuedPremium != rows[j].IssuedPremium {
				return rows[i].IssuedPremium > rows[j].IssuedPremium
			}
			return rows[i].LeadSource < rows[j].LeadSource
		})
	case SortCPA:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := cpaOrInf(rows[i]), cpaOrInf(rows[j])
			if a != b {
				return a < b
			}
			return rows[i].LeadSource < rows[j].LeadSource
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			aZero, bZero := a.PremiumPerSpend <= 0, b.PremiumPerSpend <= 0
			if aZero != bZero {
				return bZero
			}
			if a.PremiumPerSpend != b.PremiumPerSpend {
				return a.PremiumPerSpend > b.PremiumPerSpend
			}
			if a.IssuedPremium != b.IssuedPremium {
				return a.IssuedPremium > b.IssuedPremium
			}
			return a.LeadSource < b.LeadSource
		})
	}
}

func cpaOrInf(r ROIRow) float64 {
	if r.CPA <= 0 {
		return math.Inf(1)
	}
	return r.CPA
}

// QuoteActivityRow counts quote-log rows per lead source.
type QuoteActivityRow struct {
	Key        string `json:"key"`
	LeadSource string `json:"lead_source"`
	Count      int    `json:"count"`
}

// ComputeLeadSourceQuoteActivity tallies quote-log volume per source,
// sorted by count descending then name.
func ComputeLeadSourceQuoteActivity(quoteSales []models.QuoteSaleRecord) []QuoteActivityRow {
	type acc struct {
		originals map[string]int
		count     int
	}
	bySource := map[string]*acc{}
	for _, r := range quoteSales {
		key := SourceKey(r.LeadSource)
		if key == "" {
			key = "unknown"
		}
		a, ok := bySource[key]
		if !ok {
			a = &acc{originals: map[string]int{}}
			bySource[key] = a
		}
		if raw := strings.TrimSpace(r.LeadSource); raw != "" {
			a.originals[raw]++
		}
		a.count++
	}

	rows := make([]QuoteActivityRow, 0, len(bySource))
	for key, a := range bySource {
		rows = append(rows, QuoteActivityRow{Key: key, LeadSource: displayName(a.originals), Count: a.count})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].LeadSource < rows[j].LeadSource
	})
	return rows
}

// UnattributedPaidSources counts distinct paid-lead sources that never show
// up in the quote log: spend on a channel whose conversions cannot be
// attributed. Identity is the normalized source key on both sides.
func UnattributedPaidSources(quoteSales []models.QuoteSaleRecord, paidLeads []models.PaidLeadRecord) (missing, total int) {
	paid := map[string]bool{}
	for _, r := range paidLeads {
		if key := SourceKey(r.LeadSource); key != "" {
			paid[key] = true
		}
	}
	seen := map[string]bool{}
	for _, r := range quoteSales {
		if key := SourceKey(r.LeadSource); key != "" {
			seen[key] = true
		}
	}
	for key := range paid {
		if !seen[key] {
			missing++
		}
	}
	return missing, len(paid)
}
