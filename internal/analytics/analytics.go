// Package analytics is the aggregation engine: pure functions from
// normalized, range-filtered records to derived metrics. Nothing here does
// I/O or returns errors; malformed input degrades to zero-contribution and
// shows up in the health diagnostics instead.
package analytics

import (
	"regexp"
	"strings"

	"github.com/agencypulse/agencypulse/internal/models"
	"github.com/agencypulse/agencypulse/internal/timeframe"
)

const unknownName = "Unknown"

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// div is the engine-wide ratio convention: zero denominator yields zero,
// never NaN or Inf.
func div(a, b float64) float64 {
	if b > 0 {
		return a / b
	}
	return 0
}

func per100(n, denom float64) float64 {
	return div(n, denom) * 100
}

func agentKey(name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return unknownName
}

var sourcePunct = regexp.MustCompile(`[^\w\s.-]`)

// SourceKey normalizes a lead-source name into its identity key: lowercased,
// whitespace-collapsed, punctuation-stripped, so "ACME Leads" and
// "acme leads!" aggregate together.
func SourceKey(raw string) string {
	s := lower(raw)
	s = sourcePunct.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// EffectiveDate is the date that places a quote/sale row in a window:
// the issue date for issued rows (falling back to the quote date when the
// issue date is absent or unparseable), the quote date otherwise.
func EffectiveDate(r models.QuoteSaleRecord) string {
	if lower(r.Status) == "issued" {
		if _, ok := timeframe.ParseDate(r.DateIssued); ok {
			return r.DateIssued
		}
	}
	return r.Date
}

// FilterActivity keeps rows whose date falls in r. A nil range keeps
// everything.
func FilterActivity(rows []models.ActivityRecord, r *timeframe.Range) []models.ActivityRecord {
	if r == nil {
		return rows
	}
	out := make([]models.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		if d, ok := timeframe.ParseDate(row.Date); ok && timeframe.InRange(d, r.Start, r.End) {
			out = append(out, row)
		}
	}
	return out
}

// FilterQuoteSales keeps rows whose effective date falls in r.
func FilterQuoteSales(rows []models.QuoteSaleRecord, r *timeframe.Range) []models.QuoteSaleRecord {
	if r == nil {
		return rows
	}
	out := make([]models.QuoteSaleRecord, 0, len(rows))
	for _, row := range rows {
		if d, ok := timeframe.ParseDate(EffectiveDate(row)); ok && timeframe.InRange(d, r.Start, r.End) {
			out = append(out, row)
		}
	}
	return out
}

// FilterPaidLeads keeps rows whose date falls in r.
func FilterPaidLeads(rows []models.PaidLeadRecord, r *timeframe.Range) []models.PaidLeadRecord {
	if r == nil {
		return rows
	}
	out := make([]models.PaidLeadRecord, 0, len(rows))
	for _, row := range rows {
		if d, ok := timeframe.ParseDate(row.Date); ok && timeframe.InRange(d, r.Start, r.End) {
			out = append(out, row)
		}
	}
	return out
}
