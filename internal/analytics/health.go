package analytics

import (
	"math"

	"github.com/agencypulse/agencypulse/internal/ingest"
	"github.com/agencypulse/agencypulse/internal/models"
	"github.com/agencypulse/agencypulse/internal/timeframe"
)

// ActivityHealth counts data problems in the activity file. Diagnostic only:
// bad rows still aggregate with zero contributions.
type ActivityHealth struct {
	TotalRows        int `json:"total_rows"`
	MissingDate      int `json:"missing_date"`
	MissingAgent     int `json:"missing_agent"`
	NegativeCounts   int `json:"negative_counts"`
	NonNumericCounts int `json:"non_numeric_counts"`
}

// QuoteSalesHealth counts data problems in the quotes & sales log.
type QuoteSalesHealth struct {
	TotalRows                  int `json:"total_rows"`
	MissingDate                int `json:"missing_date"`
	MissingAgent               int `json:"missing_agent"`
	MissingStatus              int `json:"missing_status"`
	BadStatus                  int `json:"bad_status"`
	IssuedMissingIssueDate     int `json:"issued_missing_issue_date"`
	IssuedMissingIssuedPremium int `json:"issued_missing_issued_premium"`
	MissingWrittenPremium      int `json:"missing_written_premium"`
	NonNumericPremiums         int `json:"non_numeric_premiums"`
	NegativePremiums           int `json:"negative_premiums"`
	MissingLeadSource          int `json:"missing_lead_source"`
	MissingZip                 int `json:"missing_zip"`
}

// PaidLeadsHealth counts data problems in the paid lead file.
type PaidLeadsHealth struct {
	TotalRows         int `json:"total_rows"`
	MissingDate       int `json:"missing_date"`
	MissingLeadSource int `json:"missing_lead_source"`
	MissingLeadCount  int `json:"missing_lead_count"`
	MissingLeadCost   int `json:"missing_lead_cost"`
	NonNumeric        int `json:"non_numeric"`
	Negative          int `json:"negative"`
	ZeroLeadCount     int `json:"zero_lead_count"`
	ZeroLeadCost      int `json:"zero_lead_cost"`
}

// CrossChecks reconcile the three files against each other.
type CrossChecks struct {
	// Paid-lead sources never seen in the quote log (by normalized key).
	PaidSourcesWithNoQuoteSales int `json:"paid_sources_with_no_quote_sales"`
	PaidSourcesCount            int `json:"paid_sources_count"`

	// Activity self-reported totals vs the quote log, with signed rounded
	// deltas so over/under-reporting is visible.
	ActivityTotalQuotes float64 `json:"activity_total_quotes"`
	QuoteLogQuotes      int     `json:"quote_log_quotes"`
	QuotesDelta         int     `json:"quotes_delta"`
	ActivityTotalSales  float64 `json:"activity_total_sales"`
	QuoteLogIssued      int     `json:"quote_log_issued"`
	SalesDelta          int     `json:"sales_delta"`
}

// DataHealth is the full diagnostics bundle.
type DataHealth struct {
	Activity    ActivityHealth   `json:"activity"`
	QuotesSales QuoteSalesHealth `json:"quotes_sales"`
	PaidLeads   PaidLeadsHealth  `json:"paid_leads"`
	Cross       CrossChecks      `json:"cross"`
}

func isBlank(raw string) bool {
	return raw == ""
}

// ComputeDataHealth tallies per-dataset and cross-file diagnostics. It never
// blocks aggregation; every count annotates, none aborts.
func ComputeDataHealth(activity []models.ActivityRecord, quoteSales []models.QuoteSaleRecord, paidLeads []models.PaidLeadRecord) DataHealth {
	var ah ActivityHealth
	ah.TotalRows = len(activity)
	for _, r := range activity {
		if _, ok := timeframe.ParseDate(r.Date); !ok {
			ah.MissingDate++
		}
		if r.AgentName == "" {
			ah.MissingAgent++
		}
		for _, raw := range []string{r.DialsMadeRaw, r.ContactsMadeRaw, r.HouseholdsQuotedRaw, r.TotalQuotesRaw, r.TotalSalesRaw} {
			if isBlank(raw) {
				continue // blank is allowed
			}
			n, ok := ingest.ParseNumber(raw)
			if !ok {
				ah.NonNumericCounts++
			} else if n < 0 {
				ah.NegativeCounts++
			}
		}
	}

	var qh QuoteSalesHealth
	qh.TotalRows = len(quoteSales)
	for _, r := range quoteSales {
		if _, ok := timeframe.ParseDate(r.Date); !ok {
			qh.MissingDate++
		}
		if r.AgentName == "" {
			qh.MissingAgent++
		}
		st := lower(r.Status)
		if st == "" {
			qh.MissingStatus++
		} else if st != "quoted" && st != "issued" {
			qh.BadStatus++
		}
		if r.LeadSource == "" {
			qh.MissingLeadSource++
		}
		if r.Zipcode == "" {
			qh.MissingZip++
		}

		if isBlank(r.WrittenPremiumRaw) {
			qh.MissingWrittenPremium++
		} else if wp, ok := ingest.ParseNumber(r.WrittenPremiumRaw); !ok {
			qh.NonNumericPremiums++
		} else if wp < 0 {
			qh.NegativePremiums++
		}

		if st == "issued" {
			if _, ok := timeframe.ParseDate(r.DateIssued); !ok {
				qh.IssuedMissingIssueDate++
			}
			if isBlank(r.IssuedPremiumRaw) {
				qh.IssuedMissingIssuedPremium++
			} else if ip, ok := ingest.ParseNumber(r.IssuedPremiumRaw); !ok {
				qh.NonNumericPremiums++
			} else if ip < 0 {
				qh.NegativePremiums++
			}
		}
	}

	var ph PaidLeadsHealth
	ph.TotalRows = len(paidLeads)
	for _, r := range paidLeads {
		if _, ok := timeframe.ParseDate(r.Date); !ok {
			ph.MissingDate++
		}
		if r.LeadSource == "" {
			ph.MissingLeadSource++
		}

		if isBlank(r.LeadCountRaw) {
			ph.MissingLeadCount++
		} else if c, ok := ingest.ParseNumber(r.LeadCountRaw); !ok {
			ph.NonNumeric++
		} else {
			if c < 0 {
				ph.Negative++
			}
			if c == 0 {
				ph.ZeroLeadCount++
			}
		}

		if isBlank(r.LeadCostRaw) {
			ph.MissingLeadCost++
		} else if c, ok := ingest.ParseNumber(r.LeadCostRaw); !ok {
			ph.NonNumeric++
		} else {
			if c < 0 {
				ph.Negative++
			}
			if c == 0 {
				ph.ZeroLeadCost++
			}
		}
	}

	var cross CrossChecks
	cross.PaidSourcesWithNoQuoteSales, cross.PaidSourcesCount = UnattributedPaidSources(quoteSales, paidLeads)

	var quoteLogQuoted, quoteLogIssued int
	for _, r := range quoteSales {
		switch lower(r.Status) {
		case "quoted":
			quoteLogQuoted++
		case "issued":
			quoteLogIssued++
		}
	}
	for _, r := range activity {
		cross.ActivityTotalQuotes += r.TotalQuotes
		cross.ActivityTotalSales += r.TotalSales
	}
	cross.QuoteLogQuotes = quoteLogQuoted + quoteLogIssued
	cross.QuoteLogIssued = quoteLogIssued
	cross.QuotesDelta = int(math.Round(cross.ActivityTotalQuotes)) - cross.QuoteLogQuotes
	cross.SalesDelta = int(math.Round(cross.ActivityTotalSales)) - cross.QuoteLogIssued

	return DataHealth{Activity: ah, QuotesSales: qh, PaidLeads: ph, Cross: cross}
}
