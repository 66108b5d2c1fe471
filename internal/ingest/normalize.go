package ingest

import (
	"strconv"
	"strings"

	"github.com/agencypulse/agencypulse/internal/models"
)

// ParseNumber coerces a cell to a float, stripping currency symbols and
// thousands separators. ok=false means the cell is non-numeric (distinct
// from blank, which callers check first); the value is always usable as a
// zero-contribution in aggregates.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func cell(row map[string]string, mapping models.Mapping, key string) string {
	col := mapping[key]
	if col == "" {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func numCell(row map[string]string, mapping models.Mapping, key string) (float64, string) {
	raw := cell(row, mapping, key)
	n, _ := ParseNumber(raw)
	return n, raw
}

// NormalizeActivity projects raw activity rows into canonical records.
// Unmapped fields come out blank/zero; bad numerics coerce to zero and keep
// their raw text for health diagnostics.
func NormalizeActivity(rows []map[string]string, mapping models.Mapping) []models.ActivityRecord {
	out := make([]models.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.ActivityRecord{
			AgentName: cell(row, mapping, "agent_name"),
			Date:      cell(row, mapping, "date"),
		}
		rec.DialsMade, rec.DialsMadeRaw = numCell(row, mapping, "dials_made")
		rec.ContactsMade, rec.ContactsMadeRaw = numCell(row, mapping, "contacts_made")
		rec.HouseholdsQuoted, rec.HouseholdsQuotedRaw = numCell(row, mapping, "households_quoted")
		rec.TotalQuotes, rec.TotalQuotesRaw = numCell(row, mapping, "total_quotes")
		rec.TotalSales, rec.TotalSalesRaw = numCell(row, mapping, "total_sales")
		out = append(out, rec)
	}
	return out
}

// NormalizeQuoteSales projects raw quote/sale rows into canonical records.
func NormalizeQuoteSales(rows []map[string]string, mapping models.Mapping) []models.QuoteSaleRecord {
	out := make([]models.QuoteSaleRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.QuoteSaleRecord{
			AgentName:      cell(row, mapping, "agent_name"),
			Date:           cell(row, mapping, "date"),
			Policyholder:   cell(row, mapping, "policyholder"),
			LineOfBusiness: cell(row, mapping, "line_of_business"),
			PolicyType:     cell(row, mapping, "policy_type"),
			BusinessType:   cell(row, mapping, "business_type"),
			Status:         cell(row, mapping, "status"),
			LeadSource:     cell(row, mapping, "lead_source"),
			Zipcode:        cell(row, mapping, "zipcode"),
			DateIssued:     cell(row, mapping, "date_issued"),
			OpportunityID:  cell(row, mapping, "opportunity_id"),
			CustomerID:     cell(row, mapping, "customer_id"),
		}
		rec.WrittenPremium, rec.WrittenPremiumRaw = numCell(row, mapping, "written_premium")
		rec.IssuedPremium, rec.IssuedPremiumRaw = numCell(row, mapping, "issued_premium")
		out = append(out, rec)
	}
	return out
}

// NormalizePaidLeads projects raw paid-lead rows into canonical records.
func NormalizePaidLeads(rows []map[string]string, mapping models.Mapping) []models.PaidLeadRecord {
	out := make([]models.PaidLeadRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.PaidLeadRecord{
			Date:       cell(row, mapping, "date"),
			LeadSource: cell(row, mapping, "lead_source"),
		}
		rec.LeadCount, rec.LeadCountRaw = numCell(row, mapping, "lead_count")
		rec.LeadCost, rec.LeadCostRaw = numCell(row, mapping, "lead_cost")
		out = append(out, rec)
	}
	return out
}
