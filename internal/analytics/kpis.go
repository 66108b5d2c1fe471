package analytics

import "github.com/agencypulse/agencypulse/internal/models"

// CoreMetrics are the agency-level headline numbers.
type CoreMetrics struct {
	TotalIssuedPremium float64 `json:"total_issued_premium"`
	PoliciesIssued     int     `json:"policies_issued"`
	ConversionRate     float64 `json:"conversion_rate"`
	CostPerAcquisition float64 `json:"cost_per_acquisition"`
	PaidSpend          float64 `json:"paid_spend"`
	TotalDials         float64 `json:"total_dials"`
	PremiumPerDial     float64 `json:"premium_per_dial"`
}

// ComputeCoreMetrics derives the headline KPIs from filtered records.
// Conversion = issued / (quoted + issued); rows with any other status are
// excluded from both sides.
func ComputeCoreMetrics(activity []models.ActivityRecord, quoteSales []models.QuoteSaleRecord, paidLeads []models.PaidLeadRecord) CoreMetrics {
	var issued, quoted int
	var issuedPremium float64
	for _, r := range quoteSales {
		switch lower(r.Status) {
		case "issued":
			issued++
			issuedPremium += r.IssuedPremium
		case "quoted":
			quoted++
		}
	}

	var paidSpend float64
	for _, r := range paidLeads {
		paidSpend += r.LeadCount * r.LeadCost
	}

	var totalDials float64
	for _, r := range activity {
		totalDials += r.DialsMade
	}

	return CoreMetrics{
		TotalIssuedPremium: issuedPremium,
		PoliciesIssued:     issued,
		ConversionRate:     div(float64(issued), float64(issued+quoted)),
		CostPerAcquisition: div(paidSpend, float64(issued)),
		PaidSpend:          paidSpend,
		TotalDials:         totalDials,
		PremiumPerDial:     div(issuedPremium, totalDials),
	}
}
