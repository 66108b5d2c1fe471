package models

import "time"

// DatasetKind identifies one of the three uploads the engine works over.
type DatasetKind string

const (
	KindActivity    DatasetKind = "activity"
	KindQuotesSales DatasetKind = "quotesSales"
	KindPaidLeads   DatasetKind = "paidLeads"
)

// Kinds lists every dataset kind in upload order.
func Kinds() []DatasetKind {
	return []DatasetKind{KindActivity, KindQuotesSales, KindPaidLeads}
}

// RawDataset is a parsed CSV as uploaded: rows keyed by original header.
type RawDataset struct {
	ID         string              `json:"id"`
	FileName   string              `json:"file_name"`
	Headers    []string            `json:"headers"`
	Rows       []map[string]string `json:"rows"`
	UploadedAt time.Time           `json:"uploaded_at"`
}

// Mapping maps canonical field keys to original CSV headers. An empty
// header means the field is unmapped and normalizes to blank/zero.
type Mapping map[string]string

// ActivityRecord is one normalized row of the daily activity tracker.
// Numeric fields keep the original cell text alongside the coerced value so
// health diagnostics can tell blank from non-numeric from negative.
type ActivityRecord struct {
	AgentName string `json:"agent_name"`
	Date      string `json:"date"`

	DialsMade        float64 `json:"dials_made"`
	ContactsMade     float64 `json:"contacts_made"`
	HouseholdsQuoted float64 `json:"households_quoted"`
	TotalQuotes      float64 `json:"total_quotes"`
	TotalSales       float64 `json:"total_sales"`

	DialsMadeRaw        string `json:"-"`
	ContactsMadeRaw     string `json:"-"`
	HouseholdsQuotedRaw string `json:"-"`
	TotalQuotesRaw      string `json:"-"`
	TotalSalesRaw       string `json:"-"`
}

// QuoteSaleRecord is one normalized row of the quotes & sales log.
type QuoteSaleRecord struct {
	AgentName      string `json:"agent_name"`
	Date           string `json:"date"`
	Policyholder   string `json:"policyholder"`
	LineOfBusiness string `json:"line_of_business"`
	PolicyType     string `json:"policy_type"`
	BusinessType   string `json:"business_type"`
	Status         string `json:"status"`
	LeadSource     string `json:"lead_source"`
	Zipcode        string `json:"zipcode"`
	DateIssued     string `json:"date_issued"`

	// Optional cross-sell grouping ids; blank when the export has none.
	OpportunityID string `json:"opportunity_id"`
	CustomerID    string `json:"customer_id"`

	WrittenPremium float64 `json:"written_premium"`
	IssuedPremium  float64 `json:"issued_premium"`

	WrittenPremiumRaw string `json:"-"`
	IssuedPremiumRaw  string `json:"-"`
}

// PaidLeadRecord is one normalized row of the paid lead spend file.
// LeadCost is the per-lead unit cost.
type PaidLeadRecord struct {
	Date       string `json:"date"`
	LeadSource string `json:"lead_source"`

	LeadCount float64 `json:"lead_count"`
	LeadCost  float64 `json:"lead_cost"`

	LeadCountRaw string `json:"-"`
	LeadCostRaw  string `json:"-"`
}

// GoalTargets are the user-configured performance targets. Rate targets are
// whole percentages (0-100); volume targets are daily counts.
type GoalTargets struct {
	ContactRatePct         float64 `json:"contact_rate_target_pct"`
	QuoteRatePct           float64 `json:"quote_rate_target_pct"`
	IssueRatePct           float64 `json:"issue_rate_target_pct"`
	CallsPerDay            float64 `json:"calls_per_day_target"`
	HouseholdsQuotedPerDay float64 `json:"households_quoted_per_day_target"`
}

// DefaultGoalTargets returns the out-of-the-box targets.
func DefaultGoalTargets() GoalTargets {
	return GoalTargets{
		ContactRatePct:         10,
		QuoteRatePct:           30,
		IssueRatePct:           35,
		CallsPerDay:            150,
		HouseholdsQuotedPerDay: 6,
	}
}

// Clamped returns a copy with every target forced into its legal range:
// rate targets into [0, 100], volume targets to >= 0.
func (g GoalTargets) Clamped() GoalTargets {
	g.ContactRatePct = clampPct(g.ContactRatePct)
	g.QuoteRatePct = clampPct(g.QuoteRatePct)
	g.IssueRatePct = clampPct(g.IssueRatePct)
	g.CallsPerDay = clampNonNeg(g.CallsPerDay)
	g.HouseholdsQuotedPerDay = clampNonNeg(g.HouseholdsQuotedPerDay)
	return g
}

func clampPct(v float64) float64 {
	if v != v || v < 0 { // NaN counts as unset
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampNonNeg(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	return v
}
