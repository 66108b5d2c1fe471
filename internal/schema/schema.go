// Package schema declares the canonical field layout of the three dataset
// kinds and the header-matching heuristics used to suggest column mappings.
package schema

import (
	"strings"

	"github.com/agencypulse/agencypulse/internal/models"
)

type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Schema struct {
	Kind           models.DatasetKind `json:"kind"`
	Label          string             `json:"label"`
	Description    string             `json:"description"`
	RequiredFields []Field            `json:"required_fields"`
	OptionalFields []Field            `json:"optional_fields,omitempty"`
	// NumericKeys are the canonical fields coerced to numbers on normalize.
	NumericKeys []string `json:"numeric_keys"`
}

var schemas = map[models.DatasetKind]Schema{
	models.KindActivity: {
		Kind:        models.KindActivity,
		Label:       "Activity Tracker",
		Description: "Daily activity totals by agent.",
		RequiredFields: []Field{
			{Key: "agent_name", Label: "Agent Name"},
			{Key: "date", Label: "Date"},
			{Key: "dials_made", Label: "Dials Made"},
			{Key: "contacts_made", Label: "Contacts Made"},
			{Key: "households_quoted", Label: "Households Quoted"},
			{Key: "total_quotes", Label: "Total Quotes"},
			{Key: "total_sales", Label: "Total Sales"},
		},
		NumericKeys: []string{"dials_made", "contacts_made", "households_quoted", "total_quotes", "total_sales"},
	},
	models.KindQuotesSales: {
		Kind:        models.KindQuotesSales,
		Label:       "Quotes & Sales Log",
		Description: "Each row is a policy quoted and/or issued.",
		RequiredFields: []Field{
			{Key: "agent_name", Label: "Agent Name"},
			{Key: "date", Label: "Date"},
			{Key: "policyholder", Label: "Policyholder"},
			{Key: "line_of_business", Label: "Line of Business"},
			{Key: "policy_type", Label: "Policy Type"},
			{Key: "business_type", Label: "Business Type"},
			{Key: "status", Label: "Status"},
			{Key: "lead_source", Label: "Lead Source"},
			{Key: "zipcode", Label: "Zipcode"},
			{Key: "written_premium", Label: "Written Premium"},
			{Key: "date_issued", Label: "Date Issued"},
			{Key: "issued_premium", Label: "Issued Premium"},
		},
		OptionalFields: []Field{
			{Key: "opportunity_id", Label: "Opportunity ID"},
			{Key: "customer_id", Label: "Customer ID"},
		},
		NumericKeys: []string{"written_premium", "issued_premium"},
	},
	models.KindPaidLeads: {
		Kind:        models.KindPaidLeads,
		Label:       "Paid Lead Source Info",
		Description: "Daily paid lead provider volume + costs.",
		RequiredFields: []Field{
			{Key: "date", Label: "Date"},
			{Key: "lead_source", Label: "Lead Source"},
			{Key: "lead_count", Label: "Count of Leads"},
			{Key: "lead_cost", Label: "Cost of Lead"},
		},
		NumericKeys: []string{"lead_count", "lead_cost"},
	},
}

var synonyms = map[string][]string{
	"agent_name": {"agent", "agent name", "producer", "rep", "employee", "advisor"},
	"date":       {"date", "day", "activity date", "written date", "quote date"},

	"dials_made":        {"dials", "calls", "outbound", "dialed", "call attempts"},
	"contacts_made":     {"contacts", "reached", "connects", "conversations"},
	"households_quoted": {"households quoted", "household quoted", "hh quoted", "households"},
	"total_quotes":      {"total quotes", "quotes", "quoted", "quote count"},
	"total_sales":       {"total sales", "sales", "policies sold", "sold", "issued count"},

	"policyholder":     {"policyholder", "insured", "named insured", "customer", "client"},
	"line_of_business": {"lob", "line of business", "line", "business line"},
	"policy_type":      {"policy type", "product", "coverage", "policy"},
	"business_type":    {"business type", "new or existing", "household type", "existing/new"},
	"status":           {"status", "stage", "quoted/issued", "disposition"},
	"lead_source":      {"lead source", "source", "origin", "channel", "provider"},
	"zipcode":          {"zip", "zipcode", "postal", "postal code"},
	"written_premium":  {"written premium", "quoted premium", "premium quoted", "quote premium", "written prem"},
	"date_issued":      {"date issued", "issue date", "issued date", "effective date"},
	"issued_premium":   {"issued premium", "final premium", "premium issued", "bound premium"},
	"opportunity_id":   {"opportunity id", "opportunity", "opp id"},
	"customer_id":      {"customer id", "client id", "account id"},

	"lead_count": {"count of leads", "lead count", "leads", "volume", "quantity"},
	"lead_cost":  {"cost per lead", "cpl", "lead cost", "cost of lead", "unit cost"},
}

// For returns the schema of a dataset kind.
func For(kind models.DatasetKind) (Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}

// All returns every schema in upload order.
func All() []Schema {
	out := make([]Schema, 0, len(schemas))
	for _, k := range models.Kinds() {
		out = append(out, schemas[k])
	}
	return out
}

// IsNumeric reports whether key is a numeric field of the schema.
func (s Schema) IsNumeric(key string) bool {
	for _, k := range s.NumericKeys {
		if k == key {
			return true
		}
	}
	return false
}

// MissingFields lists required fields the mapping leaves unmapped.
func (s Schema) MissingFields(m models.Mapping) []Field {
	var missing []Field
	for _, f := range s.RequiredFields {
		if strings.TrimSpace(m[f.Key]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

func normHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func scoreHeaderMatch(header, fieldKey, fieldLabel string) int {
	h := normHeader(header)
	if h == "" {
		return 0
	}
	if h == normHeader(fieldKey) {
		return 100
	}
	for _, syn := range synonyms[fieldKey] {
		s := normHeader(syn)
		if h == s {
			return 95
		}
		if strings.Contains(h, s) {
			return 85
		}
	}

	// token overlap with the field label
	labelTokens := map[string]bool{}
	for _, t := range strings.Fields(normHeader(fieldLabel)) {
		labelTokens[t] = true
	}
	overlap := 0
	for _, t := range strings.Fields(h) {
		if labelTokens[t] {
			overlap++
		}
	}
	if overlap > 0 {
		return 60 + overlap*8
	}

	switch {
	case strings.Contains(h, "date") && fieldKey == "date":
		return 70
	case (strings.Contains(h, "zip") || strings.Contains(h, "postal")) && fieldKey == "zipcode":
		return 70
	case strings.Contains(h, "premium") && (fieldKey == "written_premium" || fieldKey == "issued_premium"):
		return 65
	}
	return 0
}

// SuggestMapping proposes a header for each required field of the schema.
// A header is claimed by at most one field; fields with no confident match
// map to "".
func (s Schema) SuggestMapping(headers []string) models.Mapping {
	out := models.Mapping{}
	used := map[string]bool{}

	fields := append(append([]Field{}, s.RequiredFields...), s.OptionalFields...)
	for _, field := range fields {
		best, bestScore := "", 0
		for _, h := range headers {
			if score := scoreHeaderMatch(h, field.Key, field.Label); score > bestScore {
				best, bestScore = h, score
			}
		}
		if bestScore >= 60 && best != "" && !used[best] {
			out[field.Key] = best
			used[best] = true
		} else {
			out[field.Key] = ""
		}
	}
	return out
}
