package analytics

import (
	"sort"

	"github.com/agencypulse/agencypulse/internal/models"
)

// AgentRow is one agent's rollup: raw totals from both files plus derived
// efficiency and multiline cross-sell metrics.
type AgentRow struct {
	Agent string `json:"agent"`

	// activity file totals
	Dials          float64 `json:"dials"`
	Contacts       float64 `json:"contacts"`
	ActivityQuotes float64 `json:"activity_quotes"`
	ActivitySales  float64 `json:"activity_sales"`

	// quote log totals
	Quotes         int     `json:"quotes"`
	Issued         int     `json:"issued"`
	WrittenPremium float64 `json:"written_premium"`
	IssuedPremium  float64 `json:"issued_premium"`

	ConversionRate      float64 `json:"conversion_rate"`
	ContactRate         float64 `json:"contact_rate"`
	QuotesPerContact    float64 `json:"quotes_per_contact"`
	IssuedPerContact    float64 `json:"issued_per_contact"`
	IssuedPer100Dials   float64 `json:"issued_per_100_dials"`
	QuotesPer100Dials   float64 `json:"quotes_per_100_dials"`
	ContactsPer100Dials float64 `json:"contacts_per_100_dials"`

	IssuedPremPerDial    float64 `json:"issued_prem_per_dial"`
	IssuedPremPerContact float64 `json:"issued_prem_per_contact"`
	IssuedPremPerIssued  float64 `json:"issued_prem_per_issued"`

	UniquePolicyholders         int     `json:"unique_policyholders"`
	MultilinePitchPolicyholders int     `json:"multiline_pitch_policyholders"`
	MultilinePitchRate          float64 `json:"multiline_pitch_rate"`
	MultilineConversionRate     float64 `json:"multiline_conversion_rate"`
	AttachRate                  float64 `json:"attach_rate"`
	// MultilineLift is nil when either the multiline or single-line side has
	// no issued policyholders to average over.
	MultilineLift *float64 `json:"multiline_lift"`
}

type agentAcc struct {
	row AgentRow

	policyholders map[string]bool
	// policyholder -> quote date -> distinct LOBs pitched that day
	dateLOBs map[string]map[string]map[string]bool

	issuedCount   map[string]int
	issuedPremium map[string]float64
}

// ComputeAgentRows groups both files by agent name (blank -> "Unknown") and
// derives the per-agent rollup, sorted by issued premium descending.
func ComputeAgentRows(activity []models.ActivityRecord, quoteSales []models.QuoteSaleRecord) []AgentRow {
	byAgent := map[string]*agentAcc{}
	get := func(name string) *agentAcc {
		key := agentKey(name)
		a, ok := byAgent[key]
		if !ok {
			a = &agentAcc{
				row:           AgentRow{Agent: key},
				policyholders: map[string]bool{},
				dateLOBs:      map[string]map[string]map[string]bool{},
				issuedCount:   map[string]int{},
				issuedPremium: map[string]float64{},
			}
			byAgent[key] = a
		}
		return a
	}

	for _, r := range activity {
		a := get(r.AgentName)
		a.row.Dials += r.DialsMade
		a.row.Contacts += r.ContactsMade
		a.row.ActivityQuotes += r.TotalQuotes
		a.row.ActivitySales += r.TotalSales
	}

	for _, r := range quoteSales {
		a := get(r.AgentName)
		st := lower(r.Status)
		if st == "quoted" {
			a.row.Quotes++
		}
		if st == "issued" {
			a.row.Issued++
		}
		a.row.WrittenPremium += r.WrittenPremium
		a.row.IssuedPremium += r.IssuedPremium

		ph := r.Policyholder
		if ph == "" {
			continue
		}
		a.policyholders[ph] = true
		if r.Date != "" {
			days, ok := a.dateLOBs[ph]
			if !ok {
				days = map[string]map[string]bool{}
				a.dateLOBs[ph] = days
			}
			lobs, ok := days[r.Date]
			if !ok {
				lobs = map[string]bool{}
				days[r.Date] = lobs
			}
			if r.LineOfBusiness != "" {
				lobs[r.LineOfBusiness] = true
			}
		}
		if st == "issued" {
			a.issuedCount[ph]++
			a.issuedPremium[ph] += r.IssuedPremium
		}
	}

	rows := make([]AgentRow, 0, len(byAgent))
	for _, a := range byAgent {
		rows = append(rows, finishAgent(a))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].IssuedPremium != rows[j].IssuedPremium {
			return rows[i].IssuedPremium > rows[j].IssuedPremium
		}
		return rows[i].Agent < rows[j].Agent
	})
	return rows
}

func finishAgent(a *agentAcc) AgentRow {
	row := a.row

	var multilinePitchDays, totalPolicyholderDays int
	var multilinePitchAndIssued int
	var multiIssuedPHs, singleIssuedPHs int
	var multiIssuedPremium, singleIssuedPremium float64
	multilinePitchPHs := map[string]bool{}

	for ph, days := range a.dateLOBs {
		hasMultilinePitch := false
		for _, lobs := range days {
			totalPolicyholderDays++
			if len(lobs) >= 2 {
				multilinePitchDays++
				hasMultilinePitch = true
			}
		}
		if hasMultilinePitch {
			multilinePitchPHs[ph] = true
		}

		issued := a.issuedCount[ph]
		if issued > 1 {
			multiIssuedPHs++
			multiIssuedPremium += a.issuedPremium[ph]
		} else if issued == 1 {
			singleIssuedPHs++
			singleIssuedPremium += a.issuedPremium[ph]
		}
		if hasMultilinePitch && issued > 1 {
			multilinePitchAndIssued++
		}
	}

	row.UniquePolicyholders = len(a.policyholders)
	row.MultilinePitchPolicyholders = len(multilinePitchPHs)
	row.MultilinePitchRate = div(float64(multilinePitchDays), float64(totalPolicyholderDays))
	row.MultilineConversionRate = div(float64(multilinePitchAndIssued), float64(len(multilinePitchPHs)))
	row.AttachRate = div(float64(row.Issued), float64(len(a.issuedCount)))
	if multiIssuedPHs > 0 && singleIssuedPHs > 0 {
		lift := multiIssuedPremium/float64(multiIssuedPHs) - singleIssuedPremium/float64(singleIssuedPHs)
		row.MultilineLift = &lift
	}

	quotedOrIssued := float64(row.Quotes + row.Issued)
	row.ConversionRate = div(float64(row.Issued), quotedOrIssued)
	row.ContactRate = div(row.Contacts, row.Dials)
	row.QuotesPerContact = div(float64(row.Quotes), row.Contacts)
	row.IssuedPerContact = div(float64(row.Issued), row.Contacts)
	row.IssuedPer100Dials = per100(float64(row.Issued), row.Dials)
	row.QuotesPer100Dials = per100(float64(row.Quotes), row.Dials)
	row.ContactsPer100Dials = per100(row.Contacts, row.Dials)
	row.IssuedPremPerDial = div(row.IssuedPremium, row.Dials)
	row.IssuedPremPerContact = div(row.IssuedPremium, row.Contacts)
	row.IssuedPremPerIssued = div(row.IssuedPremium, float64(row.Issued))
	return row
}
