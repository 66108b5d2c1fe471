package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencypulse/agencypulse/internal/models"
)

func TestComputeLeadSourceROI(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		{LeadSource: "Acme Leads", Status: "Issued", IssuedPremium: 500},
		{LeadSource: "acme leads", Status: "Quoted", WrittenPremium: 300},
		{LeadSource: "Referral", Status: "Issued", IssuedPremium: 200},
	}
	paidLeads := []models.PaidLeadRecord{
		{LeadSource: "ACME LEADS!", LeadCount: 10, LeadCost: 5},
	}

	rows := ComputeLeadSourceROI(quoteSales, paidLeads)
	require.Len(t, rows, 2)

	// casing variants merge under one normalized key
	acme := rows[0]
	assert.Equal(t, 10.0, acme.Leads)
	assert.Equal(t, 50.0, acme.Spend)
	assert.Equal(t, 5.0, acme.SpendPerLead)
	assert.Equal(t, 1, acme.Quoted)
	assert.Equal(t, 1, acme.Issued)
	assert.Equal(t, 0.5, acme.Conversion)
	assert.Equal(t, 50.0, acme.CPA)
	assert.Equal(t, 500.0, acme.IssuedPremium)
	assert.Equal(t, 10.0, acme.PremiumPerSpend)

	// no spend means zero ROI, which sinks below the spending source
	assert.Equal(t, "Referral", rows[1].LeadSource)
	assert.Equal(t, 0.0, rows[1].PremiumPerSpend)
}

func TestDisplayNameMostFrequentCasing(t *testing.T) {
	rows := ComputeLeadSourceROI([]models.QuoteSaleRecord{
		{LeadSource: "Acme Leads", Status: "quoted"},
		{LeadSource: "Acme Leads", Status: "quoted"},
		{LeadSource: "ACME LEADS", Status: "quoted"},
	}, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme Leads", rows[0].LeadSource)
}

func TestBlankSourceGroupsUnderUnknown(t *testing.T) {
	rows := ComputeLeadSourceROI([]models.QuoteSaleRecord{
		{LeadSource: "   ", Status: "issued", IssuedPremium: 100},
		{LeadSource: "", Status: "quoted"},
	}, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0].LeadSource)
	assert.Equal(t, 2, rows[0].TotalQuotedOrIssued)
}

func TestFilterROIRowsPaidScope(t *testing.T) {
	rows := []ROIRow{
		{LeadSource: "Paid", Leads: 10, Spend: 50},
		{LeadSource: "Organic"},
		{LeadSource: "SpendOnly", Spend: 25},
	}
	paid := FilterROIRows(rows, ScopePaid)
	require.Len(t, paid, 2)
	assert.Equal(t, "Paid", paid[0].LeadSource)
	assert.Equal(t, "SpendOnly", paid[1].LeadSource)

	assert.Len(t, FilterROIRows(rows, ScopeAll), 3)
}

func TestSortROIRowsZeroSinks(t *testing.T) {
	rows := []ROIRow{
		{LeadSource: "NoSpend", PremiumPerSpend: 0, IssuedPremium: 9999},
		{LeadSource: "Mid", PremiumPerSpend: 4},
		{LeadSource: "Best", PremiumPerSpend: 12},
	}
	SortROIRows(rows, SortROI)
	assert.Equal(t, "Best", rows[0].LeadSource)
	assert.Equal(t, "Mid", rows[1].LeadSource)
	assert.Equal(t, "NoSpend", rows[2].LeadSource)
}

func TestSortROIRowsCPAZeroIsWorst(t *testing.T) {
	rows := []ROIRow{
		{LeadSource: "NoIssued", CPA: 0},
		{LeadSource: "Cheap", CPA: 20},
		{LeadSource: "Pricey", CPA: 80},
	}
	SortROIRows(rows, SortCPA)
	assert.Equal(t, "Cheap", rows[0].LeadSource)
	assert.Equal(t, "Pricey", rows[1].LeadSource)
	assert.Equal(t, "NoIssued", rows[2].LeadSource)
}

func TestSortROIRowsPremium(t *testing.T) {
	rows := []ROIRow{
		{LeadSource: "B", IssuedPremium: 100},
		{LeadSource: "A", IssuedPremium: 100},
		{LeadSource: "C", IssuedPremium: 500},
	}
	SortROIRows(rows, SortPremium)
	assert.Equal(t, "C", rows[0].LeadSource)
	assert.Equal(t, "A", rows[1].LeadSource)
	assert.Equal(t, "B", rows[2].LeadSource)
}

func TestComputeLeadSourceQuoteActivity(t *testing.T) {
	rows := ComputeLeadSourceQuoteActivity([]models.QuoteSaleRecord{
		{LeadSource: "Web", Status: "quoted"},
		{LeadSource: "web", Status: "issued"},
		{LeadSource: "Referral", Status: "quoted"},
		{LeadSource: ""},
	})
	require.Len(t, rows, 3)
	assert.Equal(t, "web", rows[0].Key)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "Referral", rows[1].LeadSource)
	assert.Equal(t, "unknown", rows[2].Key)
	assert.Equal(t, "Unknown", rows[2].LeadSource)
}

func TestUnattributedPaidSources(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		{LeadSource: "Acme Leads"},
		{LeadSource: "Web"},
	}
	paidLeads := []models.PaidLeadRecord{
		{LeadSource: "ACME LEADS"},
		{LeadSource: "Ghost Provider"},
		{LeadSource: "ghost provider"},
	}
	missing, total := UnattributedPaidSources(quoteSales, paidLeads)
	assert.Equal(t, 1, missing)
	assert.Equal(t, 2, total)
}
