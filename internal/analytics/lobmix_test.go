package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencypulse/agencypulse/internal/models"
	"github.com/agencypulse/agencypulse/internal/timeframe"
)

func TestComputeLOBMixSeriesGroupsByOpportunity(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		// one opportunity across two days still forms one cross-sell group
		{OpportunityID: "opp-1", Policyholder: "Acme", LineOfBusiness: "auto", Date: "2025-01-02"},
		{OpportunityID: "opp-1", Policyholder: "Acme", LineOfBusiness: "FIRE", Date: "2025-01-04"},
		// single-LOB group drops out
		{OpportunityID: "opp-2", Policyholder: "Beta", LineOfBusiness: "Auto", Date: "2025-01-03"},
	}
	s := ComputeLOBMixSeries(quoteSales, LOBMixOptions{Granularity: timeframe.Month, WeekStart: time.Monday})

	require.Len(t, s.Buckets, 1)
	b := s.Buckets[0]
	assert.Equal(t, "2025-01", b.Key)
	assert.Equal(t, 1, b.Counts["Auto"])
	assert.Equal(t, 1, b.Counts["Fire"])
	assert.Equal(t, 0, b.Counts["Life"])
	assert.Equal(t, 2, b.Total)
	assert.Equal(t, 0.5, b.Pct["Auto"])
	assert.Equal(t, []string{"Auto", "Fire", "Life", "Health"}, s.LOBs)
}

func TestComputeLOBMixSeriesCustomerDayFallback(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		// same policyholder, same day: one group with two LOBs
		{Policyholder: "Acme", LineOfBusiness: "Auto", Date: "2025-01-02"},
		{Policyholder: "Acme", LineOfBusiness: "Life", Date: "2025-01-02"},
		// same policyholder a week later: separate group, single LOB, dropped
		{Policyholder: "Acme", LineOfBusiness: "Fire", Date: "2025-01-09"},
	}
	s := ComputeLOBMixSeries(quoteSales, LOBMixOptions{Granularity: timeframe.Month, WeekStart: time.Monday})
	require.Len(t, s.Buckets, 1)
	assert.Equal(t, 2, s.Buckets[0].Total)
	assert.Equal(t, 1, s.Buckets[0].Counts["Auto"])
	assert.Equal(t, 1, s.Buckets[0].Counts["Life"])
	assert.Equal(t, 0, s.Buckets[0].Counts["Fire"])
}

func TestComputeLOBMixSeriesGroupWindow(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		{CustomerID: "c-1", Policyholder: "Acme", LineOfBusiness: "Auto", Date: "2025-01-02"},
		{CustomerID: "c-1", Policyholder: "Acme", LineOfBusiness: "Fire", Date: "2025-01-04"},
	}
	// same-day grouping splits these rows apart
	tight := ComputeLOBMixSeries(quoteSales, LOBMixOptions{Granularity: timeframe.Month, WeekStart: time.Monday})
	assert.Empty(t, tight.Buckets)

	// a wider window merges them into one multiline group
	wide := ComputeLOBMixSeries(quoteSales, LOBMixOptions{Granularity: timeframe.Month, WeekStart: time.Monday, GroupWindowDays: 30})
	require.Len(t, wide.Buckets, 1)
	assert.Equal(t, 2, wide.Buckets[0].Total)
}

func TestComputeLOBMixSeriesExtraLOBsAppend(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		{Policyholder: "Acme", LineOfBusiness: "Auto", Date: "2025-01-02"},
		{Policyholder: "Acme", LineOfBusiness: "Umbrella", Date: "2025-01-02"},
	}
	s := ComputeLOBMixSeries(quoteSales, LOBMixOptions{Granularity: timeframe.Month, WeekStart: time.Monday})
	assert.Equal(t, []string{"Auto", "Fire", "Life", "Health", "Umbrella"}, s.LOBs)
	require.Len(t, s.Buckets, 1)
	assert.Equal(t, 1, s.Buckets[0].Counts["Umbrella"])
}

func TestComputeLOBMixSeriesEarliestDateBuckets(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		{OpportunityID: "opp-1", LineOfBusiness: "Auto", Date: "2025-02-27"},
		{OpportunityID: "opp-1", LineOfBusiness: "Fire", Date: "2025-03-02"},
	}
	r := &timeframe.Range{
		Start: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
	}
	s := ComputeLOBMixSeries(quoteSales, LOBMixOptions{Granularity: timeframe.Month, WeekStart: time.Monday, Range: r})
	require.Len(t, s.Buckets, 2)
	// the group lands in February, its earliest date
	assert.Equal(t, 2, s.Buckets[0].Total)
	assert.Equal(t, 0, s.Buckets[1].Total)
}

func TestComputeLOBMixSeriesEmpty(t *testing.T) {
	s := ComputeLOBMixSeries(nil, LOBMixOptions{})
	assert.Empty(t, s.Buckets)
	assert.Equal(t, []string{"Auto", "Fire", "Life", "Health"}, s.LOBs)
}
