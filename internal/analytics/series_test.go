package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencypulse/agencypulse/internal/models"
	"github.com/agencypulse/agencypulse/internal/timeframe"
)

func TestIssuedPremiumSeriesDayBuckets(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		{AgentName: "Jane", Status: "Issued", Date: "2025-01-01", DateIssued: "2025-01-01", IssuedPremium: 100},
		{AgentName: "Jane", Status: "Issued", Date: "2025-01-03", DateIssued: "2025-01-03", IssuedPremium: 200},
		{AgentName: "Bob", Status: "Issued", Date: "2025-01-03", DateIssued: "2025-01-03", IssuedPremium: 500},
		{AgentName: "Jane", Status: "Quoted", Date: "2025-01-02", WrittenPremium: 999},
	}
	opts := SeriesOptions{
		Range:       mustRange(t, "2025-01-01", "2025-01-03"),
		Granularity: timeframe.Day,
		WeekStart:   time.Monday,
	}

	s := IssuedPremiumSeries(quoteSales, opts)
	require.Len(t, s.Buckets, 3)
	assert.Equal(t, timeframe.Day, s.Granularity)

	assert.Equal(t, 100.0, s.Buckets[0].Total)
	// quoted row contributes nothing
	assert.Equal(t, 0.0, s.Buckets[1].Total)
	assert.Equal(t, 700.0, s.Buckets[2].Total)
	assert.Equal(t, 500.0, s.Buckets[2].Totals["Bob"])
	assert.Equal(t, 200.0, s.Buckets[2].Totals["Jane"])

	// Bob's 500 beats Jane's 300 overall
	assert.Equal(t, []string{"Bob", "Jane"}, s.Agents)
}

func TestIssuedPolicySeriesCounts(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		{AgentName: "Jane", Status: "issued", Date: "2025-01-01", IssuedPremium: 100},
		{AgentName: "Jane", Status: "issued", Date: "2025-01-01", IssuedPremium: 9000},
	}
	opts := SeriesOptions{Granularity: timeframe.Day, WeekStart: time.Monday}
	s := IssuedPolicySeries(quoteSales, opts)
	require.Len(t, s.Buckets, 1)
	assert.Equal(t, 2.0, s.Buckets[0].Total)
}

func TestIssuedSeriesDerivesSpanWhenUnbounded(t *testing.T) {
	quoteSales := []models.QuoteSaleRecord{
		{AgentName: "Jane", Status: "issued", Date: "2025-03-05", IssuedPremium: 10},
		{AgentName: "Jane", Status: "issued", Date: "2025-03-09", IssuedPremium: 20},
	}
	s := IssuedPremiumSeries(quoteSales, SeriesOptions{Granularity: timeframe.Day, WeekStart: time.Monday})
	require.Len(t, s.Buckets, 5)
	assert.Equal(t, 10.0, s.Buckets[0].Total)
	assert.Equal(t, 20.0, s.Buckets[4].Total)
}

func TestIssuedSeriesEmptyInput(t *testing.T) {
	s := IssuedPremiumSeries(nil, SeriesOptions{})
	assert.Empty(t, s.Buckets)
	assert.Empty(t, s.Agents)
}

func TestIssuedSeriesAutoGranularityFromPreset(t *testing.T) {
	r := mustRange(t, "2025-01-01", "2025-03-31")
	s := IssuedPremiumSeries(nil, SeriesOptions{Mode: timeframe.Mode90d, Range: r})
	assert.Equal(t, timeframe.Week, s.Granularity)
}

func TestActivityFunnelSeries(t *testing.T) {
	activity := []models.ActivityRecord{
		{AgentName: "Jane", Date: "2025-01-06", DialsMade: 100, ContactsMade: 20, HouseholdsQuoted: 5, TotalSales: 1},
		{AgentName: "Bob", Date: "2025-01-07", DialsMade: 50, ContactsMade: 10},
		{AgentName: "Jane", Date: "2025-01-13", DialsMade: 80, ContactsMade: 16},
	}
	opts := SeriesOptions{
		Range:       mustRange(t, "2025-01-06", "2025-01-19"),
		Granularity: timeframe.Week,
		WeekStart:   time.Monday,
	}

	s := ActivityFunnelSeries(activity, opts)
	require.Len(t, s.Buckets, 2)
	assert.Equal(t, 150.0, s.Buckets[0].Dials)
	assert.Equal(t, 30.0, s.Buckets[0].Contacts)
	assert.Equal(t, 5.0, s.Buckets[0].HouseholdsQuoted)
	assert.Equal(t, 1.0, s.Buckets[0].Sales)
	assert.Equal(t, 80.0, s.Buckets[1].Dials)
}

func TestActivityFunnelSeriesSkipsBadDates(t *testing.T) {
	activity := []models.ActivityRecord{
		{AgentName: "Jane", Date: "2025-01-06", DialsMade: 10},
		{AgentName: "Jane", Date: "whenever", DialsMade: 999},
	}
	s := ActivityFunnelSeries(activity, SeriesOptions{
		Range:       mustRange(t, "2025-01-06", "2025-01-06"),
		Granularity: timeframe.Day,
		WeekStart:   time.Monday,
	})
	require.Len(t, s.Buckets, 1)
	assert.Equal(t, 10.0, s.Buckets[0].Dials)
}
