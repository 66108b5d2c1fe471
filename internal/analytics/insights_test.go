package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencypulse/agencypulse/internal/models"
)

func TestPercentile(t *testing.T) {
	vals := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 10.0, Percentile(vals, 0))
	assert.Equal(t, 30.0, Percentile(vals, 50))
	assert.Equal(t, 40.0, Percentile(vals, 75))
	assert.Equal(t, 20.0, Percentile(vals, 25))
	assert.Equal(t, 50.0, Percentile(vals, 100))
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 75))
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	vals := []float64{3, 1, 2}
	Percentile(vals, 50)
	assert.Equal(t, []float64{3, 1, 2}, vals)
}

func insightRows() []AgentRow {
	// Closer: top conversion on the fewest dials. Pitcher: most quotes but
	// weakest issuance. Steady: middle of the pack everywhere.
	return ComputeAgentRows(
		[]models.ActivityRecord{
			{AgentName: "Closer", Date: "2025-01-02", DialsMade: 20, ContactsMade: 10},
			{AgentName: "Pitcher", Date: "2025-01-02", DialsMade: 200, ContactsMade: 60},
			{AgentName: "Steady", Date: "2025-01-02", DialsMade: 100, ContactsMade: 25},
		},
		[]models.QuoteSaleRecord{
			{AgentName: "Closer", Date: "2025-01-02", Status: "issued", IssuedPremium: 900},
			{AgentName: "Closer", Date: "2025-01-02", Status: "issued", IssuedPremium: 700},
			{AgentName: "Pitcher", Date: "2025-01-02", Status: "quoted"},
			{AgentName: "Pitcher", Date: "2025-01-02", Status: "quoted"},
			{AgentName: "Pitcher", Date: "2025-01-02", Status: "quoted"},
			{AgentName: "Pitcher", Date: "2025-01-02", Status: "quoted"},
			{AgentName: "Steady", Date: "2025-01-02", Status: "quoted"},
			{AgentName: "Steady", Date: "2025-01-02", Status: "issued", IssuedPremium: 400},
		},
	)
}

func TestComputeAgentInsightsFlags(t *testing.T) {
	got := ComputeAgentInsights(insightRows(), models.DefaultGoalTargets())
	require.Len(t, got.ByAgent, 3)

	closer := got.ByAgent["Closer"]
	require.Len(t, closer.Flags, 1)
	assert.Equal(t, "high-conversion-low-volume", closer.Flags[0].Key)

	pitcher := got.ByAgent["Pitcher"]
	require.Len(t, pitcher.Flags, 1)
	assert.Equal(t, "high-quotes-low-issuance", pitcher.Flags[0].Key)

	steady := got.ByAgent["Steady"]
	require.Len(t, steady.Flags, 1)
	assert.Equal(t, "within-benchmark", steady.Flags[0].Key)
}

func TestComputeAgentInsightsBenchmarks(t *testing.T) {
	got := ComputeAgentInsights(insightRows(), models.DefaultGoalTargets())
	// 95 contacts over 320 dials, 5 quoted over 95 contacts
	assert.InDelta(t, 95.0/320.0, got.Benchmarks.ContactRate, 1e-12)
	assert.InDelta(t, 5.0/95.0, got.Benchmarks.PitchRate, 1e-12)
}

func TestCommentaryGatesOnVolume(t *testing.T) {
	rows := ComputeAgentRows(
		[]models.ActivityRecord{{AgentName: "Quiet", Date: "2025-01-02", DialsMade: 0, ContactsMade: 5}},
		nil,
	)
	got := ComputeAgentInsights(rows, models.DefaultGoalTargets())
	insight := got.ByAgent["Quiet"]
	// no dials: no contact-rate note; contacts exist: pitch note stays
	require.Len(t, insight.Commentary, 1)
	assert.Equal(t, "pitch-rate-gap", insight.Commentary[0].Key)
}

func TestCommentaryMentionsTargetAndLever(t *testing.T) {
	got := ComputeAgentInsights(insightRows(), models.DefaultGoalTargets())
	steady := got.ByAgent["Steady"]
	require.NotEmpty(t, steady.Commentary)

	var contact *Flag
	for i := range steady.Commentary {
		if steady.Commentary[i].Key == "contact-rate-gap" {
			contact = &steady.Commentary[i]
		}
	}
	require.NotNil(t, contact)
	// Steady's 25% contact rate beats the 10% default target
	assert.Contains(t, contact.Detail, "above the target (10.0%)")
	assert.False(t, strings.Contains(contact.Detail, "biggest lever"))
}

func TestCommentaryCoachingHintWhenBelowBoth(t *testing.T) {
	rows := ComputeAgentRows(
		[]models.ActivityRecord{
			{AgentName: "Low", Date: "2025-01-02", DialsMade: 100, ContactsMade: 2},
			{AgentName: "High", Date: "2025-01-02", DialsMade: 100, ContactsMade: 50},
		},
		nil,
	)
	got := ComputeAgentInsights(rows, models.DefaultGoalTargets())
	low := got.ByAgent["Low"]
	require.NotEmpty(t, low.Commentary)
	assert.Equal(t, "contact-rate-gap", low.Commentary[0].Key)
	// 2% sits below both the 26% agency average and the 10% target
	assert.Contains(t, low.Commentary[0].Detail, "below the agency average")
	assert.Contains(t, low.Commentary[0].Detail, "biggest lever")
}
