package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencypulse/agencypulse/internal/models"
)

func TestPutDatasetReplacesWholesale(t *testing.T) {
	s := NewSessionStore()

	first := s.PutDataset(models.KindActivity, "jan.csv", []string{"Agent"}, []map[string]string{{"Agent": "Jane"}})
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.UploadedAt.IsZero())

	second := s.PutDataset(models.KindActivity, "feb.csv", []string{"Agent"}, []map[string]string{{"Agent": "Bob"}, {"Agent": "Ann"}})
	assert.NotEqual(t, first.ID, second.ID)

	got, ok := s.Dataset(models.KindActivity)
	require.True(t, ok)
	assert.Equal(t, "feb.csv", got.FileName)
	assert.Len(t, got.Rows, 2)
}

func TestDatasetMissing(t *testing.T) {
	s := NewSessionStore()
	_, ok := s.Dataset(models.KindPaidLeads)
	assert.False(t, ok)
}

func TestMappingRoundTripCopies(t *testing.T) {
	s := NewSessionStore()
	m := models.Mapping{"agent_name": "Agent"}
	s.SetMapping(models.KindActivity, m)

	// mutating the caller's map must not leak into the store
	m["agent_name"] = "Altered"
	got := s.Mapping(models.KindActivity)
	assert.Equal(t, "Agent", got["agent_name"])

	// nor should mutating the returned copy
	got["agent_name"] = "AlsoAltered"
	assert.Equal(t, "Agent", s.Mapping(models.KindActivity)["agent_name"])
}

func TestGoalsDefaultAndClamp(t *testing.T) {
	s := NewSessionStore()
	assert.Equal(t, models.DefaultGoalTargets(), s.Goals())

	stored := s.SetGoals(models.GoalTargets{ContactRatePct: 150, QuoteRatePct: -3, CallsPerDay: 120})
	assert.Equal(t, 100.0, stored.ContactRatePct)
	assert.Equal(t, 0.0, stored.QuoteRatePct)
	assert.Equal(t, 120.0, stored.CallsPerDay)
	assert.Equal(t, stored, s.Goals())
}

func TestSnapshotIsConsistentView(t *testing.T) {
	s := NewSessionStore()
	s.PutDataset(models.KindActivity, "a.csv", []string{"Agent"}, nil)
	s.PutDataset(models.KindQuotesSales, "q.csv", []string{"Status"}, nil)
	s.SetMapping(models.KindActivity, models.Mapping{"agent_name": "Agent"})

	snap := s.Snapshot()
	assert.Len(t, snap.Datasets, 2)
	assert.Equal(t, "a.csv", snap.Datasets[models.KindActivity].FileName)
	assert.Equal(t, "Agent", snap.Mappings[models.KindActivity]["agent_name"])
	assert.Equal(t, models.DefaultGoalTargets(), snap.Goals)

	// later writes do not rewrite an already-taken snapshot
	s.SetMapping(models.KindActivity, models.Mapping{"agent_name": "Other"})
	assert.Equal(t, "Agent", snap.Mappings[models.KindActivity]["agent_name"])
}

func TestReset(t *testing.T) {
	s := NewSessionStore()
	s.PutDataset(models.KindActivity, "a.csv", nil, nil)
	s.SetMapping(models.KindActivity, models.Mapping{"agent_name": "Agent"})
	s.SetGoals(models.GoalTargets{ContactRatePct: 50})

	s.Reset()
	_, ok := s.Dataset(models.KindActivity)
	assert.False(t, ok)
	assert.Empty(t, s.Mapping(models.KindActivity))
	assert.Equal(t, models.DefaultGoalTargets(), s.Goals())
}
