// Package store holds the session's uploaded datasets, column mappings, and
// goal targets in memory. Nothing persists past the process; a re-upload
// fully replaces the dataset it targets.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agencypulse/agencypulse/internal/models"
)

type SessionStore struct {
	mu       sync.RWMutex
	datasets map[models.DatasetKind]*models.RawDataset
	mappings map[models.DatasetKind]models.Mapping
	goals    models.GoalTargets
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		datasets: make(map[models.DatasetKind]*models.RawDataset),
		mappings: make(map[models.DatasetKind]models.Mapping),
		goals:    models.DefaultGoalTargets(),
	}
}

// PutDataset replaces the dataset of a kind wholesale and returns the stored
// copy with its upload id assigned. The previous mapping for the kind is
// kept; the caller decides whether it still fits the new headers.
func (s *SessionStore) PutDataset(kind models.DatasetKind, fileName string, headers []string, rows []map[string]string) models.RawDataset {
	ds := models.RawDataset{
		ID:         uuid.NewString(),
		FileName:   fileName,
		Headers:    headers,
		Rows:       rows,
		UploadedAt: time.Now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[kind] = &ds
	return ds
}

// Dataset returns the stored dataset for a kind, if uploaded.
func (s *SessionStore) Dataset(kind models.DatasetKind) (models.RawDataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[kind]
	if !ok {
		return models.RawDataset{}, false
	}
	return *ds, true
}

// SetMapping stores the column mapping for a kind.
func (s *SessionStore) SetMapping(kind models.DatasetKind, m models.Mapping) {
	cp := make(models.Mapping, len(m))
	for k, v := range m {
		cp[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[kind] = cp
}

// Mapping returns the stored mapping for a kind (possibly empty).
func (s *SessionStore) Mapping(kind models.DatasetKind) models.Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.Mapping, len(s.mappings[kind]))
	for k, v := range s.mappings[kind] {
		out[k] = v
	}
	return out
}

// SetGoals stores clamped goal targets.
func (s *SessionStore) SetGoals(g models.GoalTargets) models.GoalTargets {
	g = g.Clamped()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = g
	return g
}

// Goals returns the current goal targets.
func (s *SessionStore) Goals() models.GoalTargets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals
}

// Snapshot is one consistent view of everything an analysis pass needs.
type Snapshot struct {
	Datasets map[models.DatasetKind]models.RawDataset
	Mappings map[models.DatasetKind]models.Mapping
	Goals    models.GoalTargets
}

// Snapshot captures all three datasets, mappings, and goals under one read
// lock so cross-file aggregates see a consistent view even if an upload
// lands mid-request. Row slices are shared, never mutated after store.
func (s *SessionStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Datasets: make(map[models.DatasetKind]models.RawDataset, len(s.datasets)),
		Mappings: make(map[models.DatasetKind]models.Mapping, len(s.mappings)),
		Goals:    s.goals,
	}
	for kind, ds := range s.datasets {
		snap.Datasets[kind] = *ds
	}
	for kind, m := range s.mappings {
		cp := make(models.Mapping, len(m))
		for k, v := range m {
			cp[k] = v
		}
		snap.Mappings[kind] = cp
	}
	return snap
}

// Reset drops all datasets and mappings and restores default goals.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets = make(map[models.DatasetKind]*models.RawDataset)
	s.mappings = make(map[models.DatasetKind]models.Mapping)
	s.goals = models.DefaultGoalTargets()
}
