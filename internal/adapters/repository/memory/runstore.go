// Package memory provides an in-memory run store, the default run log for
// local usage and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
)

// RunStore keeps run results in a map. Thread-safe.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*dto.RunResult
}

// NewRunStore creates an empty store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*dto.RunResult)}
}

// Save logs a run result.
func (s *RunStore) Save(ctx context.Context, result *dto.RunResult) error {
	if result == nil || result.RunID == "" {
		return dto.ErrRunNotFound
	}
	s.mu.Lock()
	s.runs[result.RunID] = result
	s.mu.Unlock()
	return nil
}

// Get returns a logged run.
func (s *RunStore) Get(ctx context.Context, runID string) (*dto.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil, dto.ErrRunNotFound
	}
	return r, nil
}

// List returns the run ids for a graph, ordered by start time then id.
func (s *RunStore) List(ctx context.Context, graphID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*dto.RunResult, 0, len(s.runs))
	for _, r := range s.runs {
		if r.GraphID == graphID {
			matches = append(matches, r)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].StartTime.Equal(matches[j].StartTime) {
			return matches[i].StartTime.Before(matches[j].StartTime)
		}
		return matches[i].RunID < matches[j].RunID
	})
	ids := make([]string, len(matches))
	for i, r := range matches {
		ids[i] = r.RunID
	}
	return ids, nil
}
