package services

import (
	"context"
	"fmt"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
)

// RunLogService wraps a RunStore with the read paths the excluded UI
// needs: listing a graph's run history and fetching a single run.
// PRINCIPLES:
// - SRP: Run-log access only; writing happens inside the engine
// - DIP: Depends on the usecases.RunStore abstraction
type RunLogService struct {
	store usecases.RunStore
}

// NewRunLogService creates a run-log service.
func NewRunLogService(store usecases.RunStore) *RunLogService {
	return &RunLogService{store: store}
}

// Get returns a logged run.
func (s *RunLogService) Get(ctx context.Context, runID string) (*dto.RunResult, error) {
	result, err := s.store.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	return result, nil
}

// History returns the run ids logged for a graph.
func (s *RunLogService) History(ctx context.Context, graphID string) ([]string, error) {
	ids, err := s.store.List(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("list runs for graph %s: %w", graphID, err)
	}
	return ids, nil
}
