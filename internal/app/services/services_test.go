package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcanvas/flowcanvas/internal/adapters/repository/memory"
	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/app/services"
	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
)

func TestMemorySink(t *testing.T) {
	sink := services.NewMemorySink()
	assert.Empty(t, sink.Events())

	sink.Publish(dto.Event{Type: dto.EventNodeStarted, RunID: "r1", NodeID: "a"})
	sink.Publish(dto.Event{Type: dto.EventRunFinished, RunID: "r1"})

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, dto.EventNodeStarted, events[0].Type)
	assert.Equal(t, dto.EventRunFinished, events[1].Type)

	t.Run("returned slice is a copy", func(t *testing.T) {
		events[0].RunID = "mutated"
		assert.Equal(t, "r1", sink.Events()[0].RunID)
	})
}

func TestMultiSink(t *testing.T) {
	first := services.NewMemorySink()
	second := services.NewMemorySink()
	multi := services.MultiSink{first, nil, second}

	multi.Publish(dto.Event{Type: dto.EventNodeCompleted, RunID: "r1", NodeID: "a"})

	require.Len(t, first.Events(), 1)
	require.Len(t, second.Events(), 1)
	assert.Equal(t, "a", second.Events()[0].NodeID)
}

func TestRunLogService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	svc := services.NewRunLogService(store)

	result := &dto.RunResult{
		RunID:     "r1",
		GraphID:   "g1",
		Status:    dto.RunStatusSuccess,
		StartTime: time.Now(),
	}
	require.NoError(t, store.Save(ctx, result))

	t.Run("get", func(t *testing.T) {
		got, err := svc.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, dto.RunStatusSuccess, got.Status)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := svc.Get(ctx, "nope")
		assert.ErrorIs(t, err, dto.ErrRunNotFound)
	})

	t.Run("history", func(t *testing.T) {
		ids, err := svc.History(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, []string{"r1"}, ids)
	})
}

var _ usecases.EventSink = services.MultiSink{}
