// Package services provides application services around the engine:
// event sinks for observers and a run-log service over the run stores.
package services

import (
	"context"
	"sync"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
	"github.com/flowcanvas/flowcanvas/internal/infrastructure/ctxlog"
)

// MemorySink collects events for inspection, typically by tests and the
// excluded UI log panel. Thread-safe.
type MemorySink struct {
	mu     sync.Mutex
	events []dto.Event
}

// NewMemorySink creates an empty collector.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Publish records the event.
func (s *MemorySink) Publish(event dto.Event) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

// Events returns a copy of everything published so far.
func (s *MemorySink) Events() []dto.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dto.Event(nil), s.events...)
}

// SlogSink forwards events to a context-independent logger.
type SlogSink struct {
	ctx context.Context
}

// NewSlogSink creates a sink logging through the logger carried by ctx.
func NewSlogSink(ctx context.Context) *SlogSink {
	return &SlogSink{ctx: ctx}
}

// Publish logs the event.
func (s *SlogSink) Publish(event dto.Event) {
	ctxlog.FromContext(s.ctx).Info("engine event",
		"type", event.Type, "run_id", event.RunID, "node_id", event.NodeID, "detail", event.Detail)
}

// MultiSink fans events out to several sinks in order.
type MultiSink []usecases.EventSink

// Publish forwards to every sink.
func (m MultiSink) Publish(event dto.Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(event)
		}
	}
}
