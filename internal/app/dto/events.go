package dto

import "time"

// EventType identifies an engine lifecycle event.
type EventType string

const (
	EventNodeStarted   EventType = "node_started"
	EventNodeCompleted EventType = "node_completed"
	EventNodeFailed    EventType = "node_failed"
	EventRunFinished   EventType = "run_finished"
)

// Event is what the engine emits to the observing sink (the excluded UI
// log panel). Sinks observe only; they never mutate engine state.
type Event struct {
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	NodeID    string    `json:"node_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}
