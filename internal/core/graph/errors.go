// Package graph defines domain-specific errors
package graph

import "errors"

// Domain errors - defined once, used everywhere
var (
	// Graph errors
	ErrInvalidGraphID   = errors.New("invalid graph ID")
	ErrInvalidGraphName = errors.New("invalid graph name")
	ErrGraphNotFound    = errors.New("graph not found")
	ErrGraphLocked      = errors.New("graph is locked by a run in progress")
	ErrCycleDetected    = errors.New("cycle detected")

	// Node errors
	ErrNilTemplate   = errors.New("template cannot be nil")
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateNode = errors.New("duplicate node ID")

	// Edge errors
	ErrEdgeNotFound         = errors.New("edge not found")
	ErrDuplicateEdge        = errors.New("duplicate edge ID")
	ErrSourceNodeNotFound   = errors.New("source node not found")
	ErrTargetNodeNotFound   = errors.New("target node not found")
	ErrUnknownSourcePort    = errors.New("source node has no such output port")
	ErrUnknownTargetPort    = errors.New("target node has no such input port")
	ErrPortTypeMismatch     = errors.New("port data types do not match")
	ErrPortAlreadyConnected = errors.New("target input port already has an incoming edge")
)
