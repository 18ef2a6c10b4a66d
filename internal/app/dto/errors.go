package dto

import "errors"

// Run errors
var (
	ErrNilGraph        = errors.New("graph cannot be nil")
	ErrGraphInvalid    = errors.New("graph failed validation")
	ErrRunNotFound     = errors.New("run not found")
	ErrRunCancelled    = errors.New("run cancelled between node executions")
	ErrMissingHandler  = errors.New("no handler registered for node kind")
	ErrNilCollaborator = errors.New("required collaborator is nil")
)
