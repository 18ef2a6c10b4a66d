// Package template defines domain-specific errors
package template

import "errors"

var (
	ErrUnknownTemplateKind = errors.New("unknown template kind")
	ErrInvalidKind         = errors.New("invalid template kind")
	ErrInvalidLabel        = errors.New("invalid template label")
	ErrInvalidPort         = errors.New("invalid port declaration")
	ErrDuplicatePort       = errors.New("duplicate port name")
	ErrDuplicateKind       = errors.New("template kind already registered")
	ErrNilTemplate         = errors.New("template cannot be nil")
)
