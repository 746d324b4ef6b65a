package graph

import "errors"

// Common sentinel errors for store operations.
var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrEdgeNotFound    = errors.New("edge not found")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrEndpointMissing = errors.New("edge endpoint missing")
	ErrInvalidEntity   = errors.New("invalid entity type")
)
