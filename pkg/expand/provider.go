// Package expand executes transforms: it dispatches a transform id to its
// provider adapter, deduplicates calls through the TTL cache, and normalizes
// heterogeneous provider payloads into canonical nodes and edges positioned
// relative to the source node.
package expand

import (
	"context"
	"errors"

	"github.com/osintdash/graphkit/pkg/graph"
)

// Fact is one normalized unit of data yielded by a provider: the entity it
// describes plus open attributes. Adapters translate provider-specific JSON
// into Facts; the executor turns Facts into nodes and edges.
type Fact struct {
	Type       graph.EntityType
	Value      string
	Label      string
	Properties map[string]string
	Risk       *graph.RiskMetadata
}

// Provider is the single capability every adapter implements. New data
// sources are added by registering another Provider under a transform id,
// never by modifying the executor.
type Provider interface {
	Name() string
	Expand(ctx context.Context, value string) ([]Fact, error)
}

// Executor-level errors.
var (
	ErrUnknownTransform  = errors.New("unknown transform")
	ErrUnsupportedEntity = errors.New("transform does not support this entity type")
	ErrEmptyResult       = errors.New("no results from any provider")
	ErrBusy              = errors.New("a transform is already running")
)

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc struct {
	ProviderName string
	Fn           func(ctx context.Context, value string) ([]Fact, error)
}

func (p ProviderFunc) Name() string { return p.ProviderName }

func (p ProviderFunc) Expand(ctx context.Context, value string) ([]Fact, error) {
	return p.Fn(ctx, value)
}
