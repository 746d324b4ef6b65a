package expand

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osintdash/graphkit/pkg/cache"
	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/logging"
	"github.com/osintdash/graphkit/pkg/pubsub"
	"github.com/osintdash/graphkit/pkg/transform"
)

// Metrics is what the executor records about its work. Satisfied by
// *metrics.Registry; nil disables recording.
type Metrics interface {
	Observer
	RecordTransform(transformID, status string, duration time.Duration)
	RecordCacheLookup(hit bool)
}

// FanOut controls where a batch of produced nodes lands relative to its
// source: a fixed horizontal offset plus vertical spacing proportional to
// the node's index within the batch, so siblings never overlap.
type FanOut struct {
	DX      float64
	Spacing float64
}

// DefaultFanOut is the standard result placement.
var DefaultFanOut = FanOut{DX: 220, Spacing: 70}

// Result is what one transform invocation produced: new nodes plus one
// synthesized edge from the source to each of them.
type Result struct {
	Nodes []*graph.Node
	Edges []*graph.Edge
}

// Options configures an Executor.
type Options struct {
	Cache   *cache.TTLCache // required
	Logger  logging.Logger  // nil for silent
	Metrics Metrics         // nil to disable
	Events  *pubsub.Bus     // nil to disable
	FanOut  FanOut          // zero value means DefaultFanOut
}

// Executor runs transforms against registered provider adapters.
type Executor struct {
	providers map[string]Provider
	cache     *cache.TTLCache
	logger    logging.Logger
	metrics   Metrics
	events    *pubsub.Bus
	fanOut    FanOut

	// busy gates starting a second transform while one is in flight. It
	// only guards transform execution; panning, zooming and selection stay
	// responsive because they never pass through the executor.
	busy atomic.Bool
}

// NewExecutor creates an executor with no providers registered.
func NewExecutor(opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	fanOut := opts.FanOut
	if fanOut.DX == 0 && fanOut.Spacing == 0 {
		fanOut = DefaultFanOut
	}
	return &Executor{
		providers: make(map[string]Provider),
		cache:     opts.Cache,
		logger:    logger.With(logging.Component("executor")),
		metrics:   opts.Metrics,
		events:    opts.Events,
		fanOut:    fanOut,
	}
}

// Register binds a provider adapter to a transform id, replacing any
// previous binding.
func (e *Executor) Register(transformID string, provider Provider) {
	e.providers[transformID] = provider
}

// Busy reports whether a transform is currently in flight.
func (e *Executor) Busy() bool {
	return e.busy.Load()
}

// ExecuteTransform expands the source node via the provider registered for
// transformID. The cache is consulted first under (transformID,
// source.Value); on a hit no provider is called. Zero facts after the whole
// provider chain settles is a failure (ErrEmptyResult), never a silent
// empty success. Node and edge ids are generated fresh on every call, so
// results from a stale invocation can always be applied safely.
func (e *Executor) ExecuteTransform(ctx context.Context, transformID string, source *graph.Node) (*Result, error) {
	desc := transform.Get(transformID)
	if desc == nil {
		return nil, fmt.Errorf("%q: %w", transformID, ErrUnknownTransform)
	}
	if !desc.Supports(source.Type) {
		return nil, fmt.Errorf("%s on %s node: %w", transformID, source.Type, ErrUnsupportedEntity)
	}
	provider, ok := e.providers[transformID]
	if !ok {
		return nil, fmt.Errorf("%q has no provider: %w", transformID, ErrUnknownTransform)
	}

	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.busy.Store(false)

	start := time.Now()
	e.publish(pubsub.TransformEvent{TransformID: transformID, SourceID: source.ID, Status: "started"})

	facts, cached, err := e.lookup(ctx, desc, provider, source.Value)
	if err != nil {
		e.settle(desc, source, "error", start)
		return nil, err
	}
	if len(facts) == 0 {
		e.settle(desc, source, "empty", start)
		return nil, fmt.Errorf("%s(%s): %w", transformID, source.Value, ErrEmptyResult)
	}

	result := e.normalize(desc, source, facts)
	e.settle(desc, source, "ok", start)
	e.logger.Info("transform complete",
		logging.Transform(transformID),
		logging.Count(len(result.Nodes)),
		logging.Bool("cached", cached),
		logging.Latency(time.Since(start)))
	return result, nil
}

// lookup returns the facts for (transform, value), via cache when possible.
func (e *Executor) lookup(ctx context.Context, desc *transform.Descriptor, provider Provider, value string) ([]Fact, bool, error) {
	key := desc.ID + "|" + value

	if hit, ok := e.cache.Get(key); ok {
		// A value of the wrong type cannot be served, so it counts as a miss.
		if facts, ok := hit.([]Fact); ok {
			e.recordCache(true)
			return facts, true, nil
		}
	}
	e.recordCache(false)

	facts, err := provider.Expand(ctx, value)
	if err != nil {
		return nil, false, err
	}
	if len(facts) > 0 {
		e.cache.Set(key, facts, desc.CacheTTL)
	}
	return facts, false, nil
}

// normalize maps facts to nodes fanned out from the source, and synthesizes
// one edge per node labeled with the transform's display name. Fresh ids
// are minted here even for cached facts, so ids never collide across calls.
func (e *Executor) normalize(desc *transform.Descriptor, source *graph.Node, facts []Fact) *Result {
	result := &Result{
		Nodes: make([]*graph.Node, 0, len(facts)),
		Edges: make([]*graph.Edge, 0, len(facts)),
	}
	for i, fact := range facts {
		node := graph.NewNode(fact.Type, fact.Value, fact.Label)
		for k, v := range fact.Properties {
			node.Properties[k] = v
		}
		if fact.Risk != nil {
			risk := *fact.Risk
			node.Risk = &risk
		}
		node.Position = graph.Position{
			X: source.Position.X + e.fanOut.DX,
			Y: source.Position.Y + float64(i)*e.fanOut.Spacing,
		}

		result.Nodes = append(result.Nodes, node)
		result.Edges = append(result.Edges, &graph.Edge{
			ID:          uuid.NewString(),
			SourceID:    source.ID,
			TargetID:    node.ID,
			Label:       desc.Name,
			TransformID: desc.ID,
			Weight:      1,
		})
	}
	return result
}

func (e *Executor) settle(desc *transform.Descriptor, source *graph.Node, status string, start time.Time) {
	if e.metrics != nil {
		e.metrics.RecordTransform(desc.ID, status, time.Since(start))
	}
	e.publish(pubsub.TransformEvent{TransformID: desc.ID, SourceID: source.ID, Status: status})
}

func (e *Executor) recordCache(hit bool) {
	if e.metrics != nil {
		e.metrics.RecordCacheLookup(hit)
	}
}

func (e *Executor) publish(event pubsub.TransformEvent) {
	if e.events != nil {
		e.events.Publish(pubsub.TopicTransform, event)
	}
}
