package expand

import (
	"context"
	"sync"

	"github.com/osintdash/graphkit/pkg/logging"
)

// Observer receives per-provider call outcomes, for metrics.
type Observer interface {
	RecordProviderCall(provider, status string)
}

// FallbackChain tries providers in order and returns the facts of the first
// attempt that yields any. Individual failures (network errors, unparseable
// responses) are absorbed here: they are logged and the chain proceeds, so a
// flaky primary never hides a working secondary. Only a fully dry chain
// returns an empty fact list.
type FallbackChain struct {
	ChainName string
	Providers []Provider
	Logger    logging.Logger
	Observer  Observer
}

func (c *FallbackChain) Name() string { return c.ChainName }

func (c *FallbackChain) Expand(ctx context.Context, value string) ([]Fact, error) {
	for _, provider := range c.Providers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		facts, err := provider.Expand(ctx, value)
		if err != nil {
			c.observe(provider.Name(), "error")
			c.log().Warn("provider attempt failed, falling back",
				logging.Provider(provider.Name()), logging.Error(err))
			continue
		}
		if len(facts) == 0 {
			c.observe(provider.Name(), "empty")
			continue
		}
		c.observe(provider.Name(), "ok")
		return facts, nil
	}
	return nil, nil
}

func (c *FallbackChain) log() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Nop{}
}

func (c *FallbackChain) observe(provider, status string) {
	if c.Observer != nil {
		c.Observer.RecordProviderCall(provider, status)
	}
}

// ConcurrentSet issues all provider calls at once and merges whichever
// complete successfully, tolerating individual failures. Facts are
// deduplicated by (type, value); the first provider to yield a value wins
// its label and properties.
type ConcurrentSet struct {
	SetName   string
	Providers []Provider
	Logger    logging.Logger
	Observer  Observer
}

func (c *ConcurrentSet) Name() string { return c.SetName }

func (c *ConcurrentSet) Expand(ctx context.Context, value string) ([]Fact, error) {
	results := make([][]Fact, len(c.Providers))

	var wg sync.WaitGroup
	for i, provider := range c.Providers {
		wg.Add(1)
		go func(i int, provider Provider) {
			defer wg.Done()
			facts, err := provider.Expand(ctx, value)
			if err != nil {
				c.observe(provider.Name(), "error")
				c.log().Debug("concurrent attempt failed",
					logging.Provider(provider.Name()), logging.Error(err))
				return
			}
			if len(facts) == 0 {
				c.observe(provider.Name(), "empty")
				return
			}
			c.observe(provider.Name(), "ok")
			results[i] = facts
		}(i, provider)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var merged []Fact
	for _, facts := range results {
		for _, fact := range facts {
			key := string(fact.Type) + "\x00" + fact.Value
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, fact)
		}
	}
	return merged, nil
}

func (c *ConcurrentSet) log() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Nop{}
}

func (c *ConcurrentSet) observe(provider, status string) {
	if c.Observer != nil {
		c.Observer.RecordProviderCall(provider, status)
	}
}
