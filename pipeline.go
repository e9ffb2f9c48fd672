package conflate

import (
	"context"
	"fmt"
	"time"

	"github.com/confkit/go-conflate/merge"
)

// runPipeline drives providers strictly in list order, merging each fragment
// into seed under first-write-wins, and returns the accumulated value.
//
// Each provider is validated lazily, at its turn. After a provider resolves,
// onFragment runs with the raw fragment before the fragment is merged and
// before the next provider starts. The first failure stops the run: no later
// provider is invoked, nothing is returned, and the provider's error passes
// through verbatim.
//
// The pipeline never watches ctx itself; cancellation reaches a run only
// through providers honoring their context.
func (c *Config) runPipeline(ctx context.Context, seed map[string]any, providers []Provider, onFragment func(map[string]any)) (map[string]any, error) {
	log := c.logger()
	for i, provider := range providers {
		if provider == nil {
			return nil, fmt.Errorf("%w: provider %d is nil", ErrInvalidProvider, i)
		}
		start := time.Now()
		fragment, err := provider.Load(ctx)
		log.Log(LogEvent{Op: "load.provider", Index: i, Duration: time.Since(start), Err: err})
		if err != nil {
			return nil, err
		}
		if onFragment != nil {
			onFragment(fragment)
		}
		merge.Merge(seed, merge.CloneMap(fragment))
	}
	return seed, nil
}
