package conflate

import (
	"context"

	"github.com/confkit/go-conflate/merge"
)

// Load aggregates fragments from providers into the current value without
// blocking the caller. It snapshots the published aggregate, runs the
// providers strictly in order on a separate goroutine, and on success commits
// the merged result, emits EventDone with the new aggregate, and calls done
// with it. Every fragment emits EventConfig before it is merged. On the first
// provider failure the aggregate stays untouched, no done event fires, and
// the error reaches done exactly as the provider returned it.
//
// Load returns the receiver immediately so calls chain; the asynchronous
// outcome is observable only through done and the event registry. A nil done
// is allowed. Racing Load and Append calls are not serialized against each
// other: each starts from the snapshot current at its start and the last
// commit wins.
func (c *Config) Load(ctx context.Context, providers []Provider, done LoadFunc) *Config {
	go c.runLoad(ctx, providers, done)
	return c
}

func (c *Config) runLoad(ctx context.Context, providers []Provider, done LoadFunc) {
	seed, _ := c.snapshot()
	result, err := c.runPipeline(ctx, seed, providers, func(fragment map[string]any) {
		c.listeners.emit(EventConfig, fragment)
	})
	if err != nil {
		if done != nil {
			done(nil, err)
		}
		return
	}

	id := c.commit(result)
	c.logger().Log(LogEvent{Op: "load.commit", Snapshot: id})
	c.listeners.emit(EventDone, merge.CloneMap(result))
	if done != nil {
		done(merge.CloneMap(result), nil)
	}
}

// Future is the blocking adapter over Load. It resolves exactly once, with
// either the new aggregate or the error that stopped the pipeline.
type Future struct {
	resolved chan struct{}
	value    map[string]any
	err      error
}

// LoadFuture starts a Load and exposes its outcome as a Future.
func (c *Config) LoadFuture(ctx context.Context, providers ...Provider) *Future {
	f := &Future{resolved: make(chan struct{})}
	c.Load(ctx, providers, func(value map[string]any, err error) {
		f.value, f.err = value, err
		close(f.resolved)
	})
	return f
}

// Await blocks until the load resolves or ctx is done, whichever comes
// first. After resolution every call returns the same outcome. When ctx wins
// the race Await returns ctx.Err() and the load keeps running to its own
// completion; its late result is simply dropped by this caller.
func (f *Future) Await(ctx context.Context) (map[string]any, error) {
	select {
	case <-f.resolved:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
