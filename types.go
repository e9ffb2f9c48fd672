package conflate

import (
	"context"
	"time"
)

// Provider supplies one configuration fragment. Implementations either
// produce the fragment or fail; they never receive the aggregate they feed.
type Provider interface {
	Load(ctx context.Context) (map[string]any, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (map[string]any, error)

// Load implements Provider.
func (f ProviderFunc) Load(ctx context.Context) (map[string]any, error) {
	return f(ctx)
}

// LoadFunc receives the outcome of an asynchronous Load: the newly published
// aggregate on success, or the error that stopped the pipeline.
type LoadFunc func(value map[string]any, err error)

// EvalContext carries inputs needed when evaluating an expression against an
// aggregate snapshot.
type EvalContext struct {
	Snapshot   map[string]any
	SnapshotID string
	Now        *time.Time
	Vars       map[string]any
}

func (ctx EvalContext) withDefaultNow() EvalContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EvalContext) withDefaultMaps() EvalContext {
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	if ctx.Vars == nil {
		ctx.Vars = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) snapshotLabel() string {
	if ctx.SnapshotID != "" {
		return ctx.SnapshotID
	}
	return "detached"
}

// Evaluator executes expressions against an evaluation context.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledExpr, error)
}

// CompiledExpr represents a reusable expression program.
type CompiledExpr interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Config at construction.
type Option func(*config)

type config struct {
	seed         map[string]any
	seedSet      bool
	logger       Logger
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithValue seeds the aggregate with an initial mapping. The mapping is
// deep-cloned at construction; a nil mapping is rejected by New.
func WithValue(value map[string]any) Option {
	return func(cfg *config) {
		cfg.seed = value
		cfg.seedSet = true
	}
}

// WithEvaluator configures the evaluator used by Evaluate.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

func (c *Config) logger() Logger {
	if c.cfg.logger != nil {
		return c.cfg.logger
	}
	return noopLogger{}
}

func (c *Config) programCache() ProgramCache {
	return c.cfg.programCache
}

func (c *Config) functionRegistry() *FunctionRegistry {
	return c.cfg.functions
}
