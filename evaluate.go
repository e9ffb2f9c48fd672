package conflate

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("conflate: evaluator not configured")

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// Evaluate executes expr against the currently published aggregate using the
// configured evaluator, defaulting to the expr engine.
func (c *Config) Evaluate(expr string) (Response[any], error) {
	snapshot, id := c.snapshot()
	return c.evaluateWith(EvalContext{Snapshot: snapshot, SnapshotID: id}, expr)
}

// EvaluateWith executes expr using ctx, falling back to the published
// aggregate when ctx.Snapshot is nil.
func (c *Config) EvaluateWith(ctx EvalContext, expr string) (Response[any], error) {
	if ctx.Snapshot == nil {
		ctx.Snapshot, ctx.SnapshotID = c.snapshot()
	}
	return c.evaluateWith(ctx, expr)
}

func (c *Config) evaluateWith(ctx EvalContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := c.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvalError("", expr, ctx.snapshotLabel(), evalErr)
	c.logger().Log(LogEvent{
		Op:       "evaluate",
		Engine:   engine,
		Expr:     expr,
		Snapshot: ctx.snapshotLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

func (c *Config) resolveEvaluator() (Evaluator, error) {
	c.mu.RLock()
	evaluator := c.cfg.evaluator
	c.mu.RUnlock()
	if evaluator != nil {
		return evaluator, nil
	}

	var exprOpts []ExprEvaluatorOption
	if cache := c.programCache(); cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := c.functionRegistry(); registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}

	c.mu.Lock()
	if c.cfg.evaluator == nil {
		c.cfg.evaluator = defaultEvaluator
	}
	evaluator = c.cfg.evaluator
	c.mu.Unlock()
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*conflate.exprEvaluator":
		return "expr"
	case "*conflate.celEvaluator":
		return "cel"
	case "*conflate.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
