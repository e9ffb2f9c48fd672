package conflate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidValue reports a seed mapping that cannot back an aggregate.
	ErrInvalidValue = errors.New("conflate: value must be a non-nil mapping")
	// ErrNoValues reports an Append call with nothing to merge.
	ErrNoValues = errors.New("conflate: append requires at least one value")
	// ErrInvalidProvider reports a provider that cannot be invoked, found at
	// its turn in the pipeline.
	ErrInvalidProvider = errors.New("conflate: invalid provider")
	// ErrUnknownEvent reports a subscription to an unsupported event name.
	ErrUnknownEvent = errors.New("conflate: unknown event")
	// ErrEmptyEvent reports a subscription with an empty event name.
	ErrEmptyEvent = errors.New("conflate: event name must not be empty")
	// ErrNilListener reports a subscription without a listener.
	ErrNilListener = errors.New("conflate: listener must not be nil")
)

// EvalError captures evaluator metadata alongside the originating error.
type EvalError struct {
	Engine   string
	Expr     string
	Snapshot string
	Err      error
}

func (e *EvalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("conflate: %s evaluator %s snapshot=%s: %v", e.Engine, describeExpression(e.Expr), e.Snapshot, e.Err)
}

func (e *EvalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "conflate:") {
		return err
	}
	return fmt.Errorf("conflate: %s evaluator: %w", engine, err)
}

func wrapEvalError(engine, expr, snapshot string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Snapshot == "" {
			evalErr.Snapshot = snapshot
		}
		return evalErr
	}

	return &EvalError{
		Engine:   engine,
		Expr:     expr,
		Snapshot: snapshot,
		Err:      err,
	}
}
