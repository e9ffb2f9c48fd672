package conflate

import "github.com/confkit/go-conflate/internal/hydrate"

// BindOption configures how Bind decodes an aggregate into a struct.
type BindOption[T any] func(*binder[T])

type binder[T any] struct {
	opts []hydrate.DecoderOption[T]
}

// BindWithPreHook runs hook against a clone of the aggregate before decoding.
// The hook receives the snapshot ID being bound and may return a replacement
// payload.
func BindWithPreHook[T any](hook func(snapshotID string, payload map[string]any) (map[string]any, error)) BindOption[T] {
	return func(b *binder[T]) {
		if hook == nil {
			return
		}
		b.opts = append(b.opts, hydrate.WithPreHook[T](func(ctx hydrate.Context, payload map[string]any) (map[string]any, error) {
			return hook(ctx.SnapshotID, payload)
		}))
	}
}

// BindWithPostHook runs hook against the decoded struct after decoding.
func BindWithPostHook[T any](hook func(snapshotID string, value *T) error) BindOption[T] {
	return func(b *binder[T]) {
		if hook == nil {
			return
		}
		b.opts = append(b.opts, hydrate.WithPostHook[T](func(ctx hydrate.Context, value *T) error {
			return hook(ctx.SnapshotID, value)
		}))
	}
}

// BindWithUseNumber decodes numbers as json.Number instead of float64.
func BindWithUseNumber[T any]() BindOption[T] {
	return func(b *binder[T]) {
		b.opts = append(b.opts, hydrate.WithUseNumber[T]())
	}
}

// BindWithDisallowUnknownFields fails the decode when the aggregate carries
// keys the target struct does not declare.
func BindWithDisallowUnknownFields[T any]() BindOption[T] {
	return func(b *binder[T]) {
		b.opts = append(b.opts, hydrate.WithDisallowUnknownFields[T]())
	}
}

// Bind decodes the currently published aggregate into T through a JSON
// round-trip, applying any configured hooks around the decode.
func Bind[T any](c *Config, opts ...BindOption[T]) (T, error) {
	b := binder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}
	snapshot, id := c.snapshot()
	decoder := hydrate.NewDecoder[T](b.opts...)
	return decoder.Decode(hydrate.Context{SnapshotID: id}, snapshot)
}
