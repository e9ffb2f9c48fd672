// Package providers ships ready-made fragment sources for the conflate
// pipeline: fixed values, process environment, local files, and HTTP
// endpoints. Every provider implements conflate.Provider and owns the
// fragment it returns.
package providers

import (
	"context"

	"github.com/confkit/go-conflate"
)

// Static returns a provider that always yields fragment.
func Static(fragment map[string]any) conflate.Provider {
	return conflate.ProviderFunc(func(_ context.Context) (map[string]any, error) {
		return fragment, nil
	})
}

// Func adapts a plain function to a provider.
func Func(fn func(ctx context.Context) (map[string]any, error)) conflate.Provider {
	return conflate.ProviderFunc(fn)
}
