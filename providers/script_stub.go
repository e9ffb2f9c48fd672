//go:build !js_eval

package providers

import "github.com/confkit/go-conflate"

// Script is unavailable without the js_eval build tag. The nil provider
// surfaces as an invalid-provider error at its turn in the pipeline.
func Script(path string) conflate.Provider {
	_ = path
	return nil
}
