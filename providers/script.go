//go:build js_eval

package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/dop251/goja"

	"github.com/confkit/go-conflate"
)

type scriptProvider struct {
	path string
}

// Script returns a provider evaluating a JavaScript configuration file. The
// script runs in a fresh runtime per load and exports its fragment through
// the module.exports convention.
func Script(path string) conflate.Provider {
	return &scriptProvider{path: path}
}

func (p *scriptProvider) Load(_ context.Context) (map[string]any, error) {
	source, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("providers: read script %s: %w", p.path, err)
	}

	vm := goja.New()
	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, fmt.Errorf("providers: prepare script %s: %w", p.path, err)
	}
	if err := vm.Set("module", module); err != nil {
		return nil, fmt.Errorf("providers: prepare script %s: %w", p.path, err)
	}
	if err := vm.Set("exports", exports); err != nil {
		return nil, fmt.Errorf("providers: prepare script %s: %w", p.path, err)
	}

	if _, err := vm.RunScript(p.path, string(source)); err != nil {
		return nil, fmt.Errorf("providers: run script %s: %w", p.path, err)
	}

	exported := module.Get("exports").Export()
	fragment, ok := normalize(exported).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("providers: script %s: module.exports must be an object", p.path)
	}
	return fragment, nil
}
