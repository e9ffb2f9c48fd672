package providers

import (
	"context"
	"os"
	"strings"

	"github.com/confkit/go-conflate"
)

// EnvOption configures the environment provider.
type EnvOption func(*envProvider)

// EnvWithPrefix keeps only variables carrying prefix and strips it from the
// resulting keys.
func EnvWithPrefix(prefix string) EnvOption {
	return func(p *envProvider) {
		p.prefix = prefix
	}
}

// EnvWithLowercase lowercases the resulting keys.
func EnvWithLowercase() EnvOption {
	return func(p *envProvider) {
		p.lowercase = true
	}
}

// EnvWithNesting splits keys on separator into nested mappings, so
// APP_SERVER__HOST lands at {"server": {"host": ...}} when combined with
// EnvWithPrefix("APP_") and EnvWithLowercase.
func EnvWithNesting(separator string) EnvOption {
	return func(p *envProvider) {
		p.separator = separator
	}
}

type envProvider struct {
	prefix    string
	lowercase bool
	separator string
}

// Env returns a provider reading the process environment. Values stay
// strings; interpreting them is the consumer's concern.
func Env(opts ...EnvOption) conflate.Provider {
	p := &envProvider{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *envProvider) Load(_ context.Context) (map[string]any, error) {
	out := map[string]any{}
	for _, entry := range os.Environ() {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		if p.prefix != "" {
			if !strings.HasPrefix(key, p.prefix) {
				continue
			}
			key = strings.TrimPrefix(key, p.prefix)
		}
		if key == "" {
			continue
		}
		if p.lowercase {
			key = strings.ToLower(key)
		}
		if p.separator == "" {
			out[key] = value
			continue
		}
		setNested(out, strings.Split(key, p.separator), value)
	}
	return out, nil
}

// setNested assigns value under the segment path, building intermediate
// mappings as needed. Existing values are never overwritten, matching the
// library's first-write-wins policy.
func setNested(target map[string]any, segments []string, value string) {
	last := len(segments) - 1
	current := target
	for _, segment := range segments[:last] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			if _, exists := current[segment]; exists {
				return
			}
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	if _, exists := current[segments[last]]; !exists {
		current[segments[last]] = value
	}
}
