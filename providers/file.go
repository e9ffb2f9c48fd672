package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/confkit/go-conflate"
)

// FileOption configures the file provider.
type FileOption func(*fileProvider)

// FileWithOptional makes a missing file yield an empty fragment instead of an
// error.
func FileWithOptional() FileOption {
	return func(p *fileProvider) {
		p.optional = true
	}
}

// FileWithFormat overrides the format detected from the file extension.
// Supported formats: "json", "yaml", "toml".
func FileWithFormat(format string) FileOption {
	return func(p *fileProvider) {
		p.format = format
	}
}

type fileProvider struct {
	path     string
	format   string
	optional bool
}

// File returns a provider reading one configuration file. The format is
// detected from the extension unless overridden: .json, .yaml/.yml, .toml.
func File(path string, opts ...FileOption) conflate.Provider {
	p := &fileProvider{path: path}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.format == "" {
		p.format = detectFormat(path)
	}
	return p
}

func (p *fileProvider) Load(_ context.Context) (map[string]any, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) && p.optional {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("providers: read file %s: %w", p.path, err)
	}
	fragment, err := parseFragment(data, p.format)
	if err != nil {
		return nil, fmt.Errorf("providers: parse file %s: %w", p.path, err)
	}
	return fragment, nil
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

func parseFragment(data []byte, format string) (map[string]any, error) {
	switch format {
	case "json":
		var out map[string]any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	case "yaml":
		var out any
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		normalized, ok := normalize(out).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("top-level value must be a mapping")
		}
		return normalized, nil
	case "toml":
		var out map[string]any
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		normalized, _ := normalize(out).(map[string]any)
		return normalized, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// normalize rewrites decoder-specific container types into the
// map[string]any/[]any shapes the merge layer treats as containers.
// Non-string mapping keys are stringified.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	default:
		return value
	}
}
