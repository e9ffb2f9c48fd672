package merge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMergeFromFixture(t *testing.T) {
	fx := loadMergeFixture(t, "merge_cases.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			target := convertTimeEncodings(t, tc.Target).(map[string]any)
			source := convertTimeEncodings(t, tc.Source).(map[string]any)
			expect := convertTimeEncodings(t, tc.Expect).(map[string]any)

			got := Merge(target, source)
			if !reflect.DeepEqual(expect, got) {
				t.Errorf("merge mismatch:\nwant: %#v\n got: %#v", expect, got)
			}
		})
	}
}

func TestMergeReturnsTargetMapping(t *testing.T) {
	target := map[string]any{"a": 1}
	got := Merge(target, map[string]any{"b": 2})
	if returned, ok := got.(map[string]any); !ok || !sameMap(returned, target) {
		t.Fatalf("expected Merge to return the target mapping, got %#v", got)
	}
	if target["b"] != 2 {
		t.Fatalf("expected target to be mutated in place, got %#v", target)
	}
}

func TestMergeGrowsSequenceTarget(t *testing.T) {
	got := Merge([]any{"a"}, []any{"b", "c"})
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestMergeOpaqueTargetUnchanged(t *testing.T) {
	cases := []struct {
		name   string
		target any
	}{
		{"string", "value"},
		{"int", 42},
		{"bool", true},
		{"nil", nil},
		{"time", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
	}
	source := map[string]any{"k": "v"}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Merge(tc.target, source); !reflect.DeepEqual(tc.target, got) {
				t.Fatalf("expected opaque target to pass through, got %#v", got)
			}
		})
	}
}

func TestMergeSequenceIgnoresMappingSource(t *testing.T) {
	target := []any{"a"}
	got := Merge(target, map[string]any{"k": "v"})
	if !reflect.DeepEqual([]any{"a"}, got) {
		t.Fatalf("expected sequence target unchanged, got %#v", got)
	}
}

func TestMergeKeepsFunctionValues(t *testing.T) {
	original := func() string { return "original" }
	replacement := func() string { return "replacement" }

	target := map[string]any{"hook": original}
	Merge(target, map[string]any{"hook": replacement})

	kept, ok := target["hook"].(func() string)
	if !ok {
		t.Fatalf("expected hook to stay a func, got %T", target["hook"])
	}
	if got := kept(); got != "original" {
		t.Fatalf("expected first-registered hook to win, got %q", got)
	}
}

func TestMergeAppendsSequenceElementsByReference(t *testing.T) {
	shared := map[string]any{"id": 1}
	target := map[string]any{"items": []any{}}
	Merge(target, map[string]any{"items": []any{shared}})

	shared["id"] = 2
	items := target["items"].([]any)
	if got := items[0].(map[string]any)["id"]; got != 2 {
		t.Fatalf("expected appended element to alias the source value, got %v", got)
	}
}

func sameMap(a, b map[string]any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

type mergeFixture struct {
	Description string             `json:"description"`
	Cases       []mergeFixtureCase `json:"cases"`
}

type mergeFixtureCase struct {
	Name   string         `json:"name"`
	Target map[string]any `json:"target"`
	Source map[string]any `json:"source"`
	Expect map[string]any `json:"expect"`
	Notes  string         `json:"notes,omitempty"`
}

func loadMergeFixture(t *testing.T, name string) mergeFixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read merge fixture %q: %v", name, err)
	}
	var fx mergeFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal merge fixture %q: %v", name, err)
	}
	return fx
}

func convertTimeEncodings(t *testing.T, value any) any {
	t.Helper()
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = convertTimeEncodings(t, val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = convertTimeEncodings(t, val)
		}
		return out
	case string:
		const prefix = "time:"
		if strings.HasPrefix(v, prefix) {
			ts, err := time.Parse(time.RFC3339, strings.TrimPrefix(v, prefix))
			if err != nil {
				t.Fatalf("invalid time encoding %q: %v", v, err)
			}
			return ts
		}
	}
	return value
}
