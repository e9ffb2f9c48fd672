package merge

import (
	"fmt"
	"testing"
)

func BenchmarkMergeFragments(b *testing.B) {
	seed := map[string]any{
		"service": map[string]any{"name": "billing"},
		"regions": []any{"eu-west"},
	}
	fragments := make([]map[string]any, 10)
	for i := 0; i < 10; i++ {
		fragments[i] = map[string]any{
			fmt.Sprintf("component_%d", i): map[string]any{
				"host": fmt.Sprintf("host-%d", i),
				"port": 8000 + i,
				"labels": map[string]any{
					"env":  "prod",
					"zone": fmt.Sprintf("z%d", i),
				},
			},
			"regions": []any{fmt.Sprintf("region-%d", i)},
			"shared":  map[string]any{fmt.Sprintf("key_%d", i): i},
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		next := CloneMap(seed)
		for _, fragment := range fragments {
			Merge(next, CloneMap(fragment))
		}
	}
}
