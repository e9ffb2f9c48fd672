package conflate

import (
	"strings"

	"github.com/confkit/go-conflate/merge"
)

// Get resolves a dot-separated path such as "server.host" against the
// published aggregate. The boolean reports whether every segment of the path
// exists. Paths descend mappings only; a segment landing on a sequence or
// scalar stops the lookup. Container results are cloned, so mutating them
// never reaches the store.
func (c *Config) Get(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var current any = c.value
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return merge.Clone(current), true
}
