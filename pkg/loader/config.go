package loader

import "strings"

// Config wraps a resolved configuration map with a safe dotted-path
// accessor. The wrapper never mutates the underlying data; callers that
// want plain data use Map (or load through LoadMap in the first place).
type Config struct {
	data map[string]any
}

// NewConfig wraps an already-resolved configuration map.
func NewConfig(data map[string]any) *Config {
	return &Config{data: data}
}

// Map returns the underlying configuration data.
func (c *Config) Map() map[string]any {
	return c.data
}

// Get walks a "."-separated key path and returns the value at its end.
// It short-circuits to ok=false on any missing or non-object
// intermediate and never panics.
func (c *Config) Get(path string) (any, bool) {
	return Lookup(c.data, path)
}

// Lookup is the dotted-path accessor over a plain configuration map.
func Lookup(data map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = data
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
