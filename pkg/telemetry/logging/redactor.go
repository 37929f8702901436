package logging

import "strings"

// Redacted is the replacement value for masked configuration entries.
const Redacted = "***"

// Redactor masks secret-bearing entries of a configuration tree by key
// name. Matching is case-insensitive and substring-based: a key
// "db_password" matches the "password" pattern.
type Redactor struct {
	patterns []string
}

// defaultPatterns are key substrings treated as secret-bearing.
var defaultPatterns = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"api_key",
	"apikey",
	"private_key",
	"credential",
}

// NewRedactor creates a Redactor with the default patterns plus any
// custom key substrings.
func NewRedactor(customPatterns ...string) *Redactor {
	patterns := make([]string, 0, len(defaultPatterns)+len(customPatterns))
	patterns = append(patterns, defaultPatterns...)
	for _, p := range customPatterns {
		if p != "" {
			patterns = append(patterns, strings.ToLower(p))
		}
	}
	return &Redactor{patterns: patterns}
}

// RedactConfig returns a copy of a configuration tree with the values of
// secret-bearing keys replaced by Redacted. The input is not modified.
func (r *Redactor) RedactConfig(cfg map[string]any) map[string]any {
	out := make(map[string]any, len(cfg))
	for key, value := range cfg {
		if r.sensitiveKey(key) {
			out[key] = Redacted
			continue
		}
		out[key] = r.redactValue(value)
	}
	return out
}

func (r *Redactor) redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return r.RedactConfig(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.redactValue(item)
		}
		return out
	default:
		return val
	}
}

// sensitiveKey reports whether a key name matches any redaction pattern.
func (r *Redactor) sensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, pattern := range r.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
