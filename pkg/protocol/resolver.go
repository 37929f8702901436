package protocol

import (
	"context"
	"fmt"
	"strings"
)

// Handler resolves the payload of one tagged string. The dir argument is
// the directory of the configuration file being resolved (or the process
// working directory for a top-level call); relative references should be
// resolved against it. The returned value replaces the tagged string in
// the tree and may be of any JSON-compatible shape.
type Handler func(ctx context.Context, payload, dir string) (any, error)

// Resolve walks a configuration tree and rewrites every tagged-string
// leaf through its registered handler, returning a new tree. Maps and
// slices are recursed into; all other values are leaves.
//
// When handlers is empty the input tree is returned untouched without
// traversal. This is part of the contract, not an optimization detail:
// callers that register no protocols are guaranteed the identical tree
// back.
//
// A handler failure aborts resolution of the whole tree.
func Resolve(ctx context.Context, tree any, dir string, handlers map[string]Handler) (any, error) {
	if len(handlers) == 0 {
		return tree, nil
	}
	return resolveValue(ctx, tree, dir, handlers)
}

func resolveValue(ctx context.Context, v any, dir string, handlers map[string]Handler) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, value := range val {
			resolved, err := resolveValue(ctx, value, dir, handlers)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil

	case []any:
		out := make([]any, len(val))
		for i, value := range val {
			resolved, err := resolveValue(ctx, value, dir, handlers)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	case string:
		name, payload, ok := splitTag(val)
		if !ok {
			return val, nil
		}
		handler, registered := handlers[name]
		if !registered {
			return val, nil
		}
		resolved, err := handler(ctx, payload, dir)
		if err != nil {
			return nil, fmt.Errorf("protocol %q failed for %q: %w", name, payload, err)
		}
		return resolved, nil

	default:
		return val, nil
	}
}

// splitTag splits a candidate tagged string into protocol name and
// payload at the first colon. Strings without a colon, or with an empty
// name, are not tags.
func splitTag(s string) (name, payload string, ok bool) {
	i := strings.Index(s, ":")
	if i <= 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
