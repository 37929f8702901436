package protocol

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"

	"github.com/strata-config/strata/pkg/external"
)

// Builtins returns the default protocol handler set, backed by the given
// runtime capabilities. The loader merges user-supplied handlers on top,
// user entries winning on name collision, and adds the "import" handler
// itself.
func Builtins(rt *external.Runtime) map[string]Handler {
	return map[string]Handler{
		"path":    PathHandler(),
		"file":    FileHandler(rt),
		"base64":  Base64Handler(),
		"env":     EnvHandler(rt),
		"require": RequireHandler(rt),
		"exec":    ExecHandler(rt),
	}
}

// PathHandler resolves the payload to an absolute filesystem path
// relative to the configuration's directory.
func PathHandler() Handler {
	return func(_ context.Context, payload, dir string) (any, error) {
		if filepath.IsAbs(payload) {
			return filepath.Clean(payload), nil
		}
		abs, err := filepath.Abs(filepath.Join(dir, payload))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", payload, err)
		}
		return abs, nil
	}
}

// FileHandler substitutes the raw contents of the referenced file.
func FileHandler(rt *external.Runtime) Handler {
	return func(_ context.Context, payload, dir string) (any, error) {
		path := payload
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := rt.ReadFileOrDefault(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}
		return string(data), nil
	}
}

// Base64Handler decodes the payload as standard base64.
func Base64Handler() Handler {
	return func(_ context.Context, payload, _ string) (any, error) {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
		}
		return string(decoded), nil
	}
}

// EnvHandler substitutes the value of the named environment variable.
// An unset variable substitutes the empty string.
func EnvHandler(rt *external.Runtime) Handler {
	return func(_ context.Context, payload, _ string) (any, error) {
		value, _ := rt.LookupEnvOrDefault(payload)
		return value, nil
	}
}

// RequireHandler resolves the payload as a module reference relative to
// the configuration's directory.
func RequireHandler(rt *external.Runtime) Handler {
	return func(_ context.Context, payload, dir string) (any, error) {
		return rt.ResolveModuleOrDefault(payload, dir)
	}
}

// ExecHandler runs the payload as a command in the configuration's
// directory and substitutes its trimmed standard output.
func ExecHandler(rt *external.Runtime) Handler {
	return func(ctx context.Context, payload, dir string) (any, error) {
		return rt.ExecOrDefault(ctx, payload, dir)
	}
}
