package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Runtime is the set of external capabilities available to a load call.
// Any nil field falls back to the OS-backed default for that capability.
type Runtime struct {
	// ReadFile reads the raw contents of a file. A missing file must be
	// reported with an error satisfying errors.Is(err, fs.ErrNotExist);
	// the loader treats that as an empty contribution, not a failure.
	ReadFile func(path string) ([]byte, error)

	// LookupEnv reports the value of an environment variable and whether
	// it is set.
	LookupEnv func(name string) (string, bool)

	// Exec runs a command line and returns its trimmed standard output.
	Exec func(ctx context.Context, command string, dir string) (string, error)

	// ResolveModule resolves a module reference relative to dir and
	// returns its exported value.
	ResolveModule func(path string, dir string) (any, error)
}

// OS returns a Runtime backed by the local operating system.
func OS() *Runtime {
	return &Runtime{
		ReadFile:      os.ReadFile,
		LookupEnv:     os.LookupEnv,
		Exec:          execCommand,
		ResolveModule: resolveDocumentModule,
	}
}

// ReadFileOrDefault reads through the configured ReadFile capability,
// falling back to os.ReadFile when none is set.
func (r *Runtime) ReadFileOrDefault(path string) ([]byte, error) {
	if r != nil && r.ReadFile != nil {
		return r.ReadFile(path)
	}
	return os.ReadFile(path)
}

// LookupEnvOrDefault looks up through the configured LookupEnv
// capability, falling back to os.LookupEnv when none is set.
func (r *Runtime) LookupEnvOrDefault(name string) (string, bool) {
	if r != nil && r.LookupEnv != nil {
		return r.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

// ExecOrDefault runs through the configured Exec capability, falling
// back to the OS shell runner when none is set.
func (r *Runtime) ExecOrDefault(ctx context.Context, command, dir string) (string, error) {
	if r != nil && r.Exec != nil {
		return r.Exec(ctx, command, dir)
	}
	return execCommand(ctx, command, dir)
}

// ResolveModuleOrDefault resolves through the configured ResolveModule
// capability, falling back to document resolution when none is set.
func (r *Runtime) ResolveModuleOrDefault(path, dir string) (any, error) {
	if r != nil && r.ResolveModule != nil {
		return r.ResolveModule(path, dir)
	}
	return resolveDocumentModule(path, dir)
}

// IsNotExist reports whether err indicates a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// execCommand runs a command line through the platform shell and returns
// its trimmed standard output.
func execCommand(ctx context.Context, command, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %q failed: %w (stderr: %s)",
			command, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// resolveDocumentModule is the default module resolver: it resolves the
// reference relative to dir and decodes the referenced document (JSON
// with comments, or YAML by extension) into plain data.
func resolveDocumentModule(path, dir string) (any, error) {
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}
	if filepath.Ext(resolved) == "" {
		resolved += ".json"
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module %q: %w", path, err)
	}

	var value any
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &value)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode module %q: %w", path, err)
	}
	return value, nil
}
