package loader

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/strata-config/strata/pkg/external"
)

const (
	// OverrideEnvVar is the environment variable carrying a JSON-encoded
	// override object, merged after file sources.
	OverrideEnvVar = "STRATA_CONFIG"

	// EnvironmentEnvVar is the environment variable supplying the default
	// environment name when Options.Environment is not set.
	EnvironmentEnvVar = "STRATA_ENV"

	// overrideFlagPrefix is the recognized command-line flag shape. Its
	// payload is a JSON-encoded override object, merged last among the
	// built-in sources.
	overrideFlagPrefix = "--" + OverrideEnvVar + "="
)

// Snapshot holds lazily computed, memoized readings of the process-level
// override inputs: the command-line flag, the override environment
// variable, and the environment name variable. Each reading is computed
// at most once per Snapshot; later mutation of the underlying process
// state is not observed.
//
// The package keeps one process-wide Snapshot used by default. Tests and
// embedders pass a fresh Snapshot through Options.Snapshot instead of
// mutating process state.
type Snapshot struct {
	args    []string
	runtime *external.Runtime

	cliOnce sync.Once
	cli     overrideReading

	envOnce sync.Once
	env     overrideReading

	nameOnce sync.Once
	name     string
	nameSet  bool
}

type overrideReading struct {
	value map[string]any
	found bool
	err   error
}

// NewSnapshot builds a snapshot over explicit arguments and environment
// capabilities. args should include the program name, matching os.Args.
func NewSnapshot(args []string, rt *external.Runtime) *Snapshot {
	return &Snapshot{args: args, runtime: rt}
}

var processSnapshot = sync.OnceValue(func() *Snapshot {
	return NewSnapshot(os.Args, nil)
})

// ProcessSnapshot returns the process-wide snapshot over os.Args and the
// process environment. It is computed on first use and never invalidated
// within the process lifetime.
func ProcessSnapshot() *Snapshot {
	return processSnapshot()
}

// CommandLineOverride returns the parsed payload of the recognized
// --STRATA_CONFIG=<json> flag. found is false when the flag is absent,
// which is distinct from a present-but-empty object. A malformed payload
// is an error identifying the command line as the offending source.
func (s *Snapshot) CommandLineOverride() (value map[string]any, found bool, err error) {
	s.cliOnce.Do(func() {
		for _, arg := range s.args {
			if payload, ok := strings.CutPrefix(arg, overrideFlagPrefix); ok {
				s.cli.value, s.cli.err = decodeOverride(payload, "command line override")
				s.cli.found = s.cli.err == nil
				return
			}
		}
	})
	return s.cli.value, s.cli.found, s.cli.err
}

// EnvOverride returns the parsed payload of the STRATA_CONFIG environment
// variable, with the same semantics as CommandLineOverride.
func (s *Snapshot) EnvOverride() (value map[string]any, found bool, err error) {
	s.envOnce.Do(func() {
		payload, ok := s.runtime.LookupEnvOrDefault(OverrideEnvVar)
		if !ok || payload == "" {
			return
		}
		s.env.value, s.env.err = decodeOverride(payload, "environment variable override")
		s.env.found = s.env.err == nil
	})
	return s.env.value, s.env.found, s.env.err
}

// EnvironmentName returns the raw STRATA_ENV reading, unnormalized.
func (s *Snapshot) EnvironmentName() (string, bool) {
	s.nameOnce.Do(func() {
		s.name, s.nameSet = s.runtime.LookupEnvOrDefault(EnvironmentEnvVar)
	})
	return s.name, s.nameSet
}

// decodeOverride parses a JSON override payload, tolerating comments and
// trailing commas via a minifying pre-pass. The payload must decode to an
// object.
func decodeOverride(payload, caption string) (map[string]any, error) {
	var value map[string]any
	if err := json.Unmarshal(jsonc.ToJSON([]byte(payload)), &value); err != nil {
		return nil, &ParseError{Source: caption, Err: err}
	}
	return value, nil
}

// NormalizeEnvironment maps environment-name shorthands to their
// canonical forms: "prod" to "production", "dev" (or absent) to
// "development". Any other name passes through unchanged.
func NormalizeEnvironment(name string) string {
	switch name {
	case "prod":
		return "production"
	case "dev", "":
		return "development"
	default:
		return name
	}
}
