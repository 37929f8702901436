package loader

import (
	"path/filepath"
	"strings"
)

// DefaultExtension is assumed when the load path carries no extension.
const DefaultExtension = ".json"

// buildSources produces the ordered source list for a load call:
// defaults, base file, environment file, local file, environment
// override, command-line override, overrides. Excluded built-ins are
// skipped. The Sources hook, when present, may replace the built list
// entirely; a nil return keeps it.
func buildSources(path, environment string, opts *Options, snap *Snapshot) ([]Source, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = DefaultExtension
	}
	base := strings.TrimSuffix(path, ext)

	var sources []Source
	sources = append(sources, opts.Defaults...)
	sources = append(sources, File(base+ext))

	if !opts.Exclude.EnvFile {
		sources = append(sources, File(base+"-"+environment+ext))
	}
	if !opts.Exclude.LocalFile {
		sources = append(sources, File(base+"-local"+ext))
	}

	if !opts.Exclude.Env {
		value, found, err := snap.EnvOverride()
		if err != nil {
			return nil, err
		}
		if found {
			sources = append(sources, Inline(value))
		}
	}
	if !opts.Exclude.CommandLine {
		value, found, err := snap.CommandLineOverride()
		if err != nil {
			return nil, err
		}
		if found {
			sources = append(sources, Inline(value))
		}
	}

	sources = append(sources, opts.Overrides...)

	if opts.Sources != nil {
		if replacement := opts.Sources(sources); replacement != nil {
			sources = replacement
		}
	}
	return sources, nil
}

// resolveEnvironment determines the environment name for a load call:
// the explicit option wins, otherwise the snapshot's STRATA_ENV reading,
// normalized either way.
func resolveEnvironment(opts *Options, snap *Snapshot) string {
	name := opts.Environment
	if name == "" {
		name, _ = snap.EnvironmentName()
	}
	return NormalizeEnvironment(name)
}
