package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/strata-config/strata/pkg/external"
	"github.com/strata-config/strata/pkg/merge"
)

// Source is one ordered contributor to the final configuration. The
// variants are FileSource, InlineSource, ProviderSource and ListSource;
// the constructors File, Inline, Provider and List build them. Any other
// implementation is rejected at resolution time with an
// InvalidSourceError.
type Source interface {
	configSource()
}

// FileSource names a configuration document to load. A missing file
// contributes nothing; any other read failure is fatal.
type FileSource struct {
	Path string
}

// InlineSource is a ready-made mapping merged directly. The mapping is
// cloned before merging, so the caller's map is never aliased.
type InlineSource map[string]any

// ProviderSource is a zero-argument operation that eventually yields a
// mapping (or nothing). Its error fails the load.
type ProviderSource func(ctx context.Context) (map[string]any, error)

// ListSource is an ordered sequence of sources, merged internally before
// being merged into the parent accumulator.
type ListSource []Source

func (FileSource) configSource()     {}
func (InlineSource) configSource()   {}
func (ProviderSource) configSource() {}
func (ListSource) configSource()     {}

// File returns a source that loads the named document.
func File(path string) Source { return FileSource{Path: path} }

// Inline returns a source contributing the given mapping.
func Inline(values map[string]any) Source { return InlineSource(values) }

// Provider returns a source backed by a deferred operation.
func Provider(fn func(ctx context.Context) (map[string]any, error)) Source {
	return ProviderSource(fn)
}

// List groups sources into one ordered contribution.
func List(sources ...Source) Source { return ListSource(sources) }

// resolveSources resolves every source strictly in list order, merging
// each contribution into the accumulator as it arrives. Order is a
// correctness requirement: merge order determines override precedence,
// so source k+1 is never started before source k has been merged.
func resolveSources(ctx context.Context, sources []Source, acc map[string]any, opts *Options) (map[string]any, error) {
	for _, src := range sources {
		if src == nil {
			continue
		}

		contribution, kind, err := resolveSource(ctx, src, opts)
		if err != nil {
			return nil, err
		}
		if contribution == nil {
			continue
		}

		acc = merge.Merge(merge.Clone(contribution), acc).(map[string]any)

		if opts.Observer != nil {
			opts.Observer.SourceResolved(kind)
		}
		opts.logger().Debug("configuration source merged", "kind", kind)
	}
	return acc, nil
}

// resolveSource resolves a single source to its contribution (nil means
// nothing to merge) and reports the source variant name.
func resolveSource(ctx context.Context, src Source, opts *Options) (map[string]any, string, error) {
	switch s := src.(type) {
	case FileSource:
		contribution, err := loadDocument(s.Path, opts.Runtime)
		return contribution, "file", err

	case InlineSource:
		return s, "inline", nil

	case ProviderSource:
		if s == nil {
			return nil, "provider", nil
		}
		contribution, err := s(ctx)
		if err != nil {
			return nil, "provider", fmt.Errorf("configuration provider failed: %w", err)
		}
		return contribution, "provider", nil

	case ListSource:
		contribution, err := resolveSources(ctx, s, map[string]any{}, opts)
		return contribution, "list", err

	default:
		return nil, "", &InvalidSourceError{Value: src}
	}
}

// loadDocument reads and decodes one configuration file. A missing file
// yields a nil contribution without error.
func loadDocument(path string, rt *external.Runtime) (map[string]any, error) {
	data, err := rt.ReadFileOrDefault(path)
	if err != nil {
		if external.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return decodeDocument(path, data)
}

// decodeDocument decodes a configuration document by extension: YAML for
// .yaml/.yml, otherwise JSON with comments and trailing commas stripped
// by a minifying pre-pass.
func decodeDocument(path string, data []byte) (map[string]any, error) {
	var value any
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &value)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &value)
	}
	if err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}
	if value == nil {
		return nil, nil
	}

	m, ok := value.(map[string]any)
	if !ok {
		return nil, &ParseError{Source: path, Err: fmt.Errorf("document is not an object (got %T)", value)}
	}
	return m, nil
}
