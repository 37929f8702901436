package loader

import "fmt"

// InvalidSourceError reports a source-list entry that is not one of the
// recognized source variants.
type InvalidSourceError struct {
	Value any
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid configuration source: %#v", e.Value)
}

// ParseError reports a malformed configuration document, identifying the
// offending source (a file path, "environment variable override" or
// "command line override").
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse configuration from %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ImportCycleError reports a cyclic import chain: a file reached through
// "import:" protocol resolution that is already being loaded higher up
// the same call.
type ImportCycleError struct {
	Path string
}

func (e *ImportCycleError) Error() string {
	return fmt.Sprintf("import cycle detected: %s is already being loaded", e.Path)
}
