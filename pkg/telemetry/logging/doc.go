// Package logging provides structured logging for strata, built on
// log/slog with selectable output format and level.
//
// It also carries a Redactor for configuration trees: resolved
// configurations routinely contain credentials (database passwords, API
// keys, decoded secrets), and any code path that prints or logs a config
// should pass it through Redactor.RedactConfig first. The redactor masks
// by key name, not by value pattern: a key like "password" or "api_key"
// is masked wherever it appears in the tree.
package logging
