// Package loader implements the strata load pipeline: ordered source-list
// construction, strictly sequential source resolution with deterministic
// deep-merge precedence, and protocol resolution over the merged tree.
//
// # Load order
//
// For a path "app.json" and environment "production", the built-in source
// list is, in order:
//
//  1. caller-supplied defaults
//  2. app.json
//  3. app-production.json
//  4. app-local.json
//  5. the STRATA_CONFIG environment variable (JSON object)
//  6. the --STRATA_CONFIG=<json> command-line flag
//  7. caller-supplied overrides
//
// Each source is resolved and merged before the next one starts; later
// sources win at every leaf while nested objects compose. Missing files
// contribute nothing. A Sources hook may replace the built list outright.
//
// # Protocols
//
// After merging, string values of the form "<protocol>:<payload>" are
// rewritten through registered handlers (see package protocol). The
// "import" protocol re-enters this pipeline on another file: the child
// load keeps the environment and user protocols, drops defaults,
// overrides, hooks, and suppresses the process-level overrides, which
// apply exactly once at the outermost call.
//
// # Results
//
// Load returns a *Config wrapper exposing the raw map and a safe
// dotted-path accessor. LoadMap returns the plain map for callers that
// want data only (imports always do). LoadAsync returns a Pending handle
// that supports both awaiting and listener-style completion.
package loader
