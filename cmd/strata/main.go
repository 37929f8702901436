// Strata resolves layered configuration for services and tooling.
//
// It loads an ordered stack of configuration files (defaults, base,
// environment, local, process overrides), deep-merges them with
// later-wins semantics, and resolves embedded protocol tags such as
// file: includes, env: lookups, and import: of nested configurations.
//
// Usage:
//
//	# Print the fully resolved configuration
//	strata resolve --config config/app.json
//
//	# Resolve for a specific environment, as YAML
//	strata resolve --config config/app.json --env production --format yaml
//
//	# Read one value by dotted path
//	strata get server.port --config config/app.json
//
//	# Reload on file changes, exposing Prometheus metrics
//	strata watch --config config/app.json --metrics-addr :9090
//
//	# Show version information
//	strata version
package main

func main() {
	Execute()
}
