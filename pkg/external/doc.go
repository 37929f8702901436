// Package external defines the narrow capability surface the strata
// pipeline uses to reach the outside world: file reads, environment
// lookups, command execution and module resolution.
//
// The pipeline never touches the os package directly; everything goes
// through a Runtime. The default Runtime is OS-backed, and tests (or
// embedders with unusual needs, such as virtual filesystems) substitute
// their own capability functions without touching process state.
package external
