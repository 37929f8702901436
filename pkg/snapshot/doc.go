// Package snapshot persists resolved configuration snapshots as an
// append-only audit trail.
//
// A Record captures one successful load: which path, which environment,
// and the fully resolved data. The watch command records a snapshot per
// reload, which makes "what configuration was the service actually
// running at 14:05" answerable after the fact.
//
// Snapshots are never read back into the load pipeline; this is an audit
// trail, not a cache.
//
// Two backends are provided: an in-memory store for tests and embedders,
// and a SQLite store (pure-Go driver, WAL mode) for durability.
package snapshot
