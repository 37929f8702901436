package snapshot

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a snapshot ID does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Record is one persisted configuration snapshot.
type Record struct {
	// ID is a unique snapshot identifier, assigned on save when empty.
	ID string

	// Path is the configuration path that was loaded.
	Path string

	// Environment is the environment name the load resolved with.
	Environment string

	// Data is the fully resolved configuration.
	Data map[string]any

	// CreatedAt is the save timestamp, assigned on save when zero.
	CreatedAt time.Time
}

// Store persists configuration snapshots.
type Store interface {
	// Save persists a record, assigning ID and CreatedAt when unset.
	Save(ctx context.Context, record *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest first, at most limit (0 means all).
	List(ctx context.Context, limit int) ([]*Record, error)

	// Prune deletes records created before the cutoff and reports how
	// many were removed.
	Prune(ctx context.Context, before time.Time) (int, error)

	// Close releases backend resources.
	Close() error
}
