// Package runstore provides durable persistence for run records. The
// engine flushes a terminal snapshot here; status queries fall back to
// this store for runs no longer tracked in the live registry.
package runstore

import (
	"errors"

	"github.com/cardforge/cardforge/internal/engine"
)

// ErrNotFound is returned by GetRun when no record exists for the ID.
var ErrNotFound = errors.New("run not found")

// Store defines the interface for persisting and retrieving run records.
type Store interface {
	// SaveRun persists a run record, overwriting any previous copy.
	SaveRun(rec *engine.RunRecord) error

	// GetRun retrieves a run by ID. Returns ErrNotFound on a miss.
	GetRun(runID string) (*engine.RunRecord, error)

	// GetAllRuns retrieves up to 'limit' runs, newest first by creation time.
	GetAllRuns(limit int) ([]*engine.RunRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
