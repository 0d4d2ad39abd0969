// Package ports defines the contracts between the freight simulator's
// application core and its infrastructure adapters.
package ports

import (
	"context"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/run"
)

// RunRepository defines the persistence contract for run aggregates.
type RunRepository interface {
	// Add persists a new run. A run with the same ID must not exist.
	Add(ctx context.Context, aggregate *run.Run) error

	// Get retrieves a run by its identifier. It returns an
	// errs.ObjectNotFoundError when no such run exists.
	Get(ctx context.Context, id kernel.UUID) (*run.Run, error)
}
