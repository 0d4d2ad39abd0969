package queries

import (
	"errors"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/pkg/guard"
)

var (
	ErrGetRunQueryIsNotConstructed = errors.New(
		"GetRunQuery must be created via NewGetRunQuery constructor",
	)
)

// GetRunQuery retrieves the summary of one stored run.
//
// Example:
//
//	query, err := NewGetRunQuery(runID)
//	if err != nil {
//	    return err
//	}
//
//	summary, err := NewGetRunQueryHandler(db).Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // no such run
//	}
type GetRunQuery struct {
	runID kernel.UUID
	guard guard.ConstructorGuard
}

// NewGetRunQuery creates a query for the run with the given identifier.
func NewGetRunQuery(runID kernel.UUID) (GetRunQuery, error) {
	if err := runID.Validate(); err != nil {
		return GetRunQuery{}, err
	}
	return GetRunQuery{runID: runID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRunQuery) Validate() error {
	return q.guard.Validate(ErrGetRunQueryIsNotConstructed)
}

// RunID returns the identifier of the requested run.
func (q GetRunQuery) RunID() kernel.UUID {
	return q.runID
}
