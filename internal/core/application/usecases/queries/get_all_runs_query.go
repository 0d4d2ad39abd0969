package queries

import (
	"errors"

	"freightsim/internal/pkg/errs"
	"freightsim/internal/pkg/guard"
)

const (
	// DefaultRunsLimit is used when a caller does not choose a page size.
	DefaultRunsLimit = 20
	// MaxRunsLimit bounds a single page of runs.
	MaxRunsLimit = 500
)

var (
	ErrGetAllRunsQueryIsNotConstructed = errors.New(
		"GetAllRunsQuery must be created via NewGetAllRunsQuery constructor",
	)
)

// GetAllRunsQuery lists the most recent runs, newest first.
//
// Example:
//
//	query, _ := NewGetAllRunsQuery(DefaultRunsLimit)
//	runs, err := NewGetAllRunsQueryHandler(db).Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list runs: %w", err)
//	}
//
//	for _, r := range runs {
//	    fmt.Printf("%s %s delay rate %s\n", r.ID, r.Name, r.DelayRate)
//	}
type GetAllRunsQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewGetAllRunsQuery creates a query returning at most limit runs.
func NewGetAllRunsQuery(limit int) (GetAllRunsQuery, error) {
	if limit < 1 || limit > MaxRunsLimit {
		return GetAllRunsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxRunsLimit)
	}
	return GetAllRunsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllRunsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllRunsQueryIsNotConstructed)
}

// Limit returns the page size.
func (q GetAllRunsQuery) Limit() int {
	return q.limit
}
