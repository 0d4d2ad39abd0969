package queries

import (
	"context"

	"freightsim/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetRunQueryHandler reads one run summary with a direct SQL query.
type GetRunQueryHandler struct {
	db *gorm.DB
}

// NewGetRunQueryHandler creates a handler for single run queries.
func NewGetRunQueryHandler(db *gorm.DB) GetRunQueryHandler {
	return GetRunQueryHandler{db: db}
}

// Handle returns the run summary, or an errs.ObjectNotFoundError when the run
// does not exist.
func (h GetRunQueryHandler) Handle(ctx context.Context, query GetRunQuery) (*RunSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+runSummaryColumns+`
		FROM runs
		WHERE id = ?
	`, query.RunID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("run", query.RunID().String())
	}

	summary, err := scanRunSummary(rows)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
