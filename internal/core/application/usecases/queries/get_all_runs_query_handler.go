package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetAllRunsQueryHandler lists run summaries with a direct SQL query.
//
// Example:
//
//	handler := NewGetAllRunsQueryHandler(db)
//	query, _ := NewGetAllRunsQuery(10)
//
//	runs, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get runs: %v", err)
//	    return err
//	}
type GetAllRunsQueryHandler struct {
	db *gorm.DB
}

// NewGetAllRunsQueryHandler creates a handler for run listing queries.
func NewGetAllRunsQueryHandler(db *gorm.DB) GetAllRunsQueryHandler {
	return GetAllRunsQueryHandler{db: db}
}

// Handle returns up to query.Limit() runs ordered by start time, newest first.
func (h GetAllRunsQueryHandler) Handle(ctx context.Context, query GetAllRunsQuery) ([]RunSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	runs := make([]RunSummary, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+runSummaryColumns+`
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		summary, scanErr := scanRunSummary(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
