// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"database/sql"
	"time"

	"freightsim/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RunSummary is the read model of a stored simulation run.
type RunSummary struct {
	ID               kernel.UUID
	Name             string
	Seed             uint64
	HorizonDays      float64
	NodeCount        int
	TransporterCount int

	Created   int
	Pending   int
	Assigned  int
	Delivered int
	Late      int

	DelayRate         kernel.Ratio
	MeanDelay         kernel.Ratio
	TransportingRatio kernel.Ratio
	Utilization       []float64

	StartedAt  time.Time
	FinishedAt time.Time
}

const runSummaryColumns = `
			id,
			name,
			seed,
			horizon_days,
			node_count,
			transporter_count,
			created,
			pending,
			assigned,
			delivered,
			late,
			delay_rate,
			mean_delay,
			transporting_ratio,
			utilization,
			started_at,
			finished_at`

func scanRunSummary(rows *sql.Rows) (RunSummary, error) {
	var (
		s                                       RunSummary
		id                                      uuid.UUID
		seed                                    int64
		delayRate, meanDelay, transportingRatio *float64
		utilization                             pq.Float64Array
	)

	err := rows.Scan(
		&id,
		&s.Name,
		&seed,
		&s.HorizonDays,
		&s.NodeCount,
		&s.TransporterCount,
		&s.Created,
		&s.Pending,
		&s.Assigned,
		&s.Delivered,
		&s.Late,
		&delayRate,
		&meanDelay,
		&transportingRatio,
		&utilization,
		&s.StartedAt,
		&s.FinishedAt,
	)
	if err != nil {
		return RunSummary{}, err
	}

	runID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return RunSummary{}, err
	}

	s.ID = runID
	s.Seed = uint64(seed) //nolint:gosec // stored bit for bit
	s.DelayRate = ratio(delayRate)
	s.MeanDelay = ratio(meanDelay)
	s.TransportingRatio = ratio(transportingRatio)
	s.Utilization = []float64(utilization)
	return s, nil
}

func ratio(v *float64) kernel.Ratio {
	if v == nil {
		return kernel.Ratio{}
	}
	return kernel.Ratio{Value: *v, Defined: true}
}
