// Package runrepo maps run aggregates to the "runs" table.
package runrepo

import (
	"time"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/run"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RunDTO is the database row of a run. Undefined KPIs are stored as NULL.
type RunDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"not null;index"`
	Seed             int64     `gorm:"not null"`
	HorizonDays      float64   `gorm:"not null"`
	NodeCount        int       `gorm:"not null"`
	TransporterCount int       `gorm:"not null"`

	Created   int `gorm:"not null"`
	Pending   int `gorm:"not null"`
	Assigned  int `gorm:"not null"`
	Delivered int `gorm:"not null"`
	Late      int `gorm:"not null"`

	DelayRate         *float64
	MeanDelay         *float64
	TransportingRatio *float64
	Utilization       pq.Float64Array `gorm:"type:double precision[]"`

	StartedAt  time.Time `gorm:"type:timestamptz;not null;index"`
	FinishedAt time.Time `gorm:"type:timestamptz;not null"`
}

// TableName overrides GORM's default naming.
func (RunDTO) TableName() string {
	return "runs"
}

func fromDomain(r *run.Run) RunDTO {
	return RunDTO{
		ID:                r.ID().Bytes(),
		Name:              r.Name(),
		Seed:              int64(r.Seed()), //nolint:gosec // stored bit for bit
		HorizonDays:       r.HorizonDays(),
		NodeCount:         r.NodeCount(),
		TransporterCount:  r.TransporterCount(),
		Created:           r.Created(),
		Pending:           r.Pending(),
		Assigned:          r.Assigned(),
		Delivered:         r.Delivered(),
		Late:              r.Late(),
		DelayRate:         r.DelayRate().Ptr(),
		MeanDelay:         r.MeanDelay().Ptr(),
		TransportingRatio: r.TransportingRatio().Ptr(),
		Utilization:       pq.Float64Array(r.Utilization()),
		StartedAt:         r.StartedAt(),
		FinishedAt:        r.FinishedAt(),
	}
}

func toDomain(dto RunDTO) (*run.Run, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return run.NewRun(run.Params{
		ID:                id,
		Name:              dto.Name,
		Seed:              uint64(dto.Seed), //nolint:gosec // stored bit for bit
		HorizonDays:       dto.HorizonDays,
		NodeCount:         dto.NodeCount,
		TransporterCount:  dto.TransporterCount,
		Created:           dto.Created,
		Pending:           dto.Pending,
		Assigned:          dto.Assigned,
		Delivered:         dto.Delivered,
		Late:              dto.Late,
		DelayRate:         RatioFromPtr(dto.DelayRate),
		MeanDelay:         RatioFromPtr(dto.MeanDelay),
		TransportingRatio: RatioFromPtr(dto.TransportingRatio),
		Utilization:       []float64(dto.Utilization),
		StartedAt:         dto.StartedAt,
		FinishedAt:        dto.FinishedAt,
	})
}

// RatioFromPtr restores a nullable KPI column.
func RatioFromPtr(v *float64) kernel.Ratio {
	if v == nil {
		return kernel.Ratio{}
	}
	return kernel.Ratio{Value: *v, Defined: true}
}
