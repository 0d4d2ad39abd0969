package http

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Network defines model for Network.
type Network struct {
	Nodes               int         `json:"nodes"`
	Transporters        int         `json:"transporters"`
	DemandRates         [][]float64 `json:"demandRates"`
	TravelTimes         [][]float64 `json:"travelTimes"`
	GracePeriodMean     [][]float64 `json:"gracePeriodMean"`
	GracePeriodCoeffVar [][]float64 `json:"gracePeriodCoeffVar"`
}

// NewRun defines model for NewRun.
type NewRun struct {
	Name        string  `json:"name"`
	Seed        *uint64 `json:"seed,omitempty"`
	HorizonDays float64 `json:"horizonDays"`
	Network     Network `json:"network"`
}

// Run defines model for Run.
type Run struct {
	Id                openapi_types.UUID `json:"id"`
	Name              string             `json:"name"`
	Seed              uint64             `json:"seed"`
	HorizonDays       float64            `json:"horizonDays"`
	NodeCount         int                `json:"nodeCount"`
	TransporterCount  int                `json:"transporterCount"`
	Created           int                `json:"created"`
	Pending           int                `json:"pending"`
	Assigned          int                `json:"assigned"`
	Delivered         int                `json:"delivered"`
	Late              int                `json:"late"`
	DelayRate         *float64           `json:"delayRate"`
	MeanDelay         *float64           `json:"meanDelay"`
	TransportingRatio *float64           `json:"transportingRatio"`
	Utilization       []float64          `json:"utilization"`
	StartedAt         time.Time          `json:"startedAt"`
	FinishedAt        time.Time          `json:"finishedAt"`
}

// ListRunsParams defines parameters for ListRuns.
type ListRunsParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}
