package http

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"

	"freightsim/internal/core/application/usecases/commands"
	"freightsim/internal/core/application/usecases/queries"
	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/network"
	"freightsim/internal/core/domain/model/run"
	"freightsim/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	// RunSimulationHandler runs and stores a simulation.
	RunSimulationHandler interface {
		Handle(ctx context.Context, cmd commands.RunSimulationCommand) (*run.Run, error)
	}

	// GetRunHandler reads one run summary.
	GetRunHandler interface {
		Handle(ctx context.Context, query queries.GetRunQuery) (*queries.RunSummary, error)
	}

	// GetAllRunsHandler lists run summaries.
	GetAllRunsHandler interface {
		Handle(ctx context.Context, query queries.GetAllRunsQuery) ([]queries.RunSummary, error)
	}
)

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	runSimulationHandler RunSimulationHandler

	getRunHandler     GetRunHandler
	getAllRunsHandler GetAllRunsHandler

	seed func() uint64
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	runSimulationHandler RunSimulationHandler,
	getRunHandler GetRunHandler,
	getAllRunsHandler GetAllRunsHandler,
) *Server {
	return &Server{
		runSimulationHandler: runSimulationHandler,
		getRunHandler:        getRunHandler,
		getAllRunsHandler:    getAllRunsHandler,
		seed:                 rand.Uint64,
	}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateRun handles POST /api/v1/runs - simulates the posted network to its
// horizon and stores the summary. A missing seed is drawn at random.
func (s *Server) CreateRun(ctx echo.Context) error {
	var body NewRun
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cfg, err := network.NewConfig(network.ConfigParams{
		NodeCount:           body.Network.Nodes,
		TransporterCount:    body.Network.Transporters,
		DemandRates:         body.Network.DemandRates,
		TravelTimes:         body.Network.TravelTimes,
		GracePeriodMean:     body.Network.GracePeriodMean,
		GracePeriodCoeffVar: body.Network.GracePeriodCoeffVar,
	})
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid network: " + err.Error(),
		})
	}

	seed := s.seed()
	if body.Seed != nil {
		seed = *body.Seed
	}

	cmd, err := commands.NewRunSimulationCommand(kernel.NewUUID(), body.Name, cfg, seed, body.HorizonDays)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid run: " + err.Error(),
		})
	}

	r, err := s.runSimulationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		message := "Failed to run simulation"
		if errors.Is(err, errs.ErrInvariantViolation) {
			message = "Simulation stopped: " + err.Error()
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: message,
		})
	}

	return ctx.JSON(http.StatusCreated, fromRun(r))
}

// ListRuns handles GET /api/v1/runs.
func (s *Server) ListRuns(ctx echo.Context, params ListRunsParams) error {
	limit := queries.DefaultRunsLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetAllRunsQuery(limit)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	summaries, err := s.getAllRunsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve runs",
		})
	}

	response := make([]Run, len(summaries))
	for i, summary := range summaries {
		response[i] = fromSummary(summary)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetRun handles GET /api/v1/runs/{runId}.
func (s *Server) GetRun(ctx echo.Context, runId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(runId[:])
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid run id",
		})
	}

	query, err := queries.NewGetRunQuery(id)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid run id",
		})
	}

	summary, err := s.getRunHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Run not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve run",
		})
	}

	return ctx.JSON(http.StatusOK, fromSummary(*summary))
}

func fromRun(r *run.Run) Run {
	return Run{
		Id:                r.ID().Bytes(),
		Name:              r.Name(),
		Seed:              r.Seed(),
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
		Utilization:       nonNil(r.Utilization()),
		StartedAt:         r.StartedAt(),
		FinishedAt:        r.FinishedAt(),
	}
}

func fromSummary(s queries.RunSummary) Run {
	return Run{
		Id:                s.ID.Bytes(),
		Name:              s.Name,
		Seed:              s.Seed,
		HorizonDays:       s.HorizonDays,
		NodeCount:         s.NodeCount,
		TransporterCount:  s.TransporterCount,
		Created:           s.Created,
		Pending:           s.Pending,
		Assigned:          s.Assigned,
		Delivered:         s.Delivered,
		Late:              s.Late,
		DelayRate:         s.DelayRate.Ptr(),
		MeanDelay:         s.MeanDelay.Ptr(),
		TransportingRatio: s.TransportingRatio.Ptr(),
		Utilization:       nonNil(s.Utilization),
		StartedAt:         s.StartedAt,
		FinishedAt:        s.FinishedAt,
	}
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
