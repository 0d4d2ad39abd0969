package commands

import (
	"context"
	"io"
	"log/slog"

	"freightsim/internal/core/domain/model/run"
)

// RunSimulationCommandHandler simulates a network and stores the run summary.
//
// Example:
//
//	handler := NewRunSimulationCommandHandler(uowFactory, logger)
//	r, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("simulation failed: %w", err)
//	}
//	fmt.Println(r.DelayRate())
type RunSimulationCommandHandler struct {
	uowFactory RunUoWFactory
	logger     *slog.Logger
	opts       []SimulateOption
}

// NewRunSimulationCommandHandler creates the handler. opts are applied to
// every simulation it runs.
func NewRunSimulationCommandHandler(
	uowFactory RunUoWFactory,
	logger *slog.Logger,
	opts ...SimulateOption,
) RunSimulationCommandHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return RunSimulationCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "RunSimulationCommandHandler"),
		opts:       opts,
	}
}

// Handle runs the simulation to its horizon, then persists the summary in a
// single transaction. Nothing is stored when the simulation fails.
func (h *RunSimulationCommandHandler) Handle(ctx context.Context, cmd RunSimulationCommand) (*run.Run, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "simulation started",
		"run_id", cmd.RunID().String(),
		"name", cmd.Name(),
		"seed", cmd.Seed(),
		"horizon_days", cmd.HorizonDays())

	opts := append([]SimulateOption{WithLogger(h.logger)}, h.opts...)
	r, _, err := Simulate(ctx, cmd, opts...)
	if err != nil {
		h.logger.ErrorContext(ctx, "simulation failed", "run_id", cmd.RunID().String(), "error", err)
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RunRepository().Add(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "simulation finished",
		"run_id", r.ID().String(),
		"created", r.Created(),
		"delivered", r.Delivered(),
		"delay_rate", r.DelayRate().String(),
		"transporting_ratio", r.TransportingRatio().String())

	return r, nil
}
