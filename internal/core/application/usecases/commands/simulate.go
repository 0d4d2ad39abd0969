package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"freightsim/internal/core/domain/model/network"
	"freightsim/internal/core/domain/model/run"
	"freightsim/internal/pkg/des"
	"freightsim/internal/pkg/errs"
)

// StepObserver is called with the network after every step of a stepwise run.
type StepObserver func(ctx context.Context, n *network.Network) error

type simulateOptions struct {
	stepDays  float64
	observe   StepObserver
	events    int
	trace     func(des.TraceRecord)
	checks    bool
	logger    *slog.Logger
	wallClock func() time.Time
}

// SimulateOption configures Simulate.
type SimulateOption func(*simulateOptions)

// WithSteps advances the run stepDays at a time and calls observe after each
// step, including the last, shorter one.
func WithSteps(stepDays float64, observe StepObserver) SimulateOption {
	return func(o *simulateOptions) {
		o.stepDays = stepDays
		o.observe = observe
	}
}

// WithEventBudget stops the run after n fired events, or at the horizon when
// that comes first. Zero means no budget.
func WithEventBudget(n int) SimulateOption {
	return func(o *simulateOptions) {
		o.events = n
	}
}

// WithTrace records every executed event.
func WithTrace(fn func(des.TraceRecord)) SimulateOption {
	return func(o *simulateOptions) {
		o.trace = fn
	}
}

// WithInvariantChecks verifies the network invariants after every network handler.
func WithInvariantChecks() SimulateOption {
	return func(o *simulateOptions) {
		o.checks = true
	}
}

// WithLogger sets the logger passed to the kernel and the network.
func WithLogger(logger *slog.Logger) SimulateOption {
	return func(o *simulateOptions) {
		o.logger = logger
	}
}

// WithWallClock replaces time.Now for the run's start and finish timestamps.
func WithWallClock(now func() time.Time) SimulateOption {
	return func(o *simulateOptions) {
		o.wallClock = now
	}
}

// Simulate runs cmd to its horizon and summarizes the outcome. It does not
// persist anything. The network is returned for inspection even when the run
// fails part way.
func Simulate(ctx context.Context, cmd RunSimulationCommand, opts ...SimulateOption) (*run.Run, *network.Network, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	o := simulateOptions{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		wallClock: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.stepDays < 0 || math.IsNaN(o.stepDays) {
		return nil, nil, errs.NewValueIsOutOfRangeError("stepDays", o.stepDays, 0, cmd.HorizonDays())
	}
	if o.events < 0 {
		return nil, nil, errs.NewValueIsOutOfRangeError("events", o.events, 0, math.MaxInt)
	}

	simOpts := []des.Option{des.WithLogger(o.logger)}
	if o.trace != nil {
		simOpts = append(simOpts, des.WithTrace(o.trace))
	}
	sim := des.New(simOpts...)

	netOpts := []network.Option{network.WithLogger(o.logger)}
	if o.checks {
		netOpts = append(netOpts, network.WithInvariantChecks())
	}

	startedAt := o.wallClock()
	n, err := network.New(cmd.Config(), sim, des.NewSeedSequence(cmd.Seed()), netOpts...)
	if err != nil {
		return nil, nil, err
	}
	if err = n.Start(); err != nil {
		return nil, n, err
	}

	if err = advance(ctx, sim, n, cmd.HorizonDays(), o); err != nil {
		return nil, n, fmt.Errorf("simulate %q: %w", cmd.Name(), err)
	}

	r, err := summarize(cmd, n, startedAt, o.wallClock())
	if err != nil {
		return nil, n, err
	}
	return r, n, nil
}

func advance(ctx context.Context, sim *des.Simulator, n *network.Network, horizon float64, o simulateOptions) error {
	budget := eventBudget{left: o.events, limited: o.events > 0}
	if o.stepDays == 0 || o.observe == nil {
		_, err := budget.run(ctx, sim, horizon)
		return err
	}

	for k := 1; ; k++ {
		until := math.Min(float64(k)*o.stepDays, horizon)
		exhausted, err := budget.run(ctx, sim, until)
		if err != nil {
			return err
		}
		if err = o.observe(ctx, n); err != nil {
			return err
		}
		if exhausted || until >= horizon {
			return nil
		}
	}
}

// eventBudget caps the number of events fired across successive runs.
type eventBudget struct {
	left    int
	limited bool
}

// run advances sim to until, firing at most the remaining budget. It reports
// true when the budget ran out before until; the clock then stays at the last
// fired event.
func (b *eventBudget) run(ctx context.Context, sim *des.Simulator, until float64) (bool, error) {
	if !b.limited {
		return false, sim.Run(ctx, until)
	}

	for b.left > 0 {
		at, ok := sim.NextAt()
		if !ok || at > until {
			break
		}
		fired, err := sim.RunSteps(ctx, 1)
		b.left -= fired
		if err != nil {
			return false, err
		}
	}
	if at, ok := sim.NextAt(); b.left == 0 && ok && at <= until {
		return true, nil
	}
	return false, sim.Run(ctx, until)
}

func summarize(cmd RunSimulationCommand, n *network.Network, startedAt, finishedAt time.Time) (*run.Run, error) {
	k := n.KPIs()

	fleet := n.Transporters()
	utilization := make([]float64, 0, len(fleet))
	for _, t := range fleet {
		v, _ := t.Utilization.Get()
		utilization = append(utilization, v)
	}

	return run.NewRun(run.Params{
		ID:                cmd.RunID(),
		Name:              cmd.Name(),
		Seed:              cmd.Seed(),
		HorizonDays:       cmd.HorizonDays(),
		NodeCount:         cmd.Config().NodeCount(),
		TransporterCount:  cmd.Config().TransporterCount(),
		Created:           k.Created,
		Pending:           k.Pending,
		Assigned:          k.Assigned,
		Delivered:         k.Delivered,
		Late:              k.Late,
		DelayRate:         k.DelayRate,
		MeanDelay:         k.MeanDelay,
		TransportingRatio: k.TransportingRatio,
		Utilization:       utilization,
		StartedAt:         startedAt,
		FinishedAt:        finishedAt,
	})
}
