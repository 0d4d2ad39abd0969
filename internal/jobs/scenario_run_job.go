package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"freightsim/internal/adapters/in/scenario"
	"freightsim/internal/core/application/usecases/commands"
	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/run"

	"github.com/robfig/cron/v3"
)

// RunSimulationHandler runs and stores one simulation.
type RunSimulationHandler interface {
	Handle(ctx context.Context, cmd commands.RunSimulationCommand) (*run.Run, error)
}

// ScenarioRunJob re-runs one scenario on a cron schedule. Tick n uses the
// scenario seed plus n, so a series of runs is a reproducible seed sweep.
type ScenarioRunJob struct {
	handler  RunSimulationHandler
	scenario scenario.Scenario
	spec     string
	cron     *cron.Cron
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	tick uint64
}

// NewScenarioRunJob creates a job for sc. spec accepts an optional seconds
// field and descriptors such as "@every 1h".
func NewScenarioRunJob(
	handler RunSimulationHandler,
	sc scenario.Scenario,
	spec string,
	logger *slog.Logger,
) *ScenarioRunJob {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	logger = logger.With("component", "scenario_run_job", "scenario", sc.Name)
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
	ctx, cancel := context.WithCancel(context.Background())
	return &ScenarioRunJob{
		handler:  handler,
		scenario: sc,
		spec:     spec,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start schedules the job.
func (j *ScenarioRunJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		if _, err := j.RunOnce(j.ctx); err != nil {
			j.logger.ErrorContext(j.ctx, "Scenario run job failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Scenario run job started", "schedule", j.spec)
	return nil
}

// RunOnce runs the next simulation of the sweep.
func (j *ScenarioRunJob) RunOnce(ctx context.Context) (*run.Run, error) {
	j.mu.Lock()
	seed := j.scenario.Seed + j.tick
	j.tick++
	j.mu.Unlock()

	cmd, err := commands.NewRunSimulationCommand(
		kernel.NewUUID(), j.scenario.Name, j.scenario.Config, seed, j.scenario.HorizonDays,
	)
	if err != nil {
		return nil, err
	}

	return j.handler.Handle(ctx, cmd)
}

// Stop stops scheduling, cancels a running simulation and waits for it to
// return. The simulation halts before its next event.
func (j *ScenarioRunJob) Stop() {
	stopped := j.cron.Stop()
	j.cancel()
	<-stopped.Done()
	j.logger.InfoContext(context.Background(), "Scenario run job stopped")
}
