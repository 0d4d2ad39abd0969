package jobs

import (
	"fmt"
	"log/slog"

	"freightsim/internal/adapters/in/scenario"
)

// Schedule pairs a scenario with the cron spec it runs on.
type Schedule struct {
	Scenario scenario.Scenario
	Spec     string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	scenarioJobs []*ScenarioRunJob
}

// NewJobManager creates one ScenarioRunJob per schedule.
func NewJobManager(
	runSimulationHandler RunSimulationHandler,
	schedules []Schedule,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{}
	for _, s := range schedules {
		jm.scenarioJobs = append(jm.scenarioJobs,
			NewScenarioRunJob(runSimulationHandler, s.Scenario, s.Spec, logger))
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start, after stopping those already started.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.scenarioJobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.scenarioJobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start scenario run job %q: %w", job.scenario.Name, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for _, job := range jm.scenarioJobs {
		job.Stop()
	}
}

// Len returns the number of managed jobs.
func (jm *JobManager) Len() int {
	return len(jm.scenarioJobs)
}
