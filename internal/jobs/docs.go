// Package jobs provides scheduled background tasks for the simulator.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// ScenarioRunJob re-runs a scenario file on a schedule and stores each run.
// Successive ticks use successive seeds starting at the scenario seed, which
// turns a schedule into a seed sweep over time.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(runSimulationHandler, []jobs.Schedule{
//		{Scenario: sc, Spec: "@every 1h"},
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and the schedule continues. A tick that fires while
// the previous run is still going is skipped.
package jobs
