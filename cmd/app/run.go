package main

import (
	"fmt"
	"io"
	"log/slog"

	"freightsim/internal/adapters/in/console"
	"freightsim/internal/adapters/in/scenario"
	"freightsim/internal/core/application/usecases/commands"
	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/run"
	"freightsim/internal/pkg/des"

	"github.com/spf13/cobra"
)

type runOptions struct {
	scenarioFile string
	seed         uint64
	days         float64
	step         float64
	events       int
	display      bool
	color        bool
	trace        bool
	checks       bool
	logLevel     string
}

func newRunCommand() *cobra.Command {
	var o runOptions

	c := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario in the console without storing it",
		Example: `  freightsim run --scenario scenarios/three-node.yaml --days 30 --step 1 --display
  freightsim run --seed 7 --trace
  freightsim run --events 1000 --display`,
		RunE: func(c *cobra.Command, _ []string) error {
			return runScenario(c, o)
		},
	}

	f := c.Flags()
	f.StringVarP(&o.scenarioFile, "scenario", "s", "scenarios/three-node.yaml", "scenario YAML file")
	f.Uint64Var(&o.seed, "seed", 0, "root seed (defaults to the scenario seed)")
	f.Float64Var(&o.days, "days", 0, "horizon in days (defaults to the scenario horizon)")
	f.Float64Var(&o.step, "step", 0, "days between dumps (defaults to the scenario step)")
	f.IntVar(&o.events, "events", 0, "stop after this many events (0 runs to the horizon)")
	f.BoolVar(&o.display, "display", false, "print the network after every step")
	f.BoolVar(&o.color, "color", false, "color transporter phases")
	f.BoolVar(&o.trace, "trace", false, "print every executed event")
	f.BoolVar(&o.checks, "check", false, "verify network invariants after every event")
	f.StringVar(&o.logLevel, "log-level", "warn", "log level for simulation diagnostics")

	return c
}

func runScenario(c *cobra.Command, o runOptions) error {
	sc, err := scenario.LoadFile(o.scenarioFile)
	if err != nil {
		return err
	}

	seed := sc.Seed
	if c.Flags().Changed("seed") {
		seed = o.seed
	}
	horizon := sc.HorizonDays
	if c.Flags().Changed("days") {
		horizon = o.days
	}
	step := sc.StepDays
	if c.Flags().Changed("step") {
		step = o.step
	}

	var level slog.Level
	if err = level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(c.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cmd, err := commands.NewRunSimulationCommand(kernel.NewUUID(), sc.Name, sc.Config, seed, horizon)
	if err != nil {
		return err
	}

	out := c.OutOrStdout()
	opts := []commands.SimulateOption{commands.WithLogger(logger)}
	if o.display {
		opts = append(opts, commands.WithSteps(step, console.NewRenderer(out, o.color).Observe))
	}
	if o.trace {
		opts = append(opts, commands.WithTrace(func(r des.TraceRecord) {
			fmt.Fprintln(out, r.String())
		}))
	}
	if o.checks {
		opts = append(opts, commands.WithInvariantChecks())
	}
	if o.events > 0 {
		opts = append(opts, commands.WithEventBudget(o.events))
	}

	r, n, err := commands.Simulate(c.Context(), cmd, opts...)
	if err != nil {
		return err
	}

	printSummary(out, r)
	if n.Now() < r.HorizonDays() {
		fmt.Fprintf(out, "Stopped after %d events at %.6f days\n", o.events, n.Now())
	}
	return nil
}

func printSummary(w io.Writer, r *run.Run) {
	fmt.Fprintf(w, "Scenario %s, seed %d, %.2f days\n", r.Name(), r.Seed(), r.HorizonDays())
	fmt.Fprintf(w, "Orders: created %d, pending %d, assigned %d, delivered %d, late %d\n",
		r.Created(), r.Pending(), r.Assigned(), r.Delivered(), r.Late())
	fmt.Fprintf(w, "Delay rate: %s\nMean delay: %s days\nTransporting ratio: %s\n",
		r.DelayRate(), r.MeanDelay(), r.TransportingRatio())
	for i, u := range r.Utilization() {
		fmt.Fprintf(w, "Transporter #%d utilization: %.4f\n", i, u)
	}
}
