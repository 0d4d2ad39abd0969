package commands

import (
	"errors"
	"strings"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/network"
	"freightsim/internal/pkg/errs"
	"freightsim/internal/pkg/guard"
)

// Work limits of a single run. MaxExpectedOrders bounds the total demand rate
// times the horizon, the mean number of orders a run creates.
const (
	MaxHorizonDays    = 3650
	MaxExpectedOrders = 1_000_000
)

var (
	ErrRunSimulationCommandIsNotConstructed = errors.New(
		"RunSimulationCommand must be created via NewRunSimulationCommand constructor",
	)
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// RunSimulationCommand requests one simulation of a network over a horizon.
//
// Example:
//
//	cfg, _ := network.NewConfig(params)
//	cmd, err := NewRunSimulationCommand(kernel.NewUUID(), "three-node", cfg, 42, 30)
//	if err != nil {
//	    return fmt.Errorf("invalid run request: %w", err)
//	}
//
//	r, err := handler.Handle(ctx, cmd)
type RunSimulationCommand struct { //nolint:recvcheck //using for validation
	runID       kernel.UUID
	name        string
	config      network.Config
	seed        uint64
	horizonDays float64

	guard guard.ConstructorGuard
}

// NewRunSimulationCommand validates and creates the command.
func NewRunSimulationCommand(
	runID kernel.UUID,
	name string,
	config network.Config,
	seed uint64,
	horizonDays float64,
) (RunSimulationCommand, error) {
	cmd := RunSimulationCommand{
		seed:  seed,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRunID(runID),
		cmd.setName(name),
		cmd.setConfig(config),
		cmd.setHorizonDays(horizonDays),
	); err != nil {
		return RunSimulationCommand{}, err
	}
	if expected := config.TotalDemandRate() * horizonDays; expected > MaxExpectedOrders {
		return RunSimulationCommand{}, errs.NewValueIsOutOfRangeError(
			"expectedOrders", expected, 0, MaxExpectedOrders)
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RunSimulationCommand) Validate() error {
	return c.guard.Validate(ErrRunSimulationCommandIsNotConstructed)
}

// RunID returns the identifier the resulting run will carry.
func (c RunSimulationCommand) RunID() kernel.UUID {
	return c.runID
}

// Name returns the scenario name.
func (c RunSimulationCommand) Name() string {
	return c.name
}

// Config returns the network to simulate.
func (c RunSimulationCommand) Config() network.Config {
	return c.config
}

// Seed returns the root seed.
func (c RunSimulationCommand) Seed() uint64 {
	return c.seed
}

// HorizonDays returns the simulated duration.
func (c RunSimulationCommand) HorizonDays() float64 {
	return c.horizonDays
}

func (c *RunSimulationCommand) setRunID(runID kernel.UUID) error {
	if err := runID.Validate(); err != nil {
		return err
	}

	c.runID = runID
	return nil
}

func (c *RunSimulationCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RunSimulationCommand) setConfig(config network.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	c.config = config
	return nil
}

func (c *RunSimulationCommand) setHorizonDays(horizonDays float64) error {
	if !(horizonDays > 0) || horizonDays > MaxHorizonDays {
		return errs.NewValueIsOutOfRangeError("horizonDays", horizonDays, "> 0", MaxHorizonDays)
	}

	c.horizonDays = horizonDays
	return nil
}
