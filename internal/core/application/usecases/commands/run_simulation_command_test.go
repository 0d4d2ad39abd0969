package commands_test

import (
	"testing"

	"freightsim/internal/core/application/usecases/commands"
	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/network"
	"freightsim/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeNodeConfig(t *testing.T) network.Config {
	t.Helper()
	cfg, err := network.NewConfig(network.ConfigParams{
		NodeCount:           3,
		TransporterCount:    2,
		DemandRates:         [][]float64{{0, 1, 2}, {3, 0, 4}, {5, 6, 0}},
		TravelTimes:         [][]float64{{0, 2.2, 2.5}, {3.0, 0, 4.0}, {3.5, 3.6, 0}},
		GracePeriodMean:     [][]float64{{0, 1.5, 1.0}, {1.5, 0, 1.5}, {2.2, 1.0, 0}},
		GracePeriodCoeffVar: [][]float64{{0, 1.1, 1.3}, {0.8, 0, 0.3}, {0.5, 1.2, 0}},
	})
	require.NoError(t, err)
	return cfg
}

func TestNewRunSimulationCommand(t *testing.T) {
	t.Run("should create a valid command", func(t *testing.T) {
		id := kernel.NewUUID()
		cfg := threeNodeConfig(t)

		cmd, err := commands.NewRunSimulationCommand(id, "three-node", cfg, 7, 30)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.RunID().IsEqual(id))
		assert.Equal(t, "three-node", cmd.Name())
		assert.Equal(t, uint64(7), cmd.Seed())
		assert.Equal(t, 30.0, cmd.HorizonDays())
		assert.Equal(t, 3, cmd.Config().NodeCount())
	})

	t.Run("should report every invalid argument", func(t *testing.T) {
		_, err := commands.NewRunSimulationCommand(kernel.UUID{}, "", network.Config{}, 0, -1)

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, commands.ErrNameIsRequired)
		assert.ErrorIs(t, err, network.ErrConfigIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject a horizon above the limit", func(t *testing.T) {
		_, err := commands.NewRunSimulationCommand(
			kernel.NewUUID(), "three-node", threeNodeConfig(t), 0, commands.MaxHorizonDays+1)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "horizonDays")
	})

	t.Run("should accept a horizon at the limit", func(t *testing.T) {
		_, err := commands.NewRunSimulationCommand(
			kernel.NewUUID(), "three-node", threeNodeConfig(t), 0, commands.MaxHorizonDays)

		assert.NoError(t, err)
	})

	t.Run("should reject a run expected to create too many orders", func(t *testing.T) {
		cfg, err := network.NewConfig(network.ConfigParams{
			NodeCount:           2,
			TransporterCount:    1,
			DemandRates:         [][]float64{{0, 1e6}, {0, 0}},
			TravelTimes:         [][]float64{{0, 1}, {1, 0}},
			GracePeriodMean:     [][]float64{{0, 1}, {1, 0}},
			GracePeriodCoeffVar: [][]float64{{0, 0}, {0, 0}},
		})
		require.NoError(t, err)

		_, err = commands.NewRunSimulationCommand(kernel.NewUUID(), "flood", cfg, 0, 2)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "expectedOrders")
	})

	t.Run("should fail validation when not constructed", func(t *testing.T) {
		var cmd commands.RunSimulationCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrRunSimulationCommandIsNotConstructed)
	})
}
