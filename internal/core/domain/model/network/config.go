package network

import (
	"errors"
	"fmt"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/pkg/des"
	"freightsim/internal/pkg/errs"
	"freightsim/internal/pkg/guard"
)

// Size limits of a single network.
const (
	MaxNodeCount        = 1000
	MaxTransporterCount = 10000
)

// ErrConfigIsNotConstructed is returned when a zero value Config is used.
var ErrConfigIsNotConstructed = errs.NewValueIsRequiredError("config must be created via NewConfig")

// ConfigParams is the raw, unvalidated network description. Matrices are
// indexed [origin][destination]; rates are in orders per day, times in days.
type ConfigParams struct {
	NodeCount           int
	TransporterCount    int
	DemandRates         [][]float64
	TravelTimes         [][]float64
	GracePeriodMean     [][]float64
	GracePeriodCoeffVar [][]float64
}

// Config is an immutable, validated network description.
type Config struct {
	nodeCount           int
	transporterCount    int
	demandRates         kernel.Matrix
	travelTimes         kernel.Matrix
	gracePeriodMean     kernel.Matrix
	gracePeriodCoeffVar kernel.Matrix
	guard               guard.ConstructorGuard
}

// NewConfig validates p and reports every problem at once.
//
// Rules:
//   - 1..MaxNodeCount nodes and 0..MaxTransporterCount transporters
//   - every matrix is NodeCount x NodeCount
//   - no negative, NaN or infinite entries
//   - demand rates and travel times have a zero diagonal
//   - every grace period mean and cv pair maps to a finite gamma shape and rate
func NewConfig(p ConfigParams) (Config, error) {
	var problems []error

	if p.NodeCount <= 0 || p.NodeCount > MaxNodeCount {
		problems = append(problems, errs.NewValueIsOutOfRangeError("nodeCount", p.NodeCount, 1, MaxNodeCount))
	}
	if p.TransporterCount < 0 || p.TransporterCount > MaxTransporterCount {
		problems = append(problems,
			errs.NewValueIsOutOfRangeError("transporterCount", p.TransporterCount, 0, MaxTransporterCount))
	}

	matrix := func(name string, rows [][]float64, zeroDiagonal bool) kernel.Matrix {
		m, err := kernel.NewMatrix(name, rows)
		if err != nil {
			problems = append(problems, err)
			return kernel.Matrix{}
		}
		if p.NodeCount > 0 && m.Size() != p.NodeCount {
			problems = append(problems, errs.NewValueIsOutOfRangeError(name+" size", m.Size(), p.NodeCount, p.NodeCount))
			return kernel.Matrix{}
		}
		if zeroDiagonal {
			if err = m.ZeroDiagonal(name); err != nil {
				problems = append(problems, err)
			}
		}
		return m
	}

	cfg := Config{
		nodeCount:           p.NodeCount,
		transporterCount:    p.TransporterCount,
		demandRates:         matrix("demandRates", p.DemandRates, true),
		travelTimes:         matrix("travelTimes", p.TravelTimes, true),
		gracePeriodMean:     matrix("gracePeriodMean", p.GracePeriodMean, false),
		gracePeriodCoeffVar: matrix("gracePeriodCoeffVar", p.GracePeriodCoeffVar, false),
		guard:               guard.NewConstructorGuard(),
	}
	if cfg.gracePeriodMean.Size() == p.NodeCount && cfg.gracePeriodCoeffVar.Size() == p.NodeCount {
		problems = append(problems, gracePeriodProblems(cfg.gracePeriodMean, cfg.gracePeriodCoeffVar)...)
	}

	if err := errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func gracePeriodProblems(mean, cv kernel.Matrix) []error {
	var problems []error
	for o := range mean.Size() {
		for d := range mean.Size() {
			m, c := mean.At(kernel.Node(o), kernel.Node(d)), cv.At(kernel.Node(o), kernel.Node(d))
			if m <= 0 || c <= 0 {
				continue
			}
			if _, _, err := des.GammaParams(m, c); err != nil {
				problems = append(problems, errs.NewValueIsOutOfRangeErrorWithCause(
					fmt.Sprintf("gracePeriodCoeffVar[%d][%d]", o, d), c, 0, "unbounded", err))
			}
		}
	}
	return problems
}

// TotalDemandRate returns the sum of all pair rates, orders per day.
func (c Config) TotalDemandRate() float64 {
	total := 0.0
	for _, row := range c.demandRates.Rows() {
		for _, r := range row {
			total += r
		}
	}
	return total
}

// Validate returns ErrConfigIsNotConstructed for a zero value Config.
func (c Config) Validate() error {
	return c.guard.Validate(ErrConfigIsNotConstructed)
}

// NodeCount returns the number of nodes.
func (c Config) NodeCount() int { return c.nodeCount }

// TransporterCount returns the fleet size.
func (c Config) TransporterCount() int { return c.transporterCount }

// DemandRates returns the Poisson arrival rates per pair, orders per day.
func (c Config) DemandRates() kernel.Matrix { return c.demandRates }

// TravelTimes returns the travel times per pair, in days.
func (c Config) TravelTimes() kernel.Matrix { return c.travelTimes }

// GracePeriodMean returns the mean of the delivery grace period per pair.
func (c Config) GracePeriodMean() kernel.Matrix { return c.gracePeriodMean }

// GracePeriodCoeffVar returns the coefficient of variation of the grace period per pair.
func (c Config) GracePeriodCoeffVar() kernel.Matrix { return c.gracePeriodCoeffVar }

// Params returns the configuration as raw values, for persistence and display.
func (c Config) Params() ConfigParams {
	return ConfigParams{
		NodeCount:           c.nodeCount,
		TransporterCount:    c.transporterCount,
		DemandRates:         c.demandRates.Rows(),
		TravelTimes:         c.travelTimes.Rows(),
		GracePeriodMean:     c.gracePeriodMean.Rows(),
		GracePeriodCoeffVar: c.gracePeriodCoeffVar.Rows(),
	}
}
