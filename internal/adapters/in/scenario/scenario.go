// Package scenario reads simulation scenarios from YAML files.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"freightsim/internal/core/domain/model/network"
	"freightsim/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a scenario.
type File struct {
	Name        string      `yaml:"name"`
	Seed        uint64      `yaml:"seed"`
	HorizonDays float64     `yaml:"horizonDays"`
	StepDays    float64     `yaml:"stepDays"`
	Network     NetworkFile `yaml:"network"`
}

// NetworkFile is the YAML layout of a network definition.
type NetworkFile struct {
	Nodes               int         `yaml:"nodes"`
	Transporters        int         `yaml:"transporters"`
	DemandRates         [][]float64 `yaml:"demandRates"`
	TravelTimes         [][]float64 `yaml:"travelTimes"`
	GracePeriodMean     [][]float64 `yaml:"gracePeriodMean"`
	GracePeriodCoeffVar [][]float64 `yaml:"gracePeriodCoeffVar"`
}

// Scenario is a validated scenario, ready to be simulated.
type Scenario struct {
	Name        string
	Seed        uint64
	HorizonDays float64
	StepDays    float64
	Config      network.Config
}

// LoadFile reads and validates the scenario at path.
func LoadFile(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Decode parses and validates one YAML scenario. Unknown keys are rejected.
func Decode(r io.Reader) (Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Scenario{}, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err = dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, errs.NewValueIsRequiredError("scenario")
		}
		return Scenario{}, fmt.Errorf("parse: %w", err)
	}

	return file.Scenario()
}

// Scenario validates the file and converts it. A missing stepDays defaults to
// the whole horizon.
func (f File) Scenario() (Scenario, error) {
	var problems []error

	if strings.TrimSpace(f.Name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("name"))
	}
	if !(f.HorizonDays > 0) {
		problems = append(problems, errs.NewValueIsOutOfRangeError("horizonDays", f.HorizonDays, "> 0", "unbounded"))
	}
	step := f.StepDays
	if step == 0 {
		step = f.HorizonDays
	}
	if !(step > 0) {
		problems = append(problems, errs.NewValueIsOutOfRangeError("stepDays", f.StepDays, "> 0", "unbounded"))
	}

	cfg, err := network.NewConfig(network.ConfigParams{
		NodeCount:           f.Network.Nodes,
		TransporterCount:    f.Network.Transporters,
		DemandRates:         f.Network.DemandRates,
		TravelTimes:         f.Network.TravelTimes,
		GracePeriodMean:     f.Network.GracePeriodMean,
		GracePeriodCoeffVar: f.Network.GracePeriodCoeffVar,
	})
	if err != nil {
		problems = append(problems, fmt.Errorf("network: %w", err))
	}

	if err = errors.Join(problems...); err != nil {
		return Scenario{}, err
	}

	return Scenario{
		Name:        f.Name,
		Seed:        f.Seed,
		HorizonDays: f.HorizonDays,
		StepDays:    step,
		Config:      cfg,
	}, nil
}
