package run

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/pkg/errs"
	"freightsim/internal/pkg/guard"
)

var (
	// ErrRunIsNotConstructed is returned when using an improperly initialized Run.
	ErrRunIsNotConstructed = errors.New("Run must be created via NewRun constructor")
	// ErrNameIsRequired is returned when a run has no name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// Params holds every attribute of a Run. It is used both to record a new run
// and to restore one from storage.
type Params struct {
	ID               kernel.UUID
	Name             string
	Seed             uint64
	HorizonDays      float64
	NodeCount        int
	TransporterCount int

	Created   int
	Pending   int
	Assigned  int
	Delivered int
	Late      int

	DelayRate         kernel.Ratio
	MeanDelay         kernel.Ratio
	TransportingRatio kernel.Ratio
	Utilization       []float64

	StartedAt  time.Time
	FinishedAt time.Time
}

// Run is the summary of one simulation.
//
// Run follows these invariants:
//   - every created order is counted as pending, assigned or delivered
//   - late deliveries never exceed deliveries
//   - there is one utilization value per transporter, each in [0, 1]
//   - the run finished no earlier than it started
type Run struct {
	p     Params
	guard guard.ConstructorGuard
}

// NewRun validates p and reports every problem at once.
//
// Example:
//
//	r, err := run.NewRun(run.Params{
//	    ID:          kernel.NewUUID(),
//	    Name:        "three-node",
//	    HorizonDays: 30,
//	    // counts and KPIs from network.KPIs()
//	})
func NewRun(p Params) (*Run, error) {
	var problems []error
	add := func(err error) {
		if err != nil {
			problems = append(problems, err)
		}
	}

	add(p.ID.Validate())
	if strings.TrimSpace(p.Name) == "" {
		add(ErrNameIsRequired)
	}
	if !(p.HorizonDays > 0) {
		add(errs.NewValueIsOutOfRangeError("horizonDays", p.HorizonDays, "> 0", "unbounded"))
	}
	if p.NodeCount <= 0 {
		add(errs.NewValueIsOutOfRangeError("nodeCount", p.NodeCount, 1, "unbounded"))
	}
	if p.TransporterCount < 0 {
		add(errs.NewValueIsOutOfRangeError("transporterCount", p.TransporterCount, 0, "unbounded"))
	}
	for _, c := range []struct {
		name  string
		value int
	}{
		{"created", p.Created},
		{"pending", p.Pending},
		{"assigned", p.Assigned},
		{"delivered", p.Delivered},
		{"late", p.Late},
	} {
		if c.value < 0 {
			add(errs.NewValueIsOutOfRangeError(c.name, c.value, 0, "unbounded"))
		}
	}
	if p.Created != p.Pending+p.Assigned+p.Delivered {
		add(errs.NewValueIsInvalidErrorWithCause("created", fmt.Errorf(
			"%d created but %d pending, %d assigned and %d delivered",
			p.Created, p.Pending, p.Assigned, p.Delivered)))
	}
	if p.Late > p.Delivered {
		add(errs.NewValueIsOutOfRangeError("late", p.Late, 0, p.Delivered))
	}
	if len(p.Utilization) != p.TransporterCount {
		add(errs.NewValueIsInvalidErrorWithCause("utilization", fmt.Errorf(
			"%d values for %d transporters", len(p.Utilization), p.TransporterCount)))
	}
	for i, u := range p.Utilization {
		if !(u >= 0 && u <= 1) {
			add(errs.NewValueIsOutOfRangeError(fmt.Sprintf("utilization[%d]", i), u, 0, 1))
		}
	}
	if p.FinishedAt.Before(p.StartedAt) {
		add(errs.NewValueIsInvalidErrorWithCause("finishedAt", fmt.Errorf(
			"%s is before start %s", p.FinishedAt.Format(time.RFC3339), p.StartedAt.Format(time.RFC3339))))
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	p.Utilization = append([]float64(nil), p.Utilization...)
	return &Run{p: p, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the Run was created through NewRun.
func (r *Run) Validate() error {
	if r == nil {
		return ErrRunIsNotConstructed
	}
	return r.guard.Validate(ErrRunIsNotConstructed)
}

// IsEqual compares two runs by identifier.
func (r *Run) IsEqual(other *Run) bool {
	return other != nil && r.p.ID.IsEqual(other.p.ID)
}

// ID returns the run's identifier.
func (r *Run) ID() kernel.UUID { return r.p.ID }

// Name returns the scenario name.
func (r *Run) Name() string { return r.p.Name }

// Seed returns the root seed.
func (r *Run) Seed() uint64 { return r.p.Seed }

// HorizonDays returns the simulated duration.
func (r *Run) HorizonDays() float64 { return r.p.HorizonDays }

// NodeCount returns the number of nodes of the network.
func (r *Run) NodeCount() int { return r.p.NodeCount }

// TransporterCount returns the fleet size.
func (r *Run) TransporterCount() int { return r.p.TransporterCount }

// Created returns the number of orders created.
func (r *Run) Created() int { return r.p.Created }

// Pending returns the number of orders still waiting at the horizon.
func (r *Run) Pending() int { return r.p.Pending }

// Assigned returns the number of orders in progress at the horizon.
func (r *Run) Assigned() int { return r.p.Assigned }

// Delivered returns the number of delivered orders.
func (r *Run) Delivered() int { return r.p.Delivered }

// Late returns the number of orders delivered after their deadline.
func (r *Run) Late() int { return r.p.Late }

// DelayRate returns late / delivered.
func (r *Run) DelayRate() kernel.Ratio { return r.p.DelayRate }

// MeanDelay returns the mean delay of delivered orders in days.
func (r *Run) MeanDelay() kernel.Ratio { return r.p.MeanDelay }

// TransportingRatio returns the mean fraction of time the fleet spent transporting.
func (r *Run) TransportingRatio() kernel.Ratio { return r.p.TransportingRatio }

// Utilization returns a copy of the per transporter utilization, in fleet order.
func (r *Run) Utilization() []float64 {
	return append([]float64(nil), r.p.Utilization...)
}

// StartedAt returns the wall-clock start of the simulation.
func (r *Run) StartedAt() time.Time { return r.p.StartedAt }

// FinishedAt returns the wall-clock end of the simulation.
func (r *Run) FinishedAt() time.Time { return r.p.FinishedAt }

// Params returns a copy of all attributes.
func (r *Run) Params() Params {
	p := r.p
	p.Utilization = r.Utilization()
	return p
}
