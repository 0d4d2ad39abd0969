package network

import (
	"fmt"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/order"
	"freightsim/internal/pkg/des"
)

// generator produces the orders of one (origin, destination) pair as a
// Poisson process.
type generator struct {
	origin      kernel.Node
	destination kernel.Node
	rate        float64
	nodeCount   int
	sequence    int

	stream    *des.Stream
	scheduler Scheduler
	onArrival func(*order.Order) error
}

func (g *generator) name() string {
	return fmt.Sprintf("generator[%d->%d]", g.origin, g.destination)
}

// start schedules the first arrival one exponential gap from now. Nothing
// arrives at the start instant itself.
func (g *generator) start() error {
	return g.scheduleNext()
}

func (g *generator) scheduleNext() error {
	gap := g.stream.Exponential(g.rate)
	return g.scheduler.Schedule(gap, g.name(), g.arrive)
}

func (g *generator) arrive() error {
	id := kernel.UUIDFromName(fmt.Sprintf("order/%d/%d/%d", g.origin, g.destination, g.sequence))
	g.sequence++

	o, err := order.NewOrder(id, g.origin, g.destination, g.nodeCount)
	if err != nil {
		return err
	}

	if err = g.scheduler.ExecuteNow(g.name()+".arrival", func() error {
		return g.onArrival(o)
	}); err != nil {
		return err
	}

	return g.scheduleNext()
}
