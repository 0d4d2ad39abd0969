package network

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/order"
	"freightsim/internal/core/domain/model/transporter"
	"freightsim/internal/core/domain/services"
	"freightsim/internal/pkg/des"
	"freightsim/internal/pkg/errs"
)

// Stream labels. A stream depends only on its labels and the root seed.
const (
	StreamNetwork uint64 = iota + 1
	StreamTransporter
	StreamGenerator
)

var (
	// ErrNetworkIsNotConstructed is returned when using an improperly initialized Network.
	ErrNetworkIsNotConstructed = errors.New("Network must be created via New constructor")
	// ErrNetworkAlreadyStarted is returned by a second call to Start.
	ErrNetworkAlreadyStarted = errors.New("network already started")
)

// Scheduler is the part of the simulation kernel the network needs.
type Scheduler interface {
	transporter.Scheduler
	ExecuteNow(name string, fn func() error) error
}

// Dispatcher chooses the idle transporter that serves an order. It returns
// services.ErrNoIdleTransporter when none is available.
type Dispatcher interface {
	Select(o *order.Order, fleet []*transporter.Transporter, travel kernel.Matrix) (*transporter.Transporter, error)
}

// Option configures a Network.
type Option func(*Network)

// WithInvariantChecks makes every network handler verify CheckInvariants
// before it returns.
func WithInvariantChecks() Option {
	return func(n *Network) {
		n.checkInvariants = true
	}
}

// WithLogger sets the logger. Events are logged at Debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Network) {
		n.logger = logger
	}
}

// WithDispatcher replaces the nearest idle dispatch policy.
func WithDispatcher(d Dispatcher) Option {
	return func(n *Network) {
		n.dispatcher = d
	}
}

// Network owns the generators, the fleet and the order collections.
type Network struct {
	config    Config
	scheduler Scheduler
	stream    *des.Stream

	transporters []*transporter.Transporter
	generators   []*generator

	pending   []*order.Order
	assigned  map[kernel.UUID]*order.Order
	delivered []*order.Order
	created   int

	dispatcher      Dispatcher
	dispatching     bool
	started         bool
	checkInvariants bool

	logger *slog.Logger
}

// New builds the network for cfg on top of scheduler. Transporters are placed
// on their start nodes; nothing is scheduled until Start.
//
// Example:
//
//	sim := des.New()
//	n, err := network.New(cfg, sim, des.NewSeedSequence(seed))
//	if err != nil {
//	    return err
//	}
//	if err = n.Start(); err != nil {
//	    return err
//	}
//	err = sim.Run(ctx, horizon)
func New(cfg Config, scheduler Scheduler, seeds des.SeedSequence, opts ...Option) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scheduler == nil {
		return nil, errs.NewValueIsRequiredError("scheduler")
	}

	n := &Network{
		config:     cfg,
		scheduler:  scheduler,
		stream:     seeds.Derive(StreamNetwork),
		assigned:   make(map[kernel.UUID]*order.Order),
		dispatcher: services.NewNearestIdleDispatcher(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With("component", "network")

	for i := range cfg.TransporterCount() {
		start := kernel.Node(seeds.Derive(StreamTransporter, uint64(i)).IntN(cfg.NodeCount()))
		t, err := transporter.NewTransporter(i, start, cfg.TravelTimes(), scheduler)
		if err != nil {
			return nil, fmt.Errorf("create transporter %d: %w", i, err)
		}
		t.OnStartTransport(n.onStartTransport)
		t.OnFinishTransport(n.onFinishTransport)
		n.transporters = append(n.transporters, t)
	}

	rates := cfg.DemandRates()
	for o := range cfg.NodeCount() {
		for d := range cfg.NodeCount() {
			rate := rates.At(kernel.Node(o), kernel.Node(d))
			if rate <= 0 {
				continue
			}
			n.generators = append(n.generators, &generator{
				origin:      kernel.Node(o),
				destination: kernel.Node(d),
				rate:        rate,
				nodeCount:   cfg.NodeCount(),
				stream:      seeds.Derive(StreamGenerator, uint64(o), uint64(d)),
				scheduler:   scheduler,
				onArrival:   n.onArrival,
			})
		}
	}

	return n, nil
}

// Start schedules the first arrival of every generator.
func (n *Network) Start() error {
	if n == nil || n.assigned == nil {
		return ErrNetworkIsNotConstructed
	}
	if n.started {
		return ErrNetworkAlreadyStarted
	}
	n.started = true

	for _, g := range n.generators {
		if err := g.start(); err != nil {
			return fmt.Errorf("start %s: %w", g.name(), err)
		}
	}

	n.logger.Debug("network started",
		"nodes", n.config.NodeCount(),
		"transporters", len(n.transporters),
		"generators", len(n.generators))
	return nil
}

// Config returns the network configuration.
func (n *Network) Config() Config {
	return n.config
}

// Now returns the current simulated time.
func (n *Network) Now() float64 {
	return n.scheduler.Now()
}

// Dispatch assigns pending orders, oldest first, to idle transporters until
// one side runs out. Nested calls return immediately; the outer loop picks up
// whatever they would have done.
func (n *Network) Dispatch() error {
	if n.dispatching {
		return nil
	}
	n.dispatching = true
	defer func() { n.dispatching = false }()

	for len(n.pending) > 0 {
		head := n.pending[0]

		t, err := n.dispatcher.Select(head, n.transporters, n.config.TravelTimes())
		if errors.Is(err, services.ErrNoIdleTransporter) {
			return nil
		}
		if err != nil {
			return err
		}

		n.pending[0] = nil
		n.pending = n.pending[1:]
		if err = head.Assign(t.ID()); err != nil {
			return err
		}
		n.assigned[head.ID()] = head

		n.logger.Debug("order assigned",
			"sim_time", n.Now(),
			"order_id", head.ID().String(),
			"transporter", t.Index(),
			"from", t.CurrentNode().String(),
			"origin", head.Origin().String())

		if err = t.Assign(head); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) onArrival(o *order.Order) error {
	now := n.Now()
	grace, err := n.stream.Gamma(
		n.config.GracePeriodMean().At(o.Origin(), o.Destination()),
		n.config.GracePeriodCoeffVar().At(o.Origin(), o.Destination()),
	)
	if err != nil {
		return fmt.Errorf("grace period for %s->%s: %w", o.Origin(), o.Destination(), err)
	}
	if err = o.Place(now, now+grace); err != nil {
		return err
	}

	n.pending = append(n.pending, o)
	n.created++

	n.logger.Debug("order placed",
		"sim_time", now,
		"order_id", o.ID().String(),
		"origin", o.Origin().String(),
		"destination", o.Destination().String(),
		"expected_delivery_at", o.ExpectedDeliveryAt())

	if err = n.Dispatch(); err != nil {
		return err
	}
	return n.verify()
}

func (n *Network) onStartTransport(t *transporter.Transporter, o *order.Order) error {
	if _, ok := n.assigned[o.ID()]; !ok {
		return errs.NewInvariantViolationError("network",
			fmt.Sprintf("transporter %d started an order that is not assigned (%s)", t.Index(), o.ID()))
	}
	n.logger.Debug("transport started", "sim_time", n.Now(), "order_id", o.ID().String(), "transporter", t.Index())
	return nil
}

func (n *Network) onFinishTransport(t *transporter.Transporter, o *order.Order) error {
	if _, ok := n.assigned[o.ID()]; !ok {
		return errs.NewInvariantViolationError("network",
			fmt.Sprintf("transporter %d delivered an order that is not assigned (%s)", t.Index(), o.ID()))
	}

	delete(n.assigned, o.ID())
	n.delivered = append(n.delivered, o)
	if err := o.Deliver(n.Now()); err != nil {
		return err
	}

	delay, _ := o.Delay()
	n.logger.Debug("order delivered",
		"sim_time", n.Now(),
		"order_id", o.ID().String(),
		"transporter", t.Index(),
		"delay", delay)

	if err := n.Dispatch(); err != nil {
		return err
	}
	return n.verify()
}

func (n *Network) verify() error {
	if !n.checkInvariants {
		return nil
	}
	return n.CheckInvariants()
}
