package transporter

import (
	"errors"
	"fmt"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/order"
	"freightsim/internal/pkg/errs"
	"freightsim/internal/pkg/guard"
)

var (
	// ErrTransporterIsNotConstructed is returned when using an improperly initialized Transporter.
	ErrTransporterIsNotConstructed = errors.New("Transporter must be created via NewTransporter constructor")
	// ErrSchedulerIsRequired is returned when a transporter is built without a scheduler.
	ErrSchedulerIsRequired = errs.NewValueIsRequiredError("scheduler")
)

// Scheduler is the part of the simulation kernel a transporter needs.
type Scheduler interface {
	Now() float64
	Schedule(delay float64, name string, fn func() error) error
}

// Listener is notified when a transporter starts or finishes a transport.
// An error halts the simulation run.
type Listener func(t *Transporter, o *order.Order) error

// Transporter is a vehicle of the fleet. It exclusively owns its phase,
// position and assignment; they change only through Assign and the events it
// schedules for itself.
type Transporter struct {
	id    kernel.UUID
	index int

	state            State
	lastTransitionAt float64
	utilization      Utilization

	travel    kernel.Matrix
	scheduler Scheduler

	onStart  []Listener
	onFinish []Listener

	guard guard.ConstructorGuard
}

// NewTransporter creates an idle transporter at start. index is its position in
// the fleet and also determines its identifier.
//
// Example:
//
//	t, err := transporter.NewTransporter(0, 2, travel, sim)
//	t.OnFinishTransport(func(t *transporter.Transporter, o *order.Order) error {
//	    return network.Delivered(o)
//	})
func NewTransporter(index int, start kernel.Node, travel kernel.Matrix, scheduler Scheduler) (*Transporter, error) {
	t := &Transporter{
		id:    kernel.UUIDFromName(fmt.Sprintf("transporter/%d", index)),
		index: index,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setIndex(index),
		t.setTravel(travel),
		t.setStart(start, travel),
		t.setScheduler(scheduler),
	); err != nil {
		return nil, err
	}

	t.lastTransitionAt = scheduler.Now()
	t.utilization.Observe(0, t.lastTransitionAt)
	return t, nil
}

// Validate checks construction and the idle iff no order iff no target rule.
func (t *Transporter) Validate() error {
	if t == nil {
		return ErrTransporterIsNotConstructed
	}
	if err := t.guard.Validate(ErrTransporterIsNotConstructed); err != nil {
		return err
	}
	return t.state.Check()
}

// OnStartTransport registers a subscriber for transport starts.
func (t *Transporter) OnStartTransport(l Listener) {
	t.onStart = append(t.onStart, l)
}

// OnFinishTransport registers a subscriber for deliveries.
func (t *Transporter) OnFinishTransport(l Listener) {
	t.onFinish = append(t.onFinish, l)
}

// Assign hands o to the transporter. It fails with an invariant violation
// unless the transporter is idle.
func (t *Transporter) Assign(o *order.Order) error {
	return t.apply(Assign(o))
}

// ID returns the transporter's identifier.
func (t *Transporter) ID() kernel.UUID {
	return t.id
}

// Index returns the position in the fleet.
func (t *Transporter) Index() int {
	return t.index
}

// Phase returns the current phase.
func (t *Transporter) Phase() Phase {
	return t.state.Phase
}

// IsIdle reports whether the transporter can take an order.
func (t *Transporter) IsIdle() bool {
	return t.state.Phase == Idle
}

// CurrentNode returns the node the transporter is at, or last left.
func (t *Transporter) CurrentNode() kernel.Node {
	return t.state.Current
}

// Target returns the node the transporter travels to, if any.
func (t *Transporter) Target() (kernel.Node, bool) {
	return t.state.Target, t.state.HasTarget
}

// AssignedOrder returns the order in charge, nil when idle.
func (t *Transporter) AssignedOrder() *order.Order {
	return t.state.Order
}

// LastTransitionAt returns the time of the last phase change.
func (t *Transporter) LastTransitionAt() float64 {
	return t.lastTransitionAt
}

// Utilization returns the fraction of [0, now] spent transporting.
func (t *Transporter) Utilization(now float64) kernel.Ratio {
	return t.utilization.Average(now)
}

func (t *Transporter) startTransport() error {
	return t.apply(StartTransport())
}

func (t *Transporter) finishTransport() error {
	return t.apply(FinishTransport())
}

func (t *Transporter) apply(trigger Trigger) error {
	if err := t.guard.Validate(ErrTransporterIsNotConstructed); err != nil {
		return err
	}

	next, effects, err := Transition(t.state, trigger, t.travel)
	if err != nil {
		return fmt.Errorf("transporter %d: %w", t.index, err)
	}

	now := t.scheduler.Now()
	t.state = next
	t.lastTransitionAt = now

	for _, e := range effects {
		if err = t.run(e, now); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transporter) run(e Effect, now float64) error {
	switch e.Kind {
	case EffectScheduleStartTransport:
		return t.scheduler.Schedule(e.Delay, t.eventName("start-transport"), t.startTransport)
	case EffectScheduleFinishTransport:
		return t.scheduler.Schedule(e.Delay, t.eventName("finish-transport"), t.finishTransport)
	case EffectObserveTransporting:
		t.utilization.Observe(e.Value, now)
		return nil
	case EffectNotifyStartTransport:
		return t.notify(t.onStart, e.Order)
	case EffectNotifyFinishTransport:
		o := e.Order
		return t.scheduler.Schedule(0, t.eventName("delivered"), func() error {
			return t.notify(t.onFinish, o)
		})
	default:
		return errs.NewInvariantViolationError("transporter", fmt.Sprintf("unknown effect %d", e.Kind))
	}
}

func (t *Transporter) notify(listeners []Listener, o *order.Order) error {
	for _, l := range listeners {
		if err := l(t, o); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transporter) eventName(action string) string {
	return fmt.Sprintf("transporter[%d].%s", t.index, action)
}

func (t *Transporter) setIndex(index int) error {
	if index < 0 {
		return errs.NewValueIsOutOfRangeError("index", index, 0, "unbounded")
	}
	return nil
}

func (t *Transporter) setTravel(travel kernel.Matrix) error {
	if err := travel.Validate(); err != nil {
		return err
	}
	t.travel = travel
	return nil
}

func (t *Transporter) setStart(start kernel.Node, travel kernel.Matrix) error {
	if err := start.Validate(travel.Size()); err != nil {
		return err
	}
	t.state = State{Phase: Idle, Current: start}
	return nil
}

func (t *Transporter) setScheduler(scheduler Scheduler) error {
	if scheduler == nil {
		return ErrSchedulerIsRequired
	}
	t.scheduler = scheduler
	return nil
}
