package transporter

import (
	"fmt"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/order"
	"freightsim/internal/pkg/errs"
)

// State is the part of a transporter that the state machine changes.
type State struct {
	Phase     Phase
	Current   kernel.Node
	Target    kernel.Node
	HasTarget bool
	Order     *order.Order
}

// Check verifies phase = Idle ⇔ no order ⇔ no target.
func (s State) Check() error {
	if err := s.Phase.Validate(); err != nil {
		return errs.NewInvariantViolationErrorWithCause("transporter", "phase is valid", err)
	}
	idle := s.Phase == Idle
	if idle != (s.Order == nil) || idle != !s.HasTarget {
		return errs.NewInvariantViolationError("transporter",
			fmt.Sprintf("idle iff no order iff no target (phase %s, order %t, target %t)",
				s.Phase, s.Order != nil, s.HasTarget))
	}
	return nil
}

// TriggerKind names an input of the state machine.
type TriggerKind int

const (
	// TriggerAssign hands an order to an idle transporter.
	TriggerAssign TriggerKind = iota + 1
	// TriggerStartTransport fires when a relocating transporter reaches the origin.
	TriggerStartTransport
	// TriggerFinishTransport fires when a transporting transporter reaches the destination.
	TriggerFinishTransport
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerAssign:
		return "Assign"
	case TriggerStartTransport:
		return "StartTransport"
	case TriggerFinishTransport:
		return "FinishTransport"
	default:
		return "UnknownTrigger"
	}
}

// Trigger is an input of the state machine.
type Trigger struct {
	Kind  TriggerKind
	Order *order.Order
}

// Assign is the trigger for handing o to an idle transporter.
func Assign(o *order.Order) Trigger {
	return Trigger{Kind: TriggerAssign, Order: o}
}

// StartTransport is the trigger fired when a relocating transporter reaches the origin.
func StartTransport() Trigger {
	return Trigger{Kind: TriggerStartTransport}
}

// FinishTransport is the trigger fired when a transporting transporter reaches the destination.
func FinishTransport() Trigger {
	return Trigger{Kind: TriggerFinishTransport}
}

// EffectKind names an output of the state machine.
type EffectKind int

const (
	// EffectScheduleStartTransport schedules StartTransport after Delay.
	EffectScheduleStartTransport EffectKind = iota + 1
	// EffectScheduleFinishTransport schedules FinishTransport after Delay.
	EffectScheduleFinishTransport
	// EffectObserveTransporting records Value (1 or 0) in the utilization counter.
	EffectObserveTransporting
	// EffectNotifyStartTransport calls the start subscribers with Order.
	EffectNotifyStartTransport
	// EffectNotifyFinishTransport calls the finish subscribers with Order.
	EffectNotifyFinishTransport
)

func (k EffectKind) String() string {
	switch k {
	case EffectScheduleStartTransport:
		return "ScheduleStartTransport"
	case EffectScheduleFinishTransport:
		return "ScheduleFinishTransport"
	case EffectObserveTransporting:
		return "ObserveTransporting"
	case EffectNotifyStartTransport:
		return "NotifyStartTransport"
	case EffectNotifyFinishTransport:
		return "NotifyFinishTransport"
	default:
		return "UnknownEffect"
	}
}

// Effect is an output of the state machine, applied in slice order.
type Effect struct {
	Kind  EffectKind
	Delay float64
	Value float64
	Order *order.Order
}

// Transition computes the next state and the effects of applying trigger to
// state. travel is the travel time matrix of the network. Any (phase, trigger)
// pair outside the table is an invariant violation and leaves the state as is.
func Transition(state State, trigger Trigger, travel kernel.Matrix) (State, []Effect, error) {
	if err := state.Check(); err != nil {
		return state, nil, err
	}

	switch {
	case state.Phase == Idle && trigger.Kind == TriggerAssign:
		return assign(state, trigger.Order, travel)
	case state.Phase == Relocating && trigger.Kind == TriggerStartTransport:
		return startTransport(state, travel)
	case state.Phase == Transporting && trigger.Kind == TriggerFinishTransport:
		return finishTransport(state)
	default:
		return state, nil, errs.NewInvariantViolationError("transporter",
			fmt.Sprintf("%s is not allowed while %s", trigger.Kind, state.Phase))
	}
}

func assign(state State, o *order.Order, travel kernel.Matrix) (State, []Effect, error) {
	if o == nil {
		return state, nil, errs.NewValueIsRequiredError("order")
	}
	if err := o.Origin().Validate(travel.Size()); err != nil {
		return state, nil, err
	}
	if err := o.Destination().Validate(travel.Size()); err != nil {
		return state, nil, err
	}

	next := state
	next.Order = o
	next.Target = o.Origin()
	next.HasTarget = true

	if state.Current == o.Origin() {
		return startTransport(next, travel)
	}

	next.Phase = Relocating
	return next, []Effect{
		{Kind: EffectScheduleStartTransport, Delay: travel.At(state.Current, o.Origin())},
	}, nil
}

func startTransport(state State, travel kernel.Matrix) (State, []Effect, error) {
	o := state.Order
	next := state
	next.Phase = Transporting
	next.Current = o.Origin()
	next.Target = o.Destination()
	next.HasTarget = true

	return next, []Effect{
		{Kind: EffectObserveTransporting, Value: 1},
		{Kind: EffectNotifyStartTransport, Order: o},
		{Kind: EffectScheduleFinishTransport, Delay: travel.At(o.Origin(), o.Destination())},
	}, nil
}

func finishTransport(state State) (State, []Effect, error) {
	o := state.Order
	next := State{
		Phase:   Idle,
		Current: o.Destination(),
	}

	return next, []Effect{
		{Kind: EffectObserveTransporting, Value: 0},
		{Kind: EffectNotifyFinishTransport, Order: o},
	}, nil
}
