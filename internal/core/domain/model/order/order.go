package order

import (
	"errors"
	"fmt"
	"math"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is a single shipment between two nodes of the network.
//
// Order follows these invariants:
//   - origin and destination are valid nodes and differ
//   - status only moves forward: Created, Placed, Assigned, Delivered
//   - placement, assignment and delivery times are set exactly once
//   - a delivered order is never modified again
type Order struct {
	id          kernel.UUID
	origin      kernel.Node
	destination kernel.Node

	status Status

	// times are in simulated days
	placedAt           float64
	expectedDeliveryAt float64
	actualDeliveryAt   float64

	// transporterID is nil until the order is assigned
	transporterID *kernel.UUID

	isConstructed bool
}

// NewOrder creates an order in Created status for a network of nodeCount nodes.
//
// Example:
//
//	o, err := order.NewOrder(kernel.UUIDFromName("order/0/1/0"), 0, 1, 3)
//	if err != nil {
//	    // invalid identifier or nodes
//	}
func NewOrder(id kernel.UUID, origin, destination kernel.Node, nodeCount int) (*Order, error) {
	o := &Order{
		status:        Created,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRoute(origin, destination, nodeCount),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Origin returns the pickup node.
func (o *Order) Origin() kernel.Node {
	return o.origin
}

// Destination returns the drop-off node.
func (o *Order) Destination() kernel.Node {
	return o.destination
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// PlacedAt returns the placement time. It is meaningless before Place.
func (o *Order) PlacedAt() float64 {
	return o.placedAt
}

// ExpectedDeliveryAt returns the delivery deadline. It is meaningless before Place.
func (o *Order) ExpectedDeliveryAt() float64 {
	return o.expectedDeliveryAt
}

// ActualDeliveryAt returns the delivery time and whether the order was delivered.
func (o *Order) ActualDeliveryAt() (float64, bool) {
	if o.status != Delivered {
		return 0, false
	}
	return o.actualDeliveryAt, true
}

// Transporter returns the assigned transporter's ID, nil before assignment.
func (o *Order) Transporter() *kernel.UUID {
	return o.transporterID
}

// Delay returns max(0, actual - expected) for a delivered order. The second
// result is false while the order is not delivered.
func (o *Order) Delay() (float64, bool) {
	if o.status != Delivered {
		return 0, false
	}
	return math.Max(0, o.actualDeliveryAt-o.expectedDeliveryAt), true
}

// IsLate reports whether the order was delivered after its deadline.
func (o *Order) IsLate() bool {
	d, ok := o.Delay()
	return ok && d > 0
}

// Place records the placement time and the delivery deadline.
//
// A second call fails with ErrOrderAlreadyPlaced. A deadline before now is
// rejected and leaves the order untouched.
func (o *Order) Place(now, expectedDeliveryAt float64) error {
	newStatus, err := o.status.Place()
	if err != nil {
		return err
	}
	if math.IsNaN(expectedDeliveryAt) || expectedDeliveryAt < now {
		return errs.NewValueIsOutOfRangeError("expectedDeliveryAt", expectedDeliveryAt, now, math.Inf(1))
	}

	o.status = newStatus
	o.placedAt = now
	o.expectedDeliveryAt = expectedDeliveryAt
	return nil
}

// Assign records the transporter responsible for the order.
func (o *Order) Assign(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.transporterID = &transporterID
	return nil
}

// Deliver records the delivery time. The order becomes immutable.
func (o *Order) Deliver(now float64) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}
	if now < o.placedAt {
		return errs.NewInvariantViolationErrorWithCause("order", "delivered before placement",
			fmt.Errorf("delivered at %v, placed at %v", now, o.placedAt))
	}

	o.status = newStatus
	o.actualDeliveryAt = now
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRoute(origin, destination kernel.Node, nodeCount int) error {
	if err := errors.Join(origin.Validate(nodeCount), destination.Validate(nodeCount)); err != nil {
		return err
	}
	if origin == destination {
		return errs.NewValueIsInvalidErrorWithCause("destination",
			fmt.Errorf("destination %d equals origin", destination))
	}
	o.origin = origin
	o.destination = destination
	return nil
}
