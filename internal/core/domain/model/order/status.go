package order

import (
	"fmt"

	"freightsim/internal/pkg/errs"
)

var (
	// ErrOrderAlreadyPlaced is returned when Place is invoked a second time.
	ErrOrderAlreadyPlaced = errs.NewInvariantViolationError("order", "order placed twice")

	// ErrOrderIsDelivered is returned by every mutator of a delivered order.
	ErrOrderIsDelivered = errs.NewInvariantViolationError("order", "delivered order is immutable")
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Created ──> Placed ──> Assigned ──> Delivered
//
// Placed means the order waits in the pending queue, Assigned that a
// transporter carries it or travels to pick it up, Delivered that it reached
// its destination. Delivered is final.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the status of an order that a generator built but the
	// network has not received yet.
	Created

	// Placed indicates the order is queued and waits for a transporter.
	Placed

	// Assigned indicates a transporter is responsible for the order.
	Assigned

	// Delivered indicates the order reached its destination.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Created:   "Created",
		Placed:    "Placed",
		Assigned:  "Assigned",
		Delivered: "Delivered",
	}
}

// Validate checks that the status is one of Created, Placed, Assigned or Delivered.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status, "Unknown" for
// invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Place transitions Created to Placed.
func (s Status) Place() (Status, error) {
	switch s { //nolint:exhaustive // all other statuses are rejected below
	case Created:
		return Placed, nil
	case Placed, Assigned:
		return Unknown, ErrOrderAlreadyPlaced
	case Delivered:
		return Unknown, ErrOrderIsDelivered
	}
	return Unknown, s.transitionError("place")
}

// Assign transitions Placed to Assigned.
func (s Status) Assign() (Status, error) {
	switch s { //nolint:exhaustive // all other statuses are rejected below
	case Placed:
		return Assigned, nil
	case Delivered:
		return Unknown, ErrOrderIsDelivered
	}
	return Unknown, s.transitionError("assign")
}

// Deliver transitions Assigned to Delivered.
func (s Status) Deliver() (Status, error) {
	switch s { //nolint:exhaustive // all other statuses are rejected below
	case Assigned:
		return Delivered, nil
	case Delivered:
		return Unknown, ErrOrderIsDelivered
	}
	return Unknown, s.transitionError("deliver")
}

func (s Status) transitionError(action string) error {
	return errs.NewInvariantViolationErrorWithCause(
		"order",
		fmt.Sprintf("cannot %s an order in status %s", action, s),
		errs.NewValueIsInvalidError("status"),
	)
}
