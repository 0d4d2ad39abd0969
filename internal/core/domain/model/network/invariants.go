package network

import (
	"errors"
	"fmt"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/order"
	"freightsim/internal/pkg/errs"
)

// CheckInvariants verifies the state the handlers must preserve:
//   - every created order is in exactly one collection, with the status of
//     that collection
//   - a busy transporter holds an assigned order no other transporter holds
//   - no order waits while a transporter is idle
func (n *Network) CheckInvariants() error {
	var problems []error
	violation := func(format string, args ...any) {
		problems = append(problems, errs.NewInvariantViolationError("network", fmt.Sprintf(format, args...)))
	}

	if total := len(n.pending) + len(n.assigned) + len(n.delivered); total != n.created {
		violation("created %d orders but collections hold %d", n.created, total)
	}

	seen := make(map[kernel.UUID]string, n.created)
	member := func(o *order.Order, collection string, status order.Status) {
		if prev, dup := seen[o.ID()]; dup {
			violation("order %s is both %s and %s", o.ID(), prev, collection)
		}
		seen[o.ID()] = collection
		if o.Status() != status {
			violation("order %s is %s but has status %s", o.ID(), collection, o.Status())
		}
	}
	for _, o := range n.pending {
		member(o, "pending", order.Placed)
	}
	for _, o := range n.assigned {
		member(o, "assigned", order.Assigned)
	}
	for _, o := range n.delivered {
		member(o, "delivered", order.Delivered)
	}

	holders := make(map[kernel.UUID]int, len(n.transporters))
	idle := 0
	for _, t := range n.transporters {
		if err := t.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}
		if t.IsIdle() {
			idle++
			continue
		}
		o := t.AssignedOrder()
		if _, ok := n.assigned[o.ID()]; !ok {
			violation("transporter %d holds order %s which is not assigned", t.Index(), o.ID())
		}
		if other, dup := holders[o.ID()]; dup {
			violation("transporters %d and %d both hold order %s", other, t.Index(), o.ID())
		}
		holders[o.ID()] = t.Index()
	}

	if len(n.pending) > 0 && idle > 0 {
		violation("%d orders pending while %d transporters are idle", len(n.pending), idle)
	}

	return errors.Join(problems...)
}
