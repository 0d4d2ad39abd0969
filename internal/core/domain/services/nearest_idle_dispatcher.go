package services

import (
	"errors"
	"fmt"
	"math"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/order"
	"freightsim/internal/core/domain/model/transporter"
	"freightsim/internal/pkg/errs"
)

// ErrNoIdleTransporter is returned when every transporter is busy.
var ErrNoIdleTransporter = errors.New("no idle transporter")

// NearestIdleDispatcher picks, among idle transporters, the one with the
// shortest travel time from its current node to the order's origin. Ties go to
// the transporter that comes first in the fleet.
//
// It only selects. The caller moves the order between its collections and
// assigns it.
type NearestIdleDispatcher struct{}

// NewNearestIdleDispatcher creates the dispatcher.
func NewNearestIdleDispatcher() NearestIdleDispatcher {
	return NearestIdleDispatcher{}
}

// Select returns the transporter that should serve o, or ErrNoIdleTransporter.
func (d NearestIdleDispatcher) Select(
	o *order.Order,
	fleet []*transporter.Transporter,
	travel kernel.Matrix,
) (*transporter.Transporter, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Placed {
		return nil, errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("%s is not a valid status to dispatch", o.Status()))
	}

	var (
		best     *transporter.Transporter
		bestTime = math.Inf(1)
	)

	for _, t := range fleet {
		if !t.IsIdle() {
			continue
		}

		tm := travel.At(t.CurrentNode(), o.Origin())
		// strict comparison keeps the earliest transporter on ties
		if best == nil || tm < bestTime {
			bestTime = tm
			best = t
		}
	}

	if best == nil {
		return nil, ErrNoIdleTransporter
	}

	return best, nil
}
