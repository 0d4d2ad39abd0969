package transporter

import (
	"fmt"

	"freightsim/internal/pkg/errs"
)

// Phase is the activity of a transporter.
type Phase int

const (
	// Unknown represents an invalid or undefined phase.
	Unknown Phase = iota

	// Idle transporters wait at their current node for an assignment.
	Idle

	// Relocating transporters travel empty to the origin of their order.
	Relocating

	// Transporting transporters carry their order to its destination.
	Transporting
)

// String returns the phase name, "Unknown" for invalid values.
func (p Phase) String() string {
	switch p { //nolint:exhaustive // Unknown falls through to the default
	case Idle:
		return "Idle"
	case Relocating:
		return "Relocating"
	case Transporting:
		return "Transporting"
	default:
		return "Unknown"
	}
}

// Validate rejects Unknown and out of range phases.
func (p Phase) Validate() error {
	if p < Idle || p > Transporting {
		return errs.NewValueIsInvalidErrorWithCause("phase is invalid", fmt.Errorf("%d is not a valid phase", p))
	}
	return nil
}
