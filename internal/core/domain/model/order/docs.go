// Package order provides the Order entity of the freight network.
//
// An order is built by a demand generator, placed in the network's pending
// queue with a delivery deadline, assigned to a transporter and finally
// delivered. Its status enforces that lifecycle:
//
//	Created -> Placed -> Assigned -> Delivered
//
// Out-of-order transitions are invariant violations (errs.ErrInvariantViolation)
// and are never expected at runtime: they mean the caller handled events in an
// order the model does not allow.
package order
