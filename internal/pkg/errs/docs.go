// Package errs holds the typed errors shared by the simulator's domain,
// use cases and adapters.
//
// Every error kind has a sentinel for errors.Is and a struct carrying the
// details, built with or without a cause:
//   - ValueIsRequiredError (ErrValueIsRequired): a mandatory value is missing
//   - ValueIsInvalidError (ErrValueIsInvalid): a value failed validation
//   - ValueIsOutOfRangeError (ErrValueIsOutOfRange): a value lies outside [Min, Max]
//   - ObjectNotFoundError (ErrObjectNotFound): a looked up object does not exist
//   - InvariantViolationError (ErrInvariantViolation): the model reached a state
//     it forbids; the simulation run that raised it halts
//
// Adapters map the sentinels to transport codes, for example
// ErrObjectNotFound to HTTP 404.
package errs
