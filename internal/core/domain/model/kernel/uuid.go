package kernel

import (
	"fmt"

	"freightsim/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not created through one of the constructors.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromName or UUIDFromBytes")

// simulationNamespace scopes name based identifiers so they never collide
// with identifiers minted by other systems for the same names.
var simulationNamespace = uuid.MustParse("8f3c2a4e-6d1b-5c7a-9e0f-1a2b3c4d5e6f")

// UUID is an immutable identifier value object wrapping github.com/google/uuid.
// The zero value is invalid.
//
// Entities created inside a simulation run use UUIDFromName so that two runs
// with the same seed produce identical identifiers; everything created outside
// a run (for example the run itself) uses NewUUID.
//
// Example:
//
//	runID := kernel.NewUUID()
//	orderID := kernel.UUIDFromName("order/0/2/17")
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random UUID (version 4).
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromName derives a version 5 UUID from name. The same name always
// yields the same UUID.
//
// Example:
//
//	a := kernel.UUIDFromName("transporter/1")
//	b := kernel.UUIDFromName("transporter/1")
//	fmt.Println(a.IsEqual(b)) // true
func UUIDFromName(name string) UUID {
	return UUID{
		id: uuid.NewSHA1(simulationNamespace, []byte(name)),
	}
}

// UUIDFromBytes creates a UUID from a 16 byte slice. A nil UUID is rejected.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID value. It is a copy.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both UUIDs hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the zero (nil) UUID.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
