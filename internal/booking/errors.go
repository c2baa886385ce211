// Package booking implements the inventory-consistent booking transaction.
package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors shared between the coordinator and store implementations.
// Store implementations translate their native failures into these values so
// handlers can map them to responses without knowing the storage engine.
var (
	// ErrExperienceNotFound is returned when no experience exists for the
	// requested id.
	ErrExperienceNotFound = errors.New("experience not found")
	// ErrSlotNotFound is returned when the experience has no slot with the
	// requested id.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrDuplicateReference is returned by stores when inserting a booking
	// whose reference already exists. The coordinator regenerates and retries.
	ErrDuplicateReference = errors.New("duplicate booking reference")
	// ErrReferenceExhausted is returned when reference generation kept
	// colliding until the retry budget ran out.
	ErrReferenceExhausted = errors.New("booking reference retries exhausted")
	// ErrTimeout is returned when the booking transaction exceeded its
	// deadline or was cancelled by the caller. The attempt is fully rolled
	// back and may be retried.
	ErrTimeout = errors.New("booking transaction timed out")
)

// CapacityError is returned when a slot does not have enough seats left for
// the requested party size. Remaining reports the seat count observed inside
// the transaction so callers can show it to the user.
type CapacityError struct {
	Requested int
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough seats available: requested %d, %d remaining", e.Requested, e.Remaining)
}

// AsCapacityError unwraps err into a *CapacityError, or returns nil.
func AsCapacityError(err error) *CapacityError {
	var ce *CapacityError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// InputError collects per-field validation failures. It is produced before
// any storage access.
type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{fields: make(map[string][]string)}
}

func (e *InputError) add(field, msg string) {
	e.fields[field] = append(e.fields[field], msg)
}

func (e *InputError) hasErrors() bool { return len(e.fields) > 0 }

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %+v", e.fields)
}

// Fields returns the per-field messages.
func (e *InputError) Fields() map[string][]string { return e.fields }

// AsInputError unwraps err into an *InputError, or returns nil.
func AsInputError(err error) *InputError {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie
	}
	return nil
}
