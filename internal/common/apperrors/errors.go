package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input. Field names the offending
// field so the caller can highlight it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a reference to an unknown dashboard, widget or
// data source id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// CorruptionError reports persisted data that does not parse into the
// expected shape. The raw payload is discarded, not carried along.
type CorruptionError struct {
	Cause error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("stored dashboard collection is corrupt: %v", e.Cause)
}

func (e *CorruptionError) Unwrap() error { return e.Cause }

func NewCorruption(cause error) error {
	return &CorruptionError{Cause: cause}
}

// InvalidStateError reports a render-handle operation issued in a state
// that does not permit it (e.g. update after dispose).
type InvalidStateError struct {
	Op    string
	State string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s is not valid in state %q", e.Op, e.State)
}

// NotReadyError reports an export requested before a successful mount.
type NotReadyError struct {
	Op string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s requires a mounted chart", e.Op)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsCorruption(err error) bool {
	var ce *CorruptionError
	return errors.As(err, &ce)
}

func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

func IsNotReady(err error) bool {
	var nre *NotReadyError
	return errors.As(err, &nre)
}
