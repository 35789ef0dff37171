package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth indicates the vendor rejected the session credentials. Fatal to a run.
	ErrAuth = errors.New("authentication rejected")
	// ErrNetwork indicates a transport-level failure talking to the vendor API.
	ErrNetwork = errors.New("network failure")
	// ErrNotFound is returned when an activity no longer exists upstream.
	ErrNotFound = errors.New("activity not found")
	// ErrMalformedPayload indicates a detail payload missing structurally required fields.
	ErrMalformedPayload = errors.New("malformed activity payload")
	// ErrPersistence indicates the store could not commit an activity and rolled back.
	ErrPersistence = errors.New("persistence failure")
)

// ActivityError ties one of the taxonomy errors to the activity it occurred for.
type ActivityError struct {
	ActivityID int64
	Err        error
}

func (e *ActivityError) Error() string {
	return fmt.Sprintf("activity %d: %v", e.ActivityID, e.Err)
}

func (e *ActivityError) Unwrap() error { return e.Err }

// NewActivityError wraps err with the owning activity id.
func NewActivityError(activityID int64, err error) *ActivityError {
	return &ActivityError{ActivityID: activityID, Err: err}
}
