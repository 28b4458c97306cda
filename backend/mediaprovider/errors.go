package mediaprovider

import (
	"errors"
	"fmt"
)

var (
	// ErrAborted is returned when the caller cancelled the request.
	// List views treat it as "abandoned" rather than as a failure.
	ErrAborted = errors.New("request aborted")

	ErrUnsupported = errors.New("not supported by this server")
	ErrNotFound    = errors.New("not found")
)

// TransportError is a network level failure that was not caused
// by caller cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// OperationError reports a failed controller operation. Op is a human
// readable operation name, e.g. "get album detail".
type OperationError struct {
	Op     string
	Status int // HTTP status, 0 if none was received
	Err    error
}

func (e *OperationError) Error() string {
	msg := "failed to " + e.Op
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// OpError wraps err as an OperationError for op. Cancellation is passed
// through unchanged so callers can still match ErrAborted directly.
func OpError(op string, status int, err error) error {
	if errors.Is(err, ErrAborted) {
		return err
	}
	return &OperationError{Op: op, Status: status, Err: err}
}

func Unsupported(op string) error {
	return &OperationError{Op: op, Err: ErrUnsupported}
}

func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
