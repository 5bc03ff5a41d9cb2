package secrets

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCancelled is reported when an operation's context is cancelled
	// before it reaches a terminal state. Side effects already committed
	// by the service are not rolled back.
	ErrCancelled = errors.New("operation cancelled")

	// ErrWrongResultType is reported by a finishing call invoked against
	// an operation of a different kind.
	ErrWrongResultType = errors.New("operation result is of the wrong kind")

	// ErrValidationFailed is reported when an attribute map does not
	// conform to its schema. Detected locally; no remote call is issued.
	ErrValidationFailed = errors.New("attributes do not match schema")

	// ErrPromptDismissed is reported when the user dismisses an
	// interactive confirmation prompt.
	ErrPromptDismissed = errors.New("prompt dismissed")

	// ErrNoSession is reported by a session codec asked to encode or
	// decode before a transfer session was established.
	ErrNoSession = errors.New("no open transfer session")

	// ErrClosed is reported for operations started on a closed Service.
	ErrClosed = errors.New("service closed")
)

// RemoteError wraps a failure reported by the transport or the service for
// one remote call.
type RemoteError struct {
	Method string
	Path   ObjectPath
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Path.IsSet() {
		return fmt.Sprintf("remote call %s on %s failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("remote call %s failed: %v", e.Method, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// callError classifies a collaborator failure. Context cancellation folds
// into ErrCancelled so callers see one cancellation kind regardless of
// which step observed it first.
func callError(method string, path ObjectPath, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCancelled
	}
	if errors.Is(err, ErrCancelled) || errors.Is(err, ErrPromptDismissed) || errors.Is(err, ErrNoSession) {
		return err
	}
	return &RemoteError{Method: method, Path: path, Err: err}
}
