package steady

import (
	"errors"
	"fmt"
	"strconv"
)

type (
	// steadyError is the concrete type backing all sentinel errors.
	steadyError string

	// OpError records the element operation that failed and why. Every
	// fault surfaced by a handle is wrapped in one.
	OpError struct {
		Err error
		Op  Op
	}

	// IndexError reports an index that never became available on a
	// [LazyElementList] within the wait window, or a negative index that
	// was rejected without waiting.
	IndexError struct {
		Index int
		Len   int
	}

	// ClickFallbackError is returned when a click was intercepted and the
	// script fallback failed as well. Both causes stay reachable through
	// [errors.Is] and [errors.As].
	ClickFallbackError struct {
		Click  error
		Script error
	}
)

// Failure classes. Adapters translate their native errors into these so
// that the decorators can classify them with [errors.Is].
var (
	// ErrStaleElement means a previously resolved element no longer
	// corresponds to a live node. It is the only retried failure.
	ErrStaleElement error = steadyError("stale element reference")
	// ErrClickIntercepted means the element exists but another node
	// receives the click.
	ErrClickIntercepted error = steadyError("element click intercepted")
	// ErrNoSuchElement means the locator matched nothing.
	ErrNoSuchElement error = steadyError("no such element")
	// ErrNotInteractable means the element cannot receive input.
	ErrNotInteractable error = steadyError("element not interactable")
	// ErrIndexUnavailable means a list index did not appear in time.
	ErrIndexUnavailable error = steadyError("index unavailable")
	// ErrConditionTimeout means a readiness condition was not met within
	// the wait window. Handles log it and carry on.
	ErrConditionTimeout error = steadyError("condition timeout")
	// ErrInterrupted means the context was cancelled while sleeping
	// between two attempts.
	ErrInterrupted error = steadyError("interrupted during retry delay")
	// ErrUnsupportedMutation is returned by every structural mutator of
	// [LazyElementList].
	ErrUnsupportedMutation error = steadyError("element list is read-only")
	// ErrRetriesExhausted is returned when all attempts failed with
	// [ErrStaleElement].
	ErrRetriesExhausted error = steadyError("retries exhausted")
	// ErrNilDriver is returned by [WrapDriver] when given a nil driver.
	ErrNilDriver error = steadyError("nil driver")
)

func (e steadyError) Error() string { return string(e) }

func (e *OpError) Error() string {
	return "steady: " + e.Op.String() + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

func (e *IndexError) Error() string {
	if e.Index < 0 {
		return "negative index " + strconv.Itoa(e.Index) + " is out of range"
	}

	return "element at index " + strconv.Itoa(e.Index) +
		" unavailable after waiting (list has " + strconv.Itoa(e.Len) +
		" elements)"
}

// Is reports ErrIndexUnavailable as the class of every IndexError.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexUnavailable
}

func (e *ClickFallbackError) Error() string {
	return fmt.Sprintf(
		"click intercepted (%v) and script click failed (%v)",
		e.Click,
		e.Script,
	)
}

func (e *ClickFallbackError) Unwrap() []error {
	return []error{e.Click, e.Script}
}

// IsStale reports whether err is worth another attempt: it carries
// [ErrStaleElement] and is not the final word of a failed click fallback.
func IsStale(err error) bool {
	if err == nil {
		return false
	}

	var cfe *ClickFallbackError
	if errors.As(err, &cfe) {
		return false
	}

	return errors.Is(err, ErrStaleElement)
}

// IsIntercepted reports whether err carries [ErrClickIntercepted].
func IsIntercepted(err error) bool {
	return errors.Is(err, ErrClickIntercepted)
}

// isAbsent reports failures that mean "not there yet" while polling.
func isAbsent(err error) bool {
	return errors.Is(err, ErrStaleElement) ||
		errors.Is(err, ErrNoSuchElement)
}

func wrapOp(op Op, err error) error {
	if err == nil {
		return nil
	}

	var oe *OpError
	if errors.As(err, &oe) && oe.Op == op {
		return err
	}

	return &OpError{Op: op, Err: err}
}
