package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrElementNotFound is returned when a selector matches nothing
	ErrElementNotFound = errors.New("element not found")

	// ErrTimeout is returned when a wait exceeds its deadline. A slow widget
	// and a broken one both end up here.
	ErrTimeout = errors.New("timed out waiting for element")

	// ErrAssertionFailed is returned when text or presence does not match
	ErrAssertionFailed = errors.New("assertion failed")
)

// StepError ties a failure to the harness operation and selector it happened on
type StepError struct {
	Op       string
	Selector string
	Err      error
}

func (e *StepError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Selector, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError - wraps err, returns nil for nil err
func NewStepError(op, selector string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Op: op, Selector: selector, Err: err}
}

// AssertionError - builds an ErrAssertionFailed with a message
func AssertionError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAssertionFailed, fmt.Sprintf(format, args...))
}

// ErrorKind - classifies err into one of the taxonomy names, empty if unknown
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrElementNotFound):
		return "not_found"
	case errors.Is(err, ErrAssertionFailed):
		return "assertion"
	default:
		return ""
	}
}
