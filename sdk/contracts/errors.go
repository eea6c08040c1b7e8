package contracts

import (
	"errors"
	"fmt"
)

// StartupError is a fatal failure while acquiring the event source or the
// tone device. Nothing useful can run after it; the caller decides how to exit.
type StartupError struct {
	Op  string // What was attempted, e.g. "open sequencer".
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("cannot %s: %v", e.Op, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// Startup wraps err as a StartupError unless it already is one.
func Startup(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StartupError
	if errors.As(err, &se) {
		return err
	}
	return &StartupError{Op: op, Err: err}
}
