package invoke

import (
	"errors"
	"fmt"
	"time"
)

// ErrResourceLimitUnavailable signals that the memory ceiling could not be
// installed on this platform or under this privilege level. It is a soft
// failure: benchmarking proceeds unprotected rather than aborting.
var ErrResourceLimitUnavailable = errors.New("resource limit unavailable")

// TimeoutError reports an invocation that exceeded its per-run wall-clock
// bound. The orchestrator drops the affected sample and continues; a
// single hang must not abort the whole sweep.
type TimeoutError struct {
	Command string
	Timeout time.Duration
	Stdout  string
	Stderr  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s", e.Timeout, e.Command)
}

// ExitError reports a benchmark program that exited nonzero. Captured
// stdout and stderr ride along for diagnosis.
type ExitError struct {
	Command string
	Code    int
	Stdout  string
	Stderr  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command failed (%d): %s", e.Code, e.Command)
}
