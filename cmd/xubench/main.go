package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/xu-lang/xubench/internal/orchestration"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Pipeline completed, gate passed or not applicable
	ExitFailed  = 1 // Regression gate failed, or the pipeline deadline fired
	ExitError   = 2 // Configuration or runtime error
)

// GateFailureError indicates that the pipeline ran successfully but one
// or more tracked cases regressed past the threshold.
type GateFailureError struct {
	Message string
}

func (e *GateFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var gateErr *GateFailureError
		if errors.As(err, &gateErr) || errors.Is(err, orchestration.ErrPipelineTimeout) {
			os.Exit(ExitFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
