//go:build unix

package invoke

import (
	"fmt"
	"syscall"
)

// InstallMemoryLimit caps this process's address space (and that of every
// child it spawns) at maxMemoryMB megabytes via RLIMIT_AS. Called once per
// pipeline run, before any invocation. Failure wraps
// ErrResourceLimitUnavailable so callers can warn and proceed unprotected.
func InstallMemoryLimit(maxMemoryMB int) error {
	if maxMemoryMB <= 0 {
		return fmt.Errorf("%w: non-positive limit %d MB", ErrResourceLimitUnavailable, maxMemoryMB)
	}

	var rl syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_AS, &rl); err != nil {
		return fmt.Errorf("%w: getrlimit: %v", ErrResourceLimitUnavailable, err)
	}

	limit := uint64(maxMemoryMB) * 1024 * 1024
	if rl.Max != ^uint64(0) && limit > rl.Max {
		limit = rl.Max
	}
	rl.Cur = limit

	if err := syscall.Setrlimit(syscall.RLIMIT_AS, &rl); err != nil {
		return fmt.Errorf("%w: setrlimit: %v", ErrResourceLimitUnavailable, err)
	}
	return nil
}
