//go:build !unix

package invoke

import "fmt"

// InstallMemoryLimit is unsupported outside unix; the pipeline runs
// unprotected rather than aborting.
func InstallMemoryLimit(maxMemoryMB int) error {
	return fmt.Errorf("%w: not supported on this platform", ErrResourceLimitUnavailable)
}
