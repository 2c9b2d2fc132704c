//go:build unix

package gateways

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkExecutePermission asks the kernel whether the current user may
// execute path
func checkExecutePermission(path string) error {
	if err := unix.Access(path, unix.X_OK); err != nil {
		return fmt.Errorf("'%s' is not executable: %w", path, err)
	}
	return nil
}
