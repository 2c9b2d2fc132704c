// Package entities defines core domain models and data structures.
package entities

import "path/filepath"

// Archive is a downloaded driver archive held in memory
type Archive struct {
	URL  string
	Data []byte
}

// Size returns the archive size in bytes
func (a *Archive) Size() int64 {
	return int64(len(a.Data))
}

// OutputTarget is the validated directory the driver is written to
type OutputTarget struct {
	Dir        string
	Executable string
	// Windows disables executable-bit handling for the written file
	Windows bool
}

// DriverPath returns the destination path of the driver executable
func (t *OutputTarget) DriverPath() string {
	return filepath.Join(t.Dir, t.Executable)
}
