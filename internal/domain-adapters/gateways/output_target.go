package gateways

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
)

// PrepareOutputTarget creates dir when needed and returns the target the
// driver for profile is written to
func PrepareOutputTarget(fs afero.Fs, dir string, profile *entities.PlatformProfile) (*entities.OutputTarget, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is empty")
	}
	dir = filepath.Clean(dir)

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("can't create output directory %s: %w", dir, err)
	}
	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("can't access output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", dir)
	}

	return &entities.OutputTarget{
		Dir:        dir,
		Executable: profile.Executable,
		Windows:    profile.IsWindows(),
	}, nil
}
