package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
)

// InstalledDriverProbe queries the driver already present in an output
// directory for its version
type InstalledDriverProbe struct {
	fs     afero.Fs
	runner CommandRunner
}

// NewDriverProbe creates a probe that inspects fs and runs drivers with runner
func NewDriverProbe(fs afero.Fs, runner CommandRunner) *InstalledDriverProbe {
	return &InstalledDriverProbe{fs: fs, runner: runner}
}

// InstalledVersion returns the version printed by the installed driver, or
// nil when no driver exists at the target path
func (p *InstalledDriverProbe) InstalledVersion(ctx context.Context, target *entities.OutputTarget) (*entities.Version, error) {
	path := target.DriverPath()
	info, err := p.fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	result, err := p.runner.Run(ctx, path, "--version")
	if err != nil {
		return nil, err
	}
	version, err := entities.FindVersion(result.Stdout)
	if err != nil {
		return nil, fmt.Errorf("can't read version of %s: %w", path, err)
	}
	return &version, nil
}
