package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces/gateways"
	"github.com/ochairo/update-chrome-driver/internal/errext"
)

// DefaultWMICPath is the location of the WMI command-line utility
const DefaultWMICPath = `C:\Windows\System32\wbem\WMIC.exe`

// versionStrategies maps a GOOS value to the way the browser version is
// queried on that system.
//
// chrome.exe ignores its command line arguments when asked for a version,
// so Windows reads the file version resource through WMIC, or PowerShell
// where WMIC has been removed.
var versionStrategies = map[string]func(CommandRunner) gateways.VersionReader{
	"windows": func(r CommandRunner) gateways.VersionReader {
		return chainVersionReader{
			&wmicVersionReader{runner: r, wmicPath: DefaultWMICPath},
			&powershellVersionReader{runner: r},
		}
	},
	"linux":   newDirectVersionReader,
	"darwin":  newDirectVersionReader,
	"freebsd": newDirectVersionReader,
	"openbsd": newDirectVersionReader,
	"netbsd":  newDirectVersionReader,
}

// BrowserVersionReader validates the browser executable and queries its
// version with the strategy registered for the running system
type BrowserVersionReader struct {
	strategy gateways.VersionReader
}

// NewVersionReader returns the version reader for goos
func NewVersionReader(goos string, runner CommandRunner) (*BrowserVersionReader, error) {
	factory, ok := versionStrategies[goos]
	if !ok {
		return nil, errext.VersionDetection(fmt.Errorf("no version query strategy for %s (supported: %s)",
			goos, strings.Join(supportedSystems(), ", ")))
	}
	return &BrowserVersionReader{strategy: factory(runner)}, nil
}

// Detect returns the raw version output for the browser at path. Every
// failure is classified as errext.ErrVersionDetection.
func (r *BrowserVersionReader) Detect(ctx context.Context, path string) (string, error) {
	if err := checkExecutable(path); err != nil {
		return "", errext.VersionDetection(err)
	}

	raw, err := r.strategy.Detect(ctx, path)
	if err != nil {
		return "", errext.VersionDetection(err)
	}
	return raw, nil
}

func supportedSystems() []string {
	systems := make([]string, 0, len(versionStrategies))
	for goos := range versionStrategies {
		systems = append(systems, goos)
	}
	sort.Strings(systems)
	return systems
}

// checkExecutable verifies that path names an existing executable file
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("program '%s' does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("can't access '%s': %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a program", path)
	}
	return checkExecutePermission(path)
}

// directVersionReader runs "<browser> --version"
type directVersionReader struct {
	runner CommandRunner
}

func newDirectVersionReader(r CommandRunner) gateways.VersionReader {
	return &directVersionReader{runner: r}
}

func (d *directVersionReader) Detect(ctx context.Context, path string) (string, error) {
	result, err := d.runner.Run(ctx, path, "--version")
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(result.Stdout)
	if out == "" {
		return "", fmt.Errorf("'%s --version' printed nothing", path)
	}
	return out, nil
}

// wmicVersionReader asks WMI for the file version of the executable
type wmicVersionReader struct {
	runner   CommandRunner
	wmicPath string
}

func (w *wmicVersionReader) Detect(ctx context.Context, path string) (string, error) {
	result, err := w.runner.Run(ctx, w.wmicPath,
		"datafile", "where", "name="+wmicQuote(path), "get", "Version", "/value")
	if err != nil {
		return "", err
	}
	if !strings.Contains(result.Stdout, "Version=") {
		return "", fmt.Errorf("unexpected WMIC output: %q", strings.TrimSpace(result.Stdout))
	}
	return strings.TrimSpace(result.Stdout), nil
}

// wmicQuote quotes a path for a WQL string literal, which requires doubled
// backslashes
func wmicQuote(path string) string {
	escaped := strings.ReplaceAll(path, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

// powershellVersionReader reads VersionInfo.ProductVersion of the file
type powershellVersionReader struct {
	runner CommandRunner
}

func (p *powershellVersionReader) Detect(ctx context.Context, path string) (string, error) {
	script := fmt.Sprintf("(Get-Item -LiteralPath '%s').VersionInfo.ProductVersion",
		strings.ReplaceAll(path, "'", "''"))
	result, err := p.runner.Run(ctx, "powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(result.Stdout)
	if out == "" {
		return "", fmt.Errorf("PowerShell returned no product version for '%s'", path)
	}
	return out, nil
}

// chainVersionReader tries each reader in order. The next reader is only
// consulted when the query utility itself is missing.
type chainVersionReader []gateways.VersionReader

func (c chainVersionReader) Detect(ctx context.Context, path string) (string, error) {
	var errs []error
	for _, reader := range c {
		raw, err := reader.Detect(ctx, path)
		if err == nil {
			return raw, nil
		}
		errs = append(errs, err)
		if !isMissingProgram(err) {
			break
		}
	}
	return "", errors.Join(errs...)
}

func isMissingProgram(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
