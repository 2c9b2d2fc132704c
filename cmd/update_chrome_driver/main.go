// Package main provides the update_chrome_driver CLI, which installs the
// chromedriver release matching an installed Chrome browser.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/ochairo/update-chrome-driver/internal/domain-adapters/gateways"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	env := &environment{
		fs:        afero.NewOsFs(),
		runner:    gateways.NewProcessRunner(0),
		goos:      runtime.GOOS,
		goarch:    runtime.GOARCH,
		stdout:    colorable.NewColorableStdout(),
		stderr:    colorable.NewColorableStderr(),
		stdoutTTY: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		stderrTTY: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}

	code := execute(ctx, os.Args[1:], env)
	stop()
	os.Exit(int(code))
}
