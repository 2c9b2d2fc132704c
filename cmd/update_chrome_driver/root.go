package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ochairo/update-chrome-driver/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/update-chrome-driver/internal/domain-orchestrators"
	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces/repositories"
	"github.com/ochairo/update-chrome-driver/internal/domain/services"
	"github.com/ochairo/update-chrome-driver/internal/errext"
	"github.com/ochairo/update-chrome-driver/internal/errext/exitcodes"
	"github.com/ochairo/update-chrome-driver/internal/external-adapters/logrus"
	"github.com/ochairo/update-chrome-driver/internal/external-adapters/yaml"
)

const usageHint = "usage: update_chrome_driver <CHROME_BROWSER_PATH> <OUTPUT_DIRECTORY>"

// environment holds everything the command touches outside the process, so
// tests can substitute the filesystem, streams and target system
type environment struct {
	fs        afero.Fs
	runner    gateways.CommandRunner
	goos      string
	goarch    string
	stdout    io.Writer
	stderr    io.Writer
	stdoutTTY bool
	stderrTTY bool
}

type rootCommand struct {
	env       *environment
	platforms repositories.PlatformRepository
	cmd       *cobra.Command

	verbose  bool
	force    bool
	noColor  bool
	platform string
	indexURL string
	timeout  time.Duration
}

func newRootCommand(env *environment, platforms repositories.PlatformRepository) *rootCommand {
	c := &rootCommand{env: env, platforms: platforms}
	c.cmd = &cobra.Command{
		Use:   "update_chrome_driver <CHROME_BROWSER_PATH> <OUTPUT_DIRECTORY>",
		Short: "Install the chromedriver release matching an installed Chrome",
		Long: `Detects the version of the Chrome browser at CHROME_BROWSER_PATH, looks up the
matching chromedriver in the Chrome for Testing release index and writes the
driver executable into OUTPUT_DIRECTORY.

When no driver exists for the exact browser version, the newest driver of the
same major version is used. A driver already present in OUTPUT_DIRECTORY with
the required version is kept unless --force is given.`,
		Example: `  update_chrome_driver /usr/bin/google-chrome ./drivers
  update_chrome_driver "C:\Program Files\Google\Chrome\Application\chrome.exe" C:\drivers`,
		Args:          c.validateArgs,
		RunE:          c.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errext.WithHint(errext.InvalidArgument(err), "run with --help to list the flags")
	})
	c.cmd.Flags().AddFlagSet(c.flagSet())
	c.cmd.SetOut(env.stdout)
	c.cmd.SetErr(env.stderr)
	return c
}

func (c *rootCommand) flagSet() *pflag.FlagSet {
	keys := make([]string, 0)
	for _, p := range c.platforms.ListPlatforms() {
		keys = append(keys, p.Key)
	}

	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&c.force, "force", false, "download the driver even when the installed one already matches")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&c.platform, "platform", "",
		"Chrome for Testing platform key, detected from the running system by default ("+strings.Join(keys, ", ")+")")
	flags.StringVar(&c.indexURL, "index-url", gateways.DefaultIndexURL, "release index endpoint")
	flags.DurationVar(&c.timeout, "timeout", 2*time.Minute, "timeout of each HTTP request")
	return flags
}

func (c *rootCommand) validateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(2)(cmd, args); err != nil {
		return errext.WithHint(errext.InvalidArgument(err), usageHint)
	}
	for i, name := range []string{"CHROME_BROWSER_PATH", "OUTPUT_DIRECTORY"} {
		if strings.TrimSpace(args[i]) == "" {
			return errext.WithHint(errext.InvalidArgument(fmt.Errorf("%s is empty", name)), usageHint)
		}
	}
	return nil
}

func (c *rootCommand) run(cmd *cobra.Command, args []string) error {
	browserPath, outputDir := args[0], args[1]
	logger := logrus.New(logrus.Options{
		Output:  c.env.stderr,
		Verbose: c.verbose,
		NoColor: c.noColor || !c.env.stderrTTY,
	})

	// Checked here so a missing browser never costs a network round trip
	if _, err := c.env.fs.Stat(browserPath); err != nil {
		return errext.WithHint(
			errext.VersionDetection(fmt.Errorf("browser executable %s: %w", browserPath, err)),
			"pass the path of the Chrome or Chromium executable")
	}

	profile, err := c.resolvePlatform()
	if err != nil {
		return errext.InvalidArgument(err)
	}
	target, err := gateways.PrepareOutputTarget(c.env.fs, outputDir, profile)
	if err != nil {
		return errext.InvalidArgument(err)
	}
	versionReader, err := gateways.NewVersionReader(c.env.goos, c.env.runner)
	if err != nil {
		return err
	}

	httpClient := gateways.NewHTTPClient(c.timeout)
	orch := orchestrators.NewUpdateOrchestrator(
		versionReader,
		gateways.NewReleaseIndexFetcher(c.indexURL, httpClient, logger),
		services.NewReleaseService(),
		gateways.NewDriverProbe(c.env.fs, c.env.runner),
		gateways.NewDownloader(httpClient, logger),
		gateways.NewExtractor(c.env.fs, logger),
		gateways.NewChecksumCalculator(c.env.fs),
		orchestrators.UpdateOrchestratorConfig{Force: c.force},
		logger,
	)

	logger.Debug("starting update", interfaces.F("platform", profile.Key), interfaces.F("output", target.Dir))
	result, err := orch.Update(cmd.Context(), orchestrators.UpdateRequest{
		BrowserPath: browserPath,
		Target:      target,
		Platform:    profile.Key,
	})
	if err != nil {
		return err
	}

	c.printResult(result)
	return nil
}

func (c *rootCommand) resolvePlatform() (*entities.PlatformProfile, error) {
	if c.platform != "" {
		return c.platforms.GetPlatform(c.platform)
	}
	profile, err := c.platforms.DetectPlatform(c.env.goos, c.env.goarch)
	if err != nil {
		return nil, errext.WithHint(err, "select one with --platform")
	}
	return profile, nil
}

func (c *rootCommand) printResult(result *orchestrators.UpdateResult) {
	w := c.env.stdout
	fmt.Fprintln(w, result.GetUpdateSummary())

	status := color.New(color.FgGreen, color.Bold)
	if c.noColor || !c.env.stdoutTTY {
		status.DisableColor()
	}
	if result.Updated {
		status.Fprintf(w, "chromedriver %s installed\n", result.Release.Version)
	} else {
		status.Fprintf(w, "chromedriver %s already installed\n", result.Release.Version)
	}
}

// printError writes err as "Error [<stage>]: <cause>" followed by its hint
func (c *rootCommand) printError(err error) {
	label := color.New(color.FgRed, color.Bold)
	hintColor := color.New(color.FgYellow)
	if c.noColor || !c.env.stderrTTY {
		label.DisableColor()
		hintColor.DisableColor()
	}

	msg, hint := errext.Format(err)
	prefix := "Error:"
	var serr *errext.StageError
	if errors.As(err, &serr) {
		prefix = fmt.Sprintf("Error [%s]:", serr.Stage)
		msg = serr.Err.Error()
	}

	label.Fprint(c.env.stderr, prefix)
	fmt.Fprintf(c.env.stderr, " %s\n", msg)
	if hint != "" {
		hintColor.Fprintf(c.env.stderr, "Hint: %s\n", hint)
	}
}

// execute runs the command with args and returns the process exit code
func execute(ctx context.Context, args []string, env *environment) exitcodes.ExitCode {
	platforms, err := yaml.NewPlatformRepository()
	if err != nil {
		fmt.Fprintf(env.stderr, "Error: %v\n", err)
		return exitcodes.Generic
	}

	c := newRootCommand(env, platforms)
	c.cmd.SetArgs(args)
	if err := c.cmd.ExecuteContext(ctx); err != nil {
		err = errext.WithExitCodeIfNone(err, exitcodes.Generic)
		c.printError(err)
		return errext.ExitCodeOf(err)
	}
	return exitcodes.Success
}
