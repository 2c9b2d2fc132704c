// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces/gateways"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces/services"
	"github.com/ochairo/update-chrome-driver/internal/errext"
)

// ChecksumCalculator interface for hashing the written driver
type ChecksumCalculator interface {
	Checksum(path string) (string, error)
}

// UpdateOrchestrator coordinates the driver update workflow
type UpdateOrchestrator struct {
	versionReader gateways.VersionReader
	indexFetcher  gateways.ReleaseIndexFetcher
	resolver      services.ReleaseResolver
	probe         gateways.DriverProbe
	fetcher       gateways.ArchiveFetcher
	extractor     gateways.Extractor
	checksums     ChecksumCalculator
	logger        interfaces.Logger
	force         bool
}

// UpdateOrchestratorConfig holds configuration for the orchestrator
type UpdateOrchestratorConfig struct {
	// Force downloads the driver even when the installed one already matches
	Force bool
}

// NewUpdateOrchestrator creates a new update orchestrator.
// probe and checksums may be nil.
func NewUpdateOrchestrator(
	versionReader gateways.VersionReader,
	indexFetcher gateways.ReleaseIndexFetcher,
	resolver services.ReleaseResolver,
	probe gateways.DriverProbe,
	fetcher gateways.ArchiveFetcher,
	extractor gateways.Extractor,
	checksums ChecksumCalculator,
	config UpdateOrchestratorConfig,
	logger interfaces.Logger,
) *UpdateOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &UpdateOrchestrator{
		versionReader: versionReader,
		indexFetcher:  indexFetcher,
		resolver:      resolver,
		probe:         probe,
		fetcher:       fetcher,
		extractor:     extractor,
		checksums:     checksums,
		logger:        logger,
		force:         config.Force,
	}
}

// UpdateRequest describes one driver update
type UpdateRequest struct {
	BrowserPath string
	Target      *entities.OutputTarget
	// Platform is the Chrome for Testing platform key, e.g. "linux64"
	Platform string
}

// UpdateResult contains the result of an update operation
type UpdateResult struct {
	BrowserVersion   entities.Version
	Release          *entities.ResolvedRelease
	InstalledVersion *entities.Version
	Updated          bool
	DriverPath       string
	Digest           string
	DetectDuration   time.Duration
	ResolveDuration  time.Duration
	DownloadDuration time.Duration
	ExtractDuration  time.Duration
	TotalDuration    time.Duration
	Success          bool
	Error            error
}

// Update runs the workflow: detect the browser version, resolve the matching
// release, skip when the installed driver already matches, otherwise download
// and extract it. Errors are classified by stage (see errext.StageOf).
func (o *UpdateOrchestrator) Update(ctx context.Context, req UpdateRequest) (*UpdateResult, error) {
	startTime := time.Now()
	result := &UpdateResult{}
	fail := func(err error) (*UpdateResult, error) {
		result.Error = err
		result.TotalDuration = time.Since(startTime)
		return result, err
	}

	if req.Target == nil {
		return fail(errext.InvalidArgument(errors.New("no output target")))
	}
	log := o.logger.With(interfaces.F("platform", req.Platform))

	// Step 1: Detect browser version
	detectStart := time.Now()
	raw, err := o.versionReader.Detect(ctx, req.BrowserPath)
	if err != nil {
		return fail(errext.VersionDetection(err))
	}
	version, err := entities.FindVersion(raw)
	if err != nil {
		return fail(errext.VersionDetection(fmt.Errorf("can't parse browser version: %w", err)))
	}
	result.BrowserVersion = version
	result.DetectDuration = time.Since(detectStart)
	log.Info("detected browser version",
		interfaces.F("browser", req.BrowserPath),
		interfaces.F("version", version.String()))

	// Step 2: Fetch index and resolve release
	resolveStart := time.Now()
	index, err := o.indexFetcher.FetchIndex(ctx)
	if err != nil {
		return fail(errext.IndexFetch(err))
	}
	release, err := o.resolver.Resolve(index, version, req.Platform)
	if err != nil {
		return fail(errext.NoMatchingRelease(err))
	}
	result.Release = release
	result.ResolveDuration = time.Since(resolveStart)
	if release.IsFallback() {
		log.Warn("no exact driver release, using the newest release of the same major version",
			interfaces.F("requested", version.String()),
			interfaces.F("version", release.Version.String()))
	} else {
		log.Info("resolved release", interfaces.F("version", release.Version.String()))
	}

	// Step 3: Check installed driver
	result.DriverPath = req.Target.DriverPath()
	if o.probe != nil {
		installed, err := o.probe.InstalledVersion(ctx, req.Target)
		if err != nil {
			log.Warn("can't read installed driver version, replacing it",
				interfaces.F("path", result.DriverPath),
				interfaces.F("error", err))
			installed = nil
		}
		result.InstalledVersion = installed
	}
	if !o.force && !o.resolver.NeedsUpdate(result.InstalledVersion, release) {
		log.Info("driver is up to date", interfaces.F("path", result.DriverPath))
		result.Success = true
		result.TotalDuration = time.Since(startTime)
		return result, nil
	}

	// Step 4: Download archive
	downloadStart := time.Now()
	archive, err := o.fetcher.Fetch(ctx, release)
	if err != nil {
		return fail(errext.Download(err))
	}
	result.DownloadDuration = time.Since(downloadStart)
	log.Debug("downloaded archive",
		interfaces.F("url", archive.URL),
		interfaces.F("bytes", archive.Size()))

	// Step 5: Extract driver
	extractStart := time.Now()
	path, err := o.extractor.Extract(archive, req.Target)
	if err != nil {
		return fail(errext.Extraction(err))
	}
	result.DriverPath = path
	result.ExtractDuration = time.Since(extractStart)
	result.Updated = true

	if o.checksums != nil {
		digest, err := o.checksums.Checksum(path)
		if err != nil {
			log.Warn("can't compute driver checksum", interfaces.F("error", err))
		} else {
			result.Digest = digest
		}
	}

	log.Info("wrote driver", interfaces.F("path", path), interfaces.F("sha256", result.Digest))
	result.Success = true
	result.TotalDuration = time.Since(startTime)
	return result, nil
}

// GetUpdateSummary returns a human-readable summary of the update
func (r *UpdateResult) GetUpdateSummary() string {
	if !r.Success {
		return fmt.Sprintf("Update failed: %v", r.Error)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Browser version: %s\n", r.BrowserVersion)

	required := r.Release.Version.String()
	if r.Release.IsFallback() {
		required += " (fallback, no exact match)"
	}
	fmt.Fprintf(&b, "Required version: %s\n", required)

	current := "None"
	if r.InstalledVersion != nil {
		current = r.InstalledVersion.String()
	}
	fmt.Fprintf(&b, "Current version: %s\n", current)

	if !r.Updated {
		fmt.Fprintf(&b, "Driver is up to date: %s", r.DriverPath)
		return b.String()
	}

	fmt.Fprintf(&b, "Downloaded: %s (%v)\n", r.Release.URL, r.DownloadDuration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Driver: %s", r.DriverPath)
	if r.Digest != "" {
		fmt.Fprintf(&b, "\nSHA-256: %s", r.Digest)
	}
	return b.String()
}
