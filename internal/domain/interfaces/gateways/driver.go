// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
)

// VersionReader obtains the raw version string of an installed browser
type VersionReader interface {
	// Detect returns the raw version reported for the executable at path
	Detect(ctx context.Context, path string) (string, error)
}

// ReleaseIndexFetcher retrieves the remote listing of driver releases
type ReleaseIndexFetcher interface {
	FetchIndex(ctx context.Context) (*entities.ReleaseIndex, error)
}

// ArchiveFetcher downloads the archive of a resolved release
type ArchiveFetcher interface {
	Fetch(ctx context.Context, release *entities.ResolvedRelease) (*entities.Archive, error)
}

// Extractor writes the driver executable contained in an archive
type Extractor interface {
	// Extract writes the driver into target and returns its final path
	Extract(archive *entities.Archive, target *entities.OutputTarget) (string, error)
}

// DriverProbe reports the version of a driver already present on disk.
// A missing driver is reported as (nil, nil).
type DriverProbe interface {
	InstalledVersion(ctx context.Context, target *entities.OutputTarget) (*entities.Version, error)
}
