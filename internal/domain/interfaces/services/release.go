// Package services defines interfaces for domain service contracts.
package services

import (
	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
)

// ReleaseResolver selects the driver release matching a browser version
type ReleaseResolver interface {
	Resolve(index *entities.ReleaseIndex, version entities.Version, platform string) (*entities.ResolvedRelease, error)

	// NeedsUpdate reports whether installed differs from the resolved release.
	// A nil installed version always needs an update.
	NeedsUpdate(installed *entities.Version, release *entities.ResolvedRelease) bool
}
