// Package repositories defines interfaces for data access layers.
package repositories

import (
	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
)

// PlatformRepository provides the known Chrome for Testing platforms
type PlatformRepository interface {
	// GetPlatform returns the profile registered under key
	GetPlatform(key string) (*entities.PlatformProfile, error)

	// ListPlatforms returns all known profiles
	ListPlatforms() []*entities.PlatformProfile

	// DetectPlatform returns the profile serving the given GOOS/GOARCH pair
	DetectPlatform(goos, goarch string) (*entities.PlatformProfile, error)
}
