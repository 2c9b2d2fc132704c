package yaml

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces/repositories"
)

//go:embed platforms.yml
var defaultPlatforms []byte

// PlatformRepository implements repositories.PlatformRepository over a
// parsed YAML platform table
type PlatformRepository struct {
	profiles []*entities.PlatformProfile
}

// NewPlatformRepository loads the embedded platform table
func NewPlatformRepository() (*PlatformRepository, error) {
	return NewPlatformRepositoryFromYAML(defaultPlatforms)
}

// NewPlatformRepositoryFromYAML loads a platform table from YAML bytes
func NewPlatformRepositoryFromYAML(data []byte) (*PlatformRepository, error) {
	profiles, err := NewPlatformParser().Parse(data)
	if err != nil {
		return nil, err
	}
	return &PlatformRepository{profiles: profiles}, nil
}

// GetPlatform returns the profile registered under key
func (r *PlatformRepository) GetPlatform(key string) (*entities.PlatformProfile, error) {
	for _, p := range r.profiles {
		if p.Key == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown platform %q (known: %s)", key, strings.Join(r.keys(), ", "))
}

// ListPlatforms returns all profiles sorted by key
func (r *PlatformRepository) ListPlatforms() []*entities.PlatformProfile {
	return append([]*entities.PlatformProfile(nil), r.profiles...)
}

// DetectPlatform returns the profile serving goos/goarch
func (r *PlatformRepository) DetectPlatform(goos, goarch string) (*entities.PlatformProfile, error) {
	for _, p := range r.profiles {
		if p.Supports(goos, goarch) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unsupported platform %s/%s", goos, goarch)
}

func (r *PlatformRepository) keys() []string {
	keys := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		keys = append(keys, p.Key)
	}
	return keys
}

var _ repositories.PlatformRepository = (*PlatformRepository)(nil)
