// Package yaml provides the YAML-backed platform profile table.
package yaml

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
)

type yamlPlatformTable struct {
	Platforms map[string]yamlPlatform `yaml:"platforms"`
}

type yamlPlatform struct {
	OS         string   `yaml:"os"`
	Arch       []string `yaml:"arch"`
	Executable string   `yaml:"executable"`
}

// PlatformParser parses platform profile tables
type PlatformParser struct{}

// NewPlatformParser creates a new YAML parser
func NewPlatformParser() *PlatformParser {
	return &PlatformParser{}
}

// Parse parses YAML bytes into platform profiles sorted by key
func (p *PlatformParser) Parse(data []byte) ([]*entities.PlatformProfile, error) {
	var table yamlPlatformTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(table.Platforms) == 0 {
		return nil, fmt.Errorf("platform table must define at least one platform")
	}

	profiles := make([]*entities.PlatformProfile, 0, len(table.Platforms))
	for key, yp := range table.Platforms {
		profile, err := convertPlatform(key, yp)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Key < profiles[j].Key
	})
	return profiles, nil
}

func convertPlatform(key string, yp yamlPlatform) (*entities.PlatformProfile, error) {
	switch {
	case key == "":
		return nil, fmt.Errorf("platform key must not be empty")
	case yp.OS == "":
		return nil, fmt.Errorf("platform %s: os is required", key)
	case len(yp.Arch) == 0:
		return nil, fmt.Errorf("platform %s: at least one arch is required", key)
	case yp.Executable == "":
		return nil, fmt.Errorf("platform %s: executable is required", key)
	}

	return &entities.PlatformProfile{
		Key:        key,
		OS:         yp.OS,
		Arch:       append([]string(nil), yp.Arch...),
		Executable: yp.Executable,
	}, nil
}
