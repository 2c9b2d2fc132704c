// Package services contains the domain logic of driver release selection.
package services

import (
	"fmt"
	"sort"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
	"github.com/ochairo/update-chrome-driver/internal/errext"
)

// ReleaseService selects driver releases from a release index
type ReleaseService struct{}

// NewReleaseService creates a new release service
func NewReleaseService() *ReleaseService {
	return &ReleaseService{}
}

// Resolve picks the release for version on platform.
//
// An exact version match wins. Otherwise the highest release sharing the
// major version is used. Entries without a download for platform are
// ignored. When nothing matches, the error is classified as
// errext.ErrNoMatchingRelease.
func (s *ReleaseService) Resolve(
	index *entities.ReleaseIndex,
	version entities.Version,
	platform string,
) (*entities.ResolvedRelease, error) {
	if index == nil {
		return nil, errext.NoMatchingRelease(fmt.Errorf("no release index for Chrome %s", version))
	}

	candidates := s.CandidatesForMajor(index, version.Major, platform)
	if len(candidates) == 0 {
		return nil, errext.NoMatchingRelease(fmt.Errorf(
			"no chromedriver release for Chrome %s on %s (no release with major version %d)",
			version, platform, version.Major))
	}

	for _, entry := range candidates {
		if entry.Version.Equal(version) {
			return newResolved(version, entry, platform, entities.MatchExact), nil
		}
	}

	// candidates are sorted highest first
	return newResolved(version, candidates[0], platform, entities.MatchMajorFallback), nil
}

// CandidatesForMajor returns the entries under major that publish a driver
// for platform, highest version first
func (s *ReleaseService) CandidatesForMajor(index *entities.ReleaseIndex, major int, platform string) []entities.IndexEntry {
	var candidates []entities.IndexEntry
	for _, entry := range index.Entries {
		if entry.Version.Major != major {
			continue
		}
		if _, ok := entry.DownloadURL(platform); !ok {
			continue
		}
		candidates = append(candidates, entry)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Version.Compare(candidates[j].Version) > 0
	})
	return candidates
}

func newResolved(requested entities.Version, entry entities.IndexEntry, platform string, match entities.MatchKind) *entities.ResolvedRelease {
	url, _ := entry.DownloadURL(platform)
	return &entities.ResolvedRelease{
		Requested: requested,
		Version:   entry.Version,
		Revision:  entry.Revision,
		Platform:  platform,
		URL:       url,
		Match:     match,
	}
}

// NeedsUpdate reports whether the installed driver must be replaced to
// serve release. A missing driver always needs an update.
func (s *ReleaseService) NeedsUpdate(installed *entities.Version, release *entities.ResolvedRelease) bool {
	if installed == nil {
		return true
	}
	return !installed.Equal(release.Version)
}
