package entities

import "time"

// IndexEntry is one driver release listed by the release index
type IndexEntry struct {
	Version  Version
	Revision string
	// Downloads maps a platform key (e.g. "win64") to the archive URL
	Downloads map[string]string
}

// DownloadURL returns the archive URL for platform, if published
func (e IndexEntry) DownloadURL(platform string) (string, bool) {
	url, ok := e.Downloads[platform]
	return url, ok && url != ""
}

// ReleaseIndex is the remote listing of available driver releases,
// fetched fresh for each run
type ReleaseIndex struct {
	Source  string
	Fetched time.Time
	Entries []IndexEntry
}

// MatchKind tells how a release was selected
type MatchKind string

// Release match kinds
const (
	MatchExact         MatchKind = "exact"
	MatchMajorFallback MatchKind = "major-fallback"
)

// ResolvedRelease is the release chosen for a browser version
type ResolvedRelease struct {
	Requested Version
	Version   Version
	Revision  string
	Platform  string
	URL       string
	Match     MatchKind
}

// IsFallback reports whether the release differs from the requested version
func (r *ResolvedRelease) IsFallback() bool {
	return r.Match == MatchMajorFallback
}
