package entities

// PlatformProfile describes one Chrome for Testing platform
type PlatformProfile struct {
	Key        string   // e.g. "linux64", "mac-arm64", "win64"
	OS         string   // GOOS value
	Arch       []string // GOARCH values served by this platform
	Executable string   // driver file name inside the archive
}

// Supports reports whether the profile serves the given GOOS/GOARCH pair
func (p *PlatformProfile) Supports(goos, goarch string) bool {
	if p.OS != goos {
		return false
	}
	for _, a := range p.Arch {
		if a == goarch {
			return true
		}
	}
	return false
}

// IsWindows reports whether the profile targets Windows
func (p *PlatformProfile) IsWindows() bool {
	return p.OS == "windows"
}
