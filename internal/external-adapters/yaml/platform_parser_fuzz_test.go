package yaml

import (
	"testing"
)

// FuzzPlatformParser checks that malformed platform tables produce errors,
// never panics or half-filled profiles.
//
// Run with: go test -fuzz=FuzzPlatformParser -fuzztime=30s
func FuzzPlatformParser(f *testing.F) {
	f.Add(defaultPlatforms)
	f.Add([]byte("platforms:\n  linux64:\n    os: linux\n    arch: [amd64]\n    executable: chromedriver\n"))
	f.Add([]byte("platforms: {}"))
	f.Add([]byte("platforms:\n  x:\n    arch: amd64\n"))
	f.Add([]byte(""))

	f.Fuzz(func(t *testing.T, data []byte) {
		profiles, err := NewPlatformParser().Parse(data)
		if err != nil {
			return
		}
		for _, p := range profiles {
			if p.Key == "" || p.OS == "" || len(p.Arch) == 0 || p.Executable == "" {
				t.Errorf("incomplete profile accepted: %+v", p)
			}
		}
	})
}
