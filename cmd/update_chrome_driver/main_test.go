package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/update-chrome-driver/internal/domain-adapters/gateways"
	"github.com/ochairo/update-chrome-driver/internal/errext/exitcodes"
)

const indexTemplate = `{
  "timestamp": "2023-08-01T10:09:51.211Z",
  "versions": [
    {"version": "114.0.5735.90", "revision": "1135570", "downloads": {"chrome": []}},
    {"version": "115.0.5790.102", "revision": "1148114", "downloads": {
      "chromedriver": [
        {"platform": "linux64", "url": "%[1]s/115.0.5790.102/linux64/chromedriver-linux64.zip"},
        {"platform": "win64", "url": "%[1]s/115.0.5790.102/win64/chromedriver-win64.zip"}
      ]}},
    {"version": "115.0.5790.170", "revision": "1148114", "downloads": {
      "chromedriver": [
        {"platform": "linux64", "url": "%[1]s/115.0.5790.170/linux64/chromedriver-linux64.zip"},
        {"platform": "win64", "url": "%[1]s/115.0.5790.170/win64/chromedriver-win64.zip"}
      ]}},
    {"version": "116.0.5845.96", "revision": "1160321", "downloads": {
      "chromedriver": [{"platform": "linux64", "url": "%[1]s/missing.zip"}]}},
    {"version": "117.0.5938.92", "revision": "1181205", "downloads": {
      "chromedriver": [{"platform": "linux64", "url": "%[1]s/corrupt.zip"}]}}
  ]
}`

// releaseServer serves a Chrome for Testing style index and driver archives
type releaseServer struct {
	*httptest.Server
	indexHits   atomic.Int32
	archiveHits atomic.Int32
	indexStatus int
}

func driverScript(version string) string {
	return fmt.Sprintf("#!/bin/sh\necho 'ChromeDriver %s (cc0d30c2ac4a5bd45bf4e4b5f4bd4c4bbcb1a0f0-refs/branch-heads/5790@{#1923})'\n", version)
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newReleaseServer(t *testing.T) *releaseServer {
	t.Helper()

	archives := map[string][]byte{}
	for _, version := range []string{"115.0.5790.102", "115.0.5790.170"} {
		archives["/"+version+"/linux64/chromedriver-linux64.zip"] = zipArchive(t, map[string]string{
			"chromedriver-linux64/chromedriver":         driverScript(version),
			"chromedriver-linux64/LICENSE.chromedriver": "license",
			"chromedriver-linux64/THIRD_PARTY_NOTICES":  "notices",
		})
		archives["/"+version+"/win64/chromedriver-win64.zip"] = zipArchive(t, map[string]string{
			"chromedriver-win64/chromedriver.exe":     "MZ" + version,
			"chromedriver-win64/LICENSE.chromedriver": "license",
		})
	}
	archives["/corrupt.zip"] = []byte("definitely not a zip archive")

	s := &releaseServer{indexStatus: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/index.json" {
			s.indexHits.Add(1)
			if s.indexStatus != http.StatusOK {
				w.WriteHeader(s.indexStatus)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, indexTemplate, s.URL)
			return
		}

		s.archiveHits.Add(1)
		data, ok := archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(data)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *releaseServer) hits() int32 {
	return s.indexHits.Load() + s.archiveHits.Load()
}

// fakeBrowser writes a shell script printing a Chrome version banner
func fakeBrowser(t *testing.T, version string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake browser scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "google-chrome")
	script := fmt.Sprintf("#!/bin/sh\necho 'Google Chrome %s '\n", version)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

type runResult struct {
	code   exitcodes.ExitCode
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	env := &environment{
		fs:     afero.NewOsFs(),
		runner: gateways.NewProcessRunner(0),
		goos:   runtime.GOOS,
		goarch: runtime.GOARCH,
		stdout: &stdout,
		stderr: &stderr,
	}
	code := execute(context.Background(), args, env)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestCLI_ExactMatchWindowsArchive(t *testing.T) {
	server := newReleaseServer(t)
	browser := fakeBrowser(t, "115.0.5790.170")
	out := filepath.Join(t.TempDir(), "drivers")

	res := runCLI(t, browser, out, "--platform", "win64", "--index-url", server.URL+"/index.json")
	require.Equal(t, exitcodes.Success, res.code, res.stderr)

	data, err := os.ReadFile(filepath.Join(out, "chromedriver.exe"))
	require.NoError(t, err)
	assert.Equal(t, "MZ115.0.5790.170", string(data))

	assert.Contains(t, res.stdout, "Browser version: 115.0.5790.170")
	assert.Contains(t, res.stdout, "Required version: 115.0.5790.170")
	assert.Contains(t, res.stdout, "Current version: None")
	assert.Contains(t, res.stdout, "chromedriver 115.0.5790.170 installed")
	assert.Equal(t, int32(1), server.archiveHits.Load())

	// license files stay in the archive
	_, err = os.Stat(filepath.Join(out, "LICENSE.chromedriver"))
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_FallbackToNewestOfMajor(t *testing.T) {
	server := newReleaseServer(t)
	browser := fakeBrowser(t, "115.0.5790.999")
	out := t.TempDir()

	res := runCLI(t, browser, out, "--platform", "linux64", "--index-url", server.URL+"/index.json")
	require.Equal(t, exitcodes.Success, res.code, res.stderr)

	data, err := os.ReadFile(filepath.Join(out, "chromedriver"))
	require.NoError(t, err)
	assert.Equal(t, driverScript("115.0.5790.170"), string(data))

	info, err := os.Stat(filepath.Join(out, "chromedriver"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	assert.Contains(t, res.stdout, "Required version: 115.0.5790.170 (fallback, no exact match)")
}

func TestCLI_MissingBrowserMakesNoNetworkCall(t *testing.T) {
	server := newReleaseServer(t)
	missing := filepath.Join(t.TempDir(), "no-such-chrome")

	res := runCLI(t, missing, t.TempDir(), "--platform", "linux64", "--index-url", server.URL+"/index.json")
	assert.Equal(t, exitcodes.VersionDetection, res.code)
	assert.Contains(t, res.stderr, "Error [version detection]:")
	assert.Contains(t, res.stderr, "Hint:")
	assert.Zero(t, server.hits())
}

func TestCLI_UpToDateDriverIsKept(t *testing.T) {
	server := newReleaseServer(t)
	browser := fakeBrowser(t, "115.0.5790.170")
	out := t.TempDir()
	args := []string{browser, out, "--platform", "linux64", "--index-url", server.URL + "/index.json"}

	first := runCLI(t, args...)
	require.Equal(t, exitcodes.Success, first.code, first.stderr)
	require.Equal(t, int32(1), server.archiveHits.Load())

	second := runCLI(t, args...)
	require.Equal(t, exitcodes.Success, second.code, second.stderr)
	assert.Equal(t, int32(1), server.archiveHits.Load(), "up to date driver must not be downloaded again")
	assert.Contains(t, second.stdout, "Current version: 115.0.5790.170")
	assert.Contains(t, second.stdout, "already installed")

	forced := runCLI(t, append(args, "--force")...)
	require.Equal(t, exitcodes.Success, forced.code, forced.stderr)
	assert.Equal(t, int32(2), server.archiveHits.Load())
}

func TestCLI_OutdatedDriverIsReplaced(t *testing.T) {
	server := newReleaseServer(t)
	browser := fakeBrowser(t, "115.0.5790.170")
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "chromedriver"), []byte(driverScript("114.0.5735.90")), 0o755))

	res := runCLI(t, browser, out, "--platform", "linux64", "--index-url", server.URL+"/index.json")
	require.Equal(t, exitcodes.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Current version: 114.0.5735.90")

	data, err := os.ReadFile(filepath.Join(out, "chromedriver"))
	require.NoError(t, err)
	assert.Equal(t, driverScript("115.0.5790.170"), string(data))
}

func TestCLI_StageFailures(t *testing.T) {
	tests := []struct {
		name        string
		browser     string
		indexStatus int
		want        exitcodes.ExitCode
		wantStage   string
	}{
		{"index unavailable", "115.0.5790.170", http.StatusInternalServerError, exitcodes.IndexFetch, "release index"},
		{"no release for major", "99.0.4844.51", http.StatusOK, exitcodes.NoMatchingRelease, "release resolution"},
		{"archive missing", "116.0.5845.96", http.StatusOK, exitcodes.Download, "download"},
		{"corrupt archive", "117.0.5938.92", http.StatusOK, exitcodes.Extraction, "extraction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newReleaseServer(t)
			server.indexStatus = tt.indexStatus
			browser := fakeBrowser(t, tt.browser)
			out := t.TempDir()

			res := runCLI(t, browser, out, "--platform", "linux64", "--index-url", server.URL+"/index.json")
			assert.Equal(t, tt.want, res.code, res.stderr)
			assert.Contains(t, res.stderr, "Error ["+tt.wantStage+"]:")

			_, err := os.Stat(filepath.Join(out, "chromedriver"))
			assert.True(t, os.IsNotExist(err), "no driver should be written")
		})
	}
}

func TestCLI_InvalidArguments(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	browser := fakeBrowser(t, "115.0.5790.170")

	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"one argument", []string{browser}},
		{"three arguments", []string{browser, dir, "extra"}},
		{"unknown flag", []string{browser, dir, "--bogus"}},
		{"unknown platform", []string{browser, dir, "--platform", "linux-riscv"}},
		{"output is a file", []string{browser, file, "--platform", "linux64"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			assert.Equal(t, exitcodes.InvalidArgument, res.code)
			assert.Contains(t, res.stderr, "Error [arguments]:")
		})
	}
}

func TestCLI_Help(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		res := runCLI(t, flag)
		assert.Equal(t, exitcodes.Success, res.code)
		assert.Contains(t, res.stdout, "update_chrome_driver <CHROME_BROWSER_PATH> <OUTPUT_DIRECTORY>")
		assert.Contains(t, res.stdout, "--platform")
		assert.Empty(t, res.stderr)
	}
}
