package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces"
	"github.com/ochairo/update-chrome-driver/internal/errext"
)

// maxArchiveSize bounds the in-memory download; driver archives are ~10 MiB
const maxArchiveSize = 512 << 20

// Downloader fetches driver archives into memory
type Downloader struct {
	httpClient *http.Client
	logger     interfaces.Logger
}

// NewDownloader creates a new downloader
func NewDownloader(httpClient *http.Client, logger interfaces.Logger) *Downloader {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Downloader{httpClient: httpClient, logger: logger}
}

// Fetch downloads the archive of release in a single attempt. Every failure
// is classified as errext.ErrDownload.
func (d *Downloader) Fetch(ctx context.Context, release *entities.ResolvedRelease) (*entities.Archive, error) {
	if release == nil || release.URL == "" {
		return nil, errext.Download(fmt.Errorf("release has no download URL"))
	}

	data, err := d.download(ctx, release.URL)
	if err != nil {
		return nil, errext.Download(err)
	}

	d.logger.Debug("downloaded archive",
		interfaces.F("file", path.Base(release.URL)),
		interfaces.F("bytes", len(data)))

	return &entities.Archive{URL: release.URL, Data: data}, nil
}

func (d *Downloader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if resp.ContentLength > maxArchiveSize {
		return nil, fmt.Errorf("archive too large: %d bytes", resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if len(data) > maxArchiveSize {
		return nil, fmt.Errorf("archive exceeds %d bytes", maxArchiveSize)
	}

	// ContentLength is -1 when the server did not declare one
	if resp.ContentLength >= 0 && int64(len(data)) != resp.ContentLength {
		return nil, fmt.Errorf("truncated archive: got %d of %d bytes", len(data), resp.ContentLength)
	}

	return data, nil
}
