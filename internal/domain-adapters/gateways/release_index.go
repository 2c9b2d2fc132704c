package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces"
	"github.com/ochairo/update-chrome-driver/internal/errext"
)

const (
	// DefaultIndexURL lists every Chrome for Testing release with its
	// per-platform downloads
	DefaultIndexURL = "https://googlechromelabs.github.io/chrome-for-testing/known-good-versions-with-downloads.json"

	// UserAgent is sent with every request
	UserAgent = "update-chrome-driver/1.0"

	maxIndexSize = 64 << 20
)

// NewHTTPClient creates the client shared by the gateways; a zero timeout
// means two minutes
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &http.Client{Timeout: timeout}
}

// ReleaseIndexFetcher reads the Chrome for Testing release index
type ReleaseIndexFetcher struct {
	httpClient *http.Client
	indexURL   string
	logger     interfaces.Logger
	maxSize    int64
}

// NewReleaseIndexFetcher creates a fetcher for indexURL. An empty URL means
// DefaultIndexURL.
func NewReleaseIndexFetcher(indexURL string, httpClient *http.Client, logger interfaces.Logger) *ReleaseIndexFetcher {
	if indexURL == "" {
		indexURL = DefaultIndexURL
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ReleaseIndexFetcher{httpClient: httpClient, indexURL: indexURL, logger: logger, maxSize: maxIndexSize}
}

// FetchIndex downloads and parses the index in a single attempt. Every
// failure is classified as errext.ErrIndexFetch.
func (f *ReleaseIndexFetcher) FetchIndex(ctx context.Context) (*entities.ReleaseIndex, error) {
	body, err := f.fetch(ctx)
	if err != nil {
		return nil, errext.IndexFetch(err)
	}

	index, err := ParseReleaseIndex(body, f.indexURL, f.logger)
	if err != nil {
		return nil, errext.IndexFetch(err)
	}
	return index, nil
}

func (f *ReleaseIndexFetcher) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	f.logger.Debug("fetching release index", interfaces.F("url", f.indexURL))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("release index exceeds %d bytes", f.maxSize)
	}
	return body, nil
}

// ParseReleaseIndex parses a known-good-versions-with-downloads document.
//
// Versions without chromedriver downloads (before 115) are not driver
// releases and are left out. Entries with an unparsable version are skipped.
func ParseReleaseIndex(data []byte, source string, logger interfaces.Logger) (*entities.ReleaseIndex, error) {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed release index: invalid JSON")
	}

	versions := gjson.GetBytes(data, "versions")
	if !versions.IsArray() {
		return nil, fmt.Errorf("malformed release index: missing versions array")
	}

	index := &entities.ReleaseIndex{Source: source, Fetched: time.Now()}
	positions := make(map[entities.Version]int)
	skipped := 0

	versions.ForEach(func(_, item gjson.Result) bool {
		raw := item.Get("version").String()
		version, err := entities.ParseVersion(raw)
		if err != nil {
			skipped++
			logger.Debug("skipping index entry", interfaces.F("version", raw), interfaces.F("error", err))
			return true
		}

		downloads := make(map[string]string)
		item.Get("downloads.chromedriver").ForEach(func(_, d gjson.Result) bool {
			platform, url := d.Get("platform").String(), d.Get("url").String()
			if platform != "" && url != "" {
				downloads[platform] = url
			}
			return true
		})
		if len(downloads) == 0 {
			return true
		}

		if pos, seen := positions[version]; seen {
			for platform, url := range downloads {
				index.Entries[pos].Downloads[platform] = url
			}
			return true
		}

		positions[version] = len(index.Entries)
		index.Entries = append(index.Entries, entities.IndexEntry{
			Version:   version,
			Revision:  item.Get("revision").String(),
			Downloads: downloads,
		})
		return true
	})

	logger.Debug("parsed release index",
		interfaces.F("releases", len(index.Entries)),
		interfaces.F("skipped", skipped))

	return index, nil
}
