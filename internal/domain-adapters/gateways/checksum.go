package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// ChecksumCalculator hashes files on an afero filesystem
type ChecksumCalculator struct {
	fs afero.Fs
}

// NewChecksumCalculator creates a calculator over fs
func NewChecksumCalculator(fs afero.Fs) *ChecksumCalculator {
	return &ChecksumCalculator{fs: fs}
}

// Checksum returns the hex SHA-256 digest of the file at path
func (c *ChecksumCalculator) Checksum(path string) (string, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
