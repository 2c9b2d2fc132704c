package gateways

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/ochairo/update-chrome-driver/internal/domain/entities"
	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces"
	"github.com/ochairo/update-chrome-driver/internal/errext"
)

// maxDriverSize caps the uncompressed size of the extracted executable
const maxDriverSize = 1 << 30

// Extractor writes the driver executable out of a downloaded zip archive
type Extractor struct {
	fs     afero.Fs
	logger interfaces.Logger
}

// NewExtractor creates an extractor writing to fs
func NewExtractor(fs afero.Fs, logger interfaces.Logger) *Extractor {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Extractor{fs: fs, logger: logger}
}

// Extract writes the driver executable from archive into target and returns
// the written path. Other archive members are ignored. An existing driver is
// replaced only once the new one is completely written.
func (e *Extractor) Extract(archive *entities.Archive, target *entities.OutputTarget) (string, error) {
	if archive == nil || len(archive.Data) == 0 {
		return "", errext.Extraction(errors.New("archive is empty"))
	}

	reader, err := zip.NewReader(bytes.NewReader(archive.Data), archive.Size())
	if err != nil {
		return "", errext.Extraction(fmt.Errorf("archive is not a valid zip: %w", err))
	}

	entry := findDriverEntry(reader, target.Executable)
	if entry == nil {
		return "", errext.Extraction(fmt.Errorf("archive does not contain %s", target.Executable))
	}
	e.logger.Debug("found driver in archive",
		interfaces.F("entry", entry.Name),
		interfaces.F("size", entry.UncompressedSize64))

	dest := target.DriverPath()
	if err := e.writeEntry(entry, target); err != nil {
		return "", errext.Extraction(err)
	}
	return dest, nil
}

// findDriverEntry returns the shallowest regular file named executable
func findDriverEntry(reader *zip.Reader, executable string) *zip.File {
	var found *zip.File
	foundDepth := 0
	for _, file := range reader.File {
		// directories, symlinks and devices never hold the driver
		if !file.Mode().IsRegular() {
			continue
		}
		name := strings.ReplaceAll(file.Name, `\`, "/")
		if path.Base(name) != executable {
			continue
		}
		depth := strings.Count(strings.Trim(name, "/"), "/")
		if found == nil || depth < foundDepth {
			found = file
			foundDepth = depth
		}
	}
	return found
}

func (e *Extractor) writeEntry(entry *zip.File, target *entities.OutputTarget) (err error) {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s in archive: %w", entry.Name, err)
	}
	//nolint:errcheck // Defer close on read-only entry
	defer src.Close()

	tmp, err := afero.TempFile(e.fs, target.Dir, "."+target.Executable+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", target.Dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = e.fs.Remove(tmpName)
		}
	}()

	written, err := io.Copy(tmp, io.LimitReader(src, maxDriverSize+1))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", target.Executable, err)
	}
	if written > maxDriverSize {
		return fmt.Errorf("%s exceeds %d bytes", entry.Name, int64(maxDriverSize))
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if !target.Windows {
		if err = e.fs.Chmod(tmpName, 0o755); err != nil {
			return fmt.Errorf("failed to make %s executable: %w", target.Executable, err)
		}
	}

	dest := target.DriverPath()
	if err = e.fs.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("failed to move driver into place at %s: %w", dest, err)
	}
	e.logger.Debug("wrote driver", interfaces.F("path", dest), interfaces.F("bytes", written))
	return nil
}
