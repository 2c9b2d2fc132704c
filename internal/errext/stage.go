package errext

import (
	"errors"
	"fmt"

	"github.com/ochairo/update-chrome-driver/internal/errext/exitcodes"
)

// Stage names the pipeline step an error originated from
type Stage string

// Pipeline stages
const (
	StageArguments        Stage = "arguments"
	StageVersionDetection Stage = "version detection"
	StageIndexFetch       Stage = "release index"
	StageResolve          Stage = "release resolution"
	StageDownload         Stage = "download"
	StageExtraction       Stage = "extraction"
)

// Sentinels matched by errors.Is against any StageError of the same stage.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrVersionDetection  = errors.New("version detection error")
	ErrIndexFetch        = errors.New("index fetch error")
	ErrNoMatchingRelease = errors.New("no matching release")
	ErrDownload          = errors.New("download error")
	ErrExtraction        = errors.New("extraction error")
)

var stageKinds = map[Stage]struct {
	sentinel error
	code     exitcodes.ExitCode
}{
	StageArguments:        {ErrInvalidArgument, exitcodes.InvalidArgument},
	StageVersionDetection: {ErrVersionDetection, exitcodes.VersionDetection},
	StageIndexFetch:       {ErrIndexFetch, exitcodes.IndexFetch},
	StageResolve:          {ErrNoMatchingRelease, exitcodes.NoMatchingRelease},
	StageDownload:         {ErrDownload, exitcodes.Download},
	StageExtraction:       {ErrExtraction, exitcodes.Extraction},
}

// StageError is a terminal pipeline failure tagged with its stage
type StageError struct {
	Stage Stage
	Err   error
}

// NewStageError wraps err as a failure of stage. A nil error stays nil and
// an error that already carries a stage keeps it.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := StageOf(err); ok {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's stage
func (e *StageError) Is(target error) bool {
	kind, ok := stageKinds[e.Stage]
	return ok && target == kind.sentinel
}

// ExitCode implements HasExitCode
func (e *StageError) ExitCode() exitcodes.ExitCode {
	if kind, ok := stageKinds[e.Stage]; ok {
		return kind.code
	}
	return exitcodes.Generic
}

var _ HasExitCode = (*StageError)(nil)

// StageOf returns the stage of the first StageError in err's chain
func StageOf(err error) (Stage, bool) {
	var serr *StageError
	if errors.As(err, &serr) {
		return serr.Stage, true
	}
	return "", false
}

// InvalidArgument classifies err as an InvalidArgumentError
func InvalidArgument(err error) error { return NewStageError(StageArguments, err) }

// VersionDetection classifies err as a VersionDetectionError
func VersionDetection(err error) error { return NewStageError(StageVersionDetection, err) }

// IndexFetch classifies err as an IndexFetchError
func IndexFetch(err error) error { return NewStageError(StageIndexFetch, err) }

// NoMatchingRelease classifies err as a NoMatchingReleaseError
func NoMatchingRelease(err error) error { return NewStageError(StageResolve, err) }

// Download classifies err as a DownloadError
func Download(err error) error { return NewStageError(StageDownload, err) }

// Extraction classifies err as an ExtractionError
func Extraction(err error) error { return NewStageError(StageExtraction, err) }
