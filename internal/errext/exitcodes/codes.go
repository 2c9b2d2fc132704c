// Package exitcodes contains the process exit codes of update_chrome_driver.
package exitcodes

// ExitCode is a process exit code
type ExitCode uint8

// Exit codes, one per pipeline stage
const (
	Success           ExitCode = 0
	Generic           ExitCode = 1
	InvalidArgument   ExitCode = 2
	VersionDetection  ExitCode = 3
	IndexFetch        ExitCode = 4
	NoMatchingRelease ExitCode = 5
	Download          ExitCode = 6
	Extraction        ExitCode = 7
)
