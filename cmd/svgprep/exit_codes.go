package main

import (
	"errors"
	"os"

	svgprep "github.com/alnah/go-svgprep"
	"github.com/alnah/go-svgprep/internal/config"
)

// Exit codes for svgprep CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid command, flags, or config
	ExitIO      = 3 // File not found, permission denied, write failures
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, svgprep.ErrBrowserConnect) ||
		errors.Is(err, svgprep.ErrPageCreate) ||
		errors.Is(err, svgprep.ErrPageLoad) ||
		errors.Is(err, svgprep.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, svgprep.ErrNoInput) ||
		errors.Is(err, svgprep.ErrMalformedDocument) ||
		errors.Is(err, svgprep.ErrWriteDocument) ||
		errors.Is(err, svgprep.ErrPDFMerge) ||
		errors.Is(err, svgprep.ErrPDFRead) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, ErrNoCommand) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidPattern) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTolerance) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidPageSize) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) {
		return ExitUsage
	}

	return ExitGeneral
}
