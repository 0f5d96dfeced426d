package svgprep

import "errors"

// Sentinel errors for library operations.
var (
	ErrMalformedDocument = errors.New("cannot parse SVG document")
	ErrNoInput           = errors.New("no input SVG files")
	ErrWriteDocument     = errors.New("failed to write SVG document")

	// PDF backend errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrPDFMerge       = errors.New("failed to merge PDF pages")
	ErrPDFRead        = errors.New("failed to read PDF")
)
