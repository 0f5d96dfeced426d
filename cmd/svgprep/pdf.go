package main

import (
	"context"
	"fmt"
	"time"

	svgprep "github.com/alnah/go-svgprep"
	"github.com/alnah/go-svgprep/internal/config"
)

// defaultPDFOutput is used when the pdf command gets no --output flag.
const defaultPDFOutput = "output.pdf"

// runPDF renders SVG files to a merged PDF document.
func runPDF(ctx context.Context, args []string, deps *Dependencies) error {
	flags, positional, err := parsePDFFlags(args)
	if err != nil {
		return err
	}

	if (flags.pageWidth > 0) != (flags.pageHeight > 0) {
		return fmt.Errorf("%w: --page-width and --page-height must be set together", ErrInvalidPageSize)
	}
	if flags.pageWidth < 0 || flags.pageHeight < 0 {
		return fmt.Errorf("%w: dimensions must be positive", ErrInvalidPageSize)
	}

	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	// Page order follows the command line; a single directory argument is
	// expanded to its SVG files in sorted order.
	var svgPaths []string
	if len(positional) > 1 {
		for _, p := range positional {
			if err := validateSVGExtension(p); err != nil {
				return err
			}
			svgPaths = append(svgPaths, p)
		}
	} else {
		files, err := discoverFiles(inputPath, "")
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		for _, f := range files {
			svgPaths = append(svgPaths, f.InputPath)
		}
	}
	if len(svgPaths) == 0 {
		return fmt.Errorf("%w: no SVG files found in %s", ErrNoInput, inputPath)
	}

	outPath := flags.output
	if outPath == "" {
		outPath = defaultPDFOutput
	}

	opts, err := renderOptions(flags, cfg)
	if err != nil {
		return err
	}

	svc := svgprep.NewService(opts...)
	defer svc.Close()

	start := time.Now()
	report, err := svc.RenderPDF(ctx, svgPaths, outPath)
	if err != nil {
		return err
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(deps.Stderr, "WARNING %s\n", w)
	}
	if !flags.common.quiet {
		if flags.common.verbose {
			fmt.Fprintf(deps.Stdout, "Created %s: %d page(s) at %gx%g pt (%v)\n",
				outPath, report.Pages, report.PageWidth, report.PageHeight,
				time.Since(start).Round(time.Millisecond))
		} else {
			fmt.Fprintf(deps.Stdout, "Created %s\n", outPath)
		}
	}
	return nil
}

// renderOptions builds service options for the pdf command. CLI values
// override config values.
func renderOptions(flags *pdfFlags, cfg *config.Config) ([]svgprep.Option, error) {
	var opts []svgprep.Option

	pageW, pageH := cfg.Render.PageWidth, cfg.Render.PageHeight
	if flags.pageWidth > 0 {
		pageW, pageH = flags.pageWidth, flags.pageHeight
	}
	if pageW > 0 && pageH > 0 {
		opts = append(opts, svgprep.WithPageSize(pageW, pageH))
	}

	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		opts = append(opts, svgprep.WithTimeout(d))
	}

	return opts, nil
}

// runPageSize prints the page dimensions of a PDF file.
func runPageSize(args []string, deps *Dependencies) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: svgprep pagesize <file.pdf>", ErrNoInput)
	}

	for _, path := range args {
		sizes, err := svgprep.PageSizes(path)
		if err != nil {
			return err
		}
		for i, s := range sizes {
			fmt.Fprintf(deps.Stdout, "%s page %d: %.1f x %.1f pt\n", path, i+1, s.Width, s.Height)
		}
	}
	return nil
}
