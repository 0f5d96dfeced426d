package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// prepFlags holds flags for the embed, fix, and prep commands.
type prepFlags struct {
	common    commonFlags
	output    string
	workers   int
	dryRun    bool
	tolerance float64
	timeout   string
}

// pdfFlags holds flags for the pdf command.
type pdfFlags struct {
	common     commonFlags
	output     string
	timeout    string
	pageWidth  float64
	pageHeight float64
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// parsePrepFlags parses flags for the embed/fix/prep commands and returns
// positional args.
func parsePrepFlags(name string, args []string) (*prepFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := &prepFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (default: rewrite in place)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "report intended changes without writing")
	fs.Float64Var(&f.tolerance, "tolerance", 0, "minimum geometry delta to rewrite, in user units (0 = default)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file processing timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printPrepUsage(os.Stderr, name) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePDFFlags parses flags for the pdf command and returns positional args.
func parsePDFFlags(args []string) (*pdfFlags, []string, error) {
	fs := flag.NewFlagSet("pdf", flag.ContinueOnError)
	f := &pdfFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: output.pdf)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-page render timeout (e.g., 30s, 2m)")
	fs.Float64Var(&f.pageWidth, "page-width", 0, "fallback page width in points")
	fs.Float64Var(&f.pageHeight, "page-height", 0, "fallback page height in points")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printPDFUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
