package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svgprep <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  embed      Embed referenced assets into SVG files")
	fmt.Fprintln(w, "  fix        Fix image geometry for aspect-ratio fitting")
	fmt.Fprintln(w, "  prep       Run both passes: embed then fix")
	fmt.Fprintln(w, "  pdf        Render SVG files to a merged PDF")
	fmt.Fprintln(w, "  pagesize   Show page dimensions of a PDF file")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'svgprep help <command>' for details on a specific command.")
}

// printPrepUsage prints usage for the embed, fix, and prep commands.
func printPrepUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage: svgprep %s <input>... [flags]\n", name)
	fmt.Fprintln(w)
	switch name {
	case "embed":
		fmt.Fprintln(w, "Embed referenced raster and vector assets into SVG files.")
		fmt.Fprintln(w, "Raster references become base64 data URIs; SVG references are")
		fmt.Fprintln(w, "inlined structurally as positioned and scaled groups.")
	case "fix":
		fmt.Fprintln(w, "Rewrite image placement rectangles to the box the content")
		fmt.Fprintln(w, "actually occupies under aspect-ratio-preserving scaling.")
	default:
		fmt.Fprintln(w, "Run both normalization passes: embed assets, then fix geometry.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    SVG files, directories, or glob patterns")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>    Output file or directory (default: rewrite in place)")
	fmt.Fprintln(w, "  -c, --config <name>    Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>      Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -n, --dry-run          Report intended changes without writing")
	fmt.Fprintln(w, "      --tolerance <f>    Min geometry delta to rewrite, in user units")
	fmt.Fprintln(w, "  -t, --timeout <d>      Per-file processing timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet            Only show errors")
	fmt.Fprintln(w, "  -v, --verbose          Show detailed timing and per-change details")
}

// printPDFUsage prints usage for the pdf command.
func printPDFUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svgprep pdf <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render each SVG file to one PDF page and merge the pages.")
	fmt.Fprintln(w, "Page size comes from the first document's intrinsic dimensions")
	fmt.Fprintln(w, "at one point per user unit.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    SVG files in page order, or a single directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>    Output PDF path (default: output.pdf)")
	fmt.Fprintln(w, "  -c, --config <name>    Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>      Per-page render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --page-width <f>   Fallback page width in points")
	fmt.Fprintln(w, "      --page-height <f>  Fallback page height in points")
	fmt.Fprintln(w, "  -q, --quiet            Only show errors")
	fmt.Fprintln(w, "  -v, --verbose          Show page count and timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return
	}

	switch args[0] {
	case "embed", "fix", "prep":
		printPrepUsage(deps.Stdout, args[0])
	case "pdf":
		printPDFUsage(deps.Stdout)
	case "pagesize":
		fmt.Fprintln(deps.Stdout, "Usage: svgprep pagesize <file.pdf>...")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show the media box of every page, in points.")
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: svgprep version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: svgprep help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
	}
}
