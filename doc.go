// Package svgprep normalizes SVG documents for self-contained distribution
// and print rendering: it embeds referenced raster and vector assets, fixes
// image geometry to honor aspect-ratio fitting, and renders documents to PDF
// using headless Chrome.
//
// # Quick Start
//
// Create a service, run the preparation passes, and close when done:
//
//	svc := svgprep.NewService()
//	defer svc.Close()
//
//	result, err := svc.PrepFile(ctx, "diagram.svg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.Written {
//	    fmt.Println("updated", result.Path)
//	}
//
// The result reports how many assets were embedded or inlined, how many
// image elements had their geometry rewritten, and any warnings for assets
// that could not be resolved.
//
// # Passes
//
// Document preparation runs two independent passes:
//
//  1. Embed: external file references on image elements become base64 data
//     URIs; referenced SVG files are inlined structurally as positioned and
//     scaled groups.
//  2. Fix: each image element's placement rectangle is rewritten to the box
//     its content actually occupies under aspect-ratio-preserving scaling,
//     then preserveAspectRatio is removed.
//
// EmbedFile and FixFile run a single pass; PrepFile runs both. All passes
// leave the document untouched on disk unless something changed, and never
// write when configured with WithDryRun.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := svgprep.NewService(
//	    svgprep.WithDryRun(),
//	    svgprep.WithTolerance(1.0),
//	    svgprep.WithTimeout(time.Minute),
//	)
//
// # PDF Rendering
//
// RenderPDF prints each input SVG to one PDF page and merges the pages:
//
//	report, err := svc.RenderPDF(ctx, []string{"a.svg", "b.svg"}, "out.pdf")
//
// The page size is taken from the first document's intrinsic dimensions at
// one point per user unit. PageSizes inspects the pages of an existing PDF.
//
// # Parallel Processing
//
// For batches, use ServicePool to run services concurrently:
//
//	pool := svgprep.NewServicePool(4)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//	result, err := svc.PrepFile(ctx, path)
//
// # Browser Requirements
//
// PDF rendering requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set CI=true to disable the Chrome
// sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary. Passes
// that never render do not start a browser.
package svgprep
