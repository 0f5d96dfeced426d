package svgprep

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/alnah/go-svgprep/internal/xmltree"
)

// pageRenderer abstracts printing one SVG file to single-page PDF bytes, to
// enable testing without a browser.
type pageRenderer interface {
	RenderPage(ctx context.Context, filePath string, widthPt, heightPt float64) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pageRenderer = (*rodRenderer)(nil)

// Fallback page size in points when no SVG dimensions can be detected.
const (
	defaultPageWidth  = 1280
	defaultPageHeight = 720
)

// pointsPerInch converts intrinsic SVG units to Chrome's paper inches.
// At 72 DPI one user unit maps to one point.
const pointsPerInch = 72

// RenderReport summarizes one RenderPDF call.
type RenderReport struct {
	Pages      int     // pages rendered into the output
	PageWidth  float64 // page size in points
	PageHeight float64
	Warnings   []string
}

func (r *RenderReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// RenderPDF renders each SVG file to a single PDF page via headless Chrome
// and merges the pages into outPath. The page size comes from the first
// document's intrinsic dimensions (1 user unit = 1 point); documents with
// different dimensions are rendered at the first page's size, with a
// warning. Input documents are never mutated.
func (s *Service) RenderPDF(ctx context.Context, svgPaths []string, outPath string) (*RenderReport, error) {
	if len(svgPaths) == 0 {
		return nil, ErrNoInput
	}

	fallbackW, fallbackH := float64(defaultPageWidth), float64(defaultPageHeight)
	if s.cfg.pageWidth > 0 && s.cfg.pageHeight > 0 {
		fallbackW, fallbackH = s.cfg.pageWidth, s.cfg.pageHeight
	}

	pageW, pageH := fallbackW, fallbackH
	report := &RenderReport{}
	if w, h, ok := probeDocumentSize(svgPaths[0]); ok {
		pageW, pageH = w, h
	} else {
		report.warnf("no dimensions detected in %s, using default %gx%g",
			filepath.Base(svgPaths[0]), fallbackW, fallbackH)
	}
	report.PageWidth = pageW
	report.PageHeight = pageH

	renderer := s.pageRenderer()

	tmpDir, err := os.MkdirTemp("", "svgprep-pages-")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	var pageFiles []string
	for i, svgPath := range svgPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if w, h, ok := probeDocumentSize(svgPath); ok && (w != pageW || h != pageH) {
			report.warnf("%s has different dimensions %gx%g, rendering at %gx%g",
				filepath.Base(svgPath), w, h, pageW, pageH)
		}

		abs, err := filepath.Abs(svgPath)
		if err != nil {
			report.warnf("skipping %s: %v", svgPath, err)
			continue
		}
		data, err := renderer.RenderPage(ctx, abs, pageW, pageH)
		if err != nil {
			report.warnf("skipping %s: %v", filepath.Base(svgPath), err)
			continue
		}

		pagePath := filepath.Join(tmpDir, fmt.Sprintf("page-%04d.pdf", i))
		if err := os.WriteFile(pagePath, data, 0o600); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
		}
		pageFiles = append(pageFiles, pagePath)
	}

	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("%w: no pages rendered", ErrPDFGeneration)
	}

	if err := api.MergeCreateFile(pageFiles, outPath, false, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFMerge, err)
	}
	report.Pages = len(pageFiles)
	return report, nil
}

// pageRenderer returns the configured renderer, creating the production one
// lazily so passes that never render skip the browser entirely.
func (s *Service) pageRenderer() pageRenderer {
	if s.renderer == nil {
		s.renderer = newRodRenderer(s.cfg.timeout)
	}
	return s.renderer
}

// probeDocumentSize reads an SVG's intrinsic size without keeping the tree.
func probeDocumentSize(path string) (w, h float64, ok bool) {
	doc, err := xmltree.ParseFile(path)
	if err != nil {
		return 0, 0, false
	}
	return doc.IntrinsicSize()
}

// rodRenderer implements pageRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderPage opens a local SVG file in headless Chrome and prints it to a
// single borderless PDF page of the given size.
func (r *rodRenderer) RenderPage(ctx context.Context, filePath string, widthPt, heightPt float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(widthPt / pointsPerInch),
		PaperHeight:     floatPtr(heightPt / pointsPerInch),
		MarginTop:       floatPtr(0),
		MarginBottom:    floatPtr(0),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
