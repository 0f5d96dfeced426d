package svgprep

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-svgprep/internal/xmltree"
)

// defaultTimeout bounds a single PDF page render.
const defaultTimeout = 30 * time.Second

// Service runs the normalization passes and the PDF renderer over SVG
// files. Create with NewService, use the *File methods, and Close when done
// if RenderPDF was used (it holds a headless browser).
//
// A Service processes one document at a time; use a ServicePool to work on
// independent documents in parallel.
type Service struct {
	cfg      serviceConfig
	embedder *Embedder
	fixer    *Fixer
	renderer pageRenderer
}

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	dryRun     bool
	tolerance  float64
	timeout    time.Duration
	pageWidth  float64
	pageHeight float64
}

// Option configures a Service.
type Option func(*Service)

// WithDryRun makes all passes report intended mutations without writing
// anything.
func WithDryRun() Option {
	return func(s *Service) {
		s.cfg.dryRun = true
	}
}

// WithTolerance sets the Fixer's convergence tolerance in user units.
// Panics if t <= 0 (programmer error, similar to time.NewTicker).
func WithTolerance(t float64) Option {
	if t <= 0 {
		panic("svgprep: WithTolerance value must be positive")
	}
	return func(s *Service) {
		s.cfg.tolerance = t
	}
}

// WithTimeout sets the per-page PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("svgprep: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithPageSize sets the fallback PDF page size in points, used when the
// first rendered document declares no intrinsic dimensions.
// Panics if w or h <= 0 (programmer error, similar to time.NewTicker).
func WithPageSize(w, h float64) Option {
	if w <= 0 || h <= 0 {
		panic("svgprep: WithPageSize dimensions must be positive")
	}
	return func(s *Service) {
		s.cfg.pageWidth = w
		s.cfg.pageHeight = h
	}
}

// NewService creates a Service with default configuration.
func NewService(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			tolerance: DefaultTolerance,
			timeout:   defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.embedder = &Embedder{DryRun: s.cfg.dryRun}
	s.fixer = &Fixer{DryRun: s.cfg.dryRun, Tolerance: s.cfg.tolerance}
	return s
}

// Result describes what the passes did to one file.
type Result struct {
	Path     string
	Embedded int // references made self-contained
	Inlined  int // of Embedded, SVG targets structurally inlined
	Fixed    int // placement boxes rewritten
	Details  []string
	Warnings []string
	Written  bool // file rewritten in place
}

// EmbedFile runs the Asset Embedder pass over the document at path,
// rewriting the file in place when the pass mutated it.
func (s *Service) EmbedFile(ctx context.Context, path string) (*Result, error) {
	return s.processFile(ctx, path, true, false)
}

// FixFile runs the Geometry Fixer pass over the document at path, rewriting
// the file in place when the pass mutated it.
func (s *Service) FixFile(ctx context.Context, path string) (*Result, error) {
	return s.processFile(ctx, path, false, true)
}

// PrepFile runs both passes, embed then fix, over the document at path.
// Both passes are idempotent once converged, so order only affects which
// run performs the work.
func (s *Service) PrepFile(ctx context.Context, path string) (*Result, error) {
	return s.processFile(ctx, path, true, true)
}

func (s *Service) processFile(ctx context.Context, path string, embed, fix bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := xmltree.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, filepath.Base(path), err)
	}
	baseDir := filepath.Dir(path)

	result := &Result{Path: path}
	changed := false

	if embed {
		report := s.embedder.Embed(ctx, doc, baseDir)
		result.Embedded = report.Embedded
		result.Inlined = report.Inlined
		result.Details = append(result.Details, report.Details...)
		result.Warnings = append(result.Warnings, report.Warnings...)
		changed = changed || report.Changed()
	}

	if fix {
		report := s.fixer.Fix(ctx, doc, baseDir)
		result.Fixed = report.Fixed
		result.Details = append(result.Details, report.Details...)
		result.Warnings = append(result.Warnings, report.Warnings...)
		changed = changed || report.Changed()
	}

	if changed && !s.cfg.dryRun {
		if err := doc.WriteFile(path); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteDocument, err)
		}
		result.Written = true
	}
	return result, nil
}

// Close releases renderer resources (the headless browser, if one was
// started by RenderPDF).
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}
