package svgprep

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alnah/go-svgprep/internal/xmltree"
)

// DefaultTolerance is the convergence guard for the Fixer: boxes within
// half a user unit of their fitted size on both axes are left alone, which
// makes repeated runs idempotent.
const DefaultTolerance = 0.5

// Fixer rewrites placement boxes whose aspect ratio disagrees with the
// referenced asset's intrinsic ratio. The box is replaced by the fitted
// rectangle and the now-redundant preserveAspectRatio attribute is dropped,
// so downstream consumers that ignore the attribute still render correct
// geometry.
//
// The zero value is ready to use.
type Fixer struct {
	// DryRun counts and reports intended fixes without mutating the document.
	DryRun bool

	// Tolerance overrides DefaultTolerance when positive.
	Tolerance float64

	prober Prober
}

// FixReport summarizes one Fixer pass over a document.
type FixReport struct {
	Fixed    int      // boxes rewritten (or counted, in dry-run)
	Details  []string // one line per fixed box
	Warnings []string // per-node failures; the pass continued past each

	changed bool
}

// Changed reports whether the pass mutated the document.
func (r *FixReport) Changed() bool { return r.changed }

func (r *FixReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Fix probes every placement node's asset and rewrites boxes that do not
// match the asset's intrinsic ratio. Nodes whose dimensions cannot be
// determined, whose geometry is unparseable, or whose fit mode is none are
// skipped; a single node never aborts the traversal.
func (f *Fixer) Fix(ctx context.Context, doc *xmltree.Document, baseDir string) *FixReport {
	report := &FixReport{}

	var targets []*xmltree.Element
	doc.Walk(func(el, parent *xmltree.Element) {
		if el.Name.Local == "image" {
			targets = append(targets, el)
		}
	})

	for _, el := range targets {
		if ctx.Err() != nil {
			break
		}
		f.fixOne(el, baseDir, report)
	}
	return report
}

func (f *Fixer) fixOne(el *xmltree.Element, baseDir string, report *FixReport) {
	href, _, ok := hrefAttr(el)
	if !ok || href == "" {
		return
	}

	x := geomAttr(el, "x")
	y := geomAttr(el, "y")
	w := geomAttr(el, "width")
	h := geomAttr(el, "height")
	if w <= 0 || h <= 0 {
		return
	}

	par := el.AttrValue("", "preserveAspectRatio")
	if par == "" {
		par = "xMidYMid meet" // SVG default
	}
	if strings.Contains(par, "none") {
		return
	}
	mode := FitMeet
	if strings.Contains(par, "slice") {
		mode = FitSlice
	}

	dims, ok := f.prober.Probe(href, baseDir)
	if !ok {
		return
	}

	fitted := Fit(dims.Width, dims.Height, w, h, mode)

	tolerance := f.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if math.Abs(fitted.Width-w) < tolerance && math.Abs(fitted.Height-h) < tolerance {
		return
	}

	report.Fixed++
	report.Details = append(report.Details, fmt.Sprintf("%gx%g -> %sx%s",
		w, h, formatFixed(fitted.Width), formatFixed(fitted.Height)))
	if f.DryRun {
		return
	}

	el.SetAttr("", "x", formatFixed(x+fitted.OffsetX))
	el.SetAttr("", "y", formatFixed(y+fitted.OffsetY))
	el.SetAttr("", "width", formatFixed(fitted.Width))
	el.SetAttr("", "height", formatFixed(fitted.Height))
	el.RemoveAttr("", "preserveAspectRatio")
	report.changed = true
}

// formatFixed renders a coordinate rounded to one decimal place.
func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
