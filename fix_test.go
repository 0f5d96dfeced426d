package svgprep

import (
	"context"
	"strings"
	"testing"
)

func TestFixRewritesBox(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "wide.png", makePNG(200, 100))

	doc := parseDoc(t, svgOpen+
		`<image xlink:href="wide.png" x="0" y="0" width="100" height="100" preserveAspectRatio="xMidYMid meet"/></svg>`)

	var f Fixer
	report := f.Fix(context.Background(), doc, dir)

	if report.Fixed != 1 || !report.Changed() {
		t.Fatalf("report = %+v, want 1 fixed", report)
	}
	if len(report.Details) != 1 || report.Details[0] != "100x100 -> 100.0x50.0" {
		t.Errorf("Details = %v", report.Details)
	}

	img := findImage(doc)
	got := [4]string{
		img.AttrValue("", "x"),
		img.AttrValue("", "y"),
		img.AttrValue("", "width"),
		img.AttrValue("", "height"),
	}
	want := [4]string{"0.0", "25.0", "100.0", "50.0"}
	if got != want {
		t.Errorf("geometry = %v, want %v", got, want)
	}
	if _, ok := img.Attr("", "preserveAspectRatio"); ok {
		t.Error("preserveAspectRatio survived the rewrite")
	}
}

func TestFixSliceOverflowsBox(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "wide.png", makePNG(200, 100))

	doc := parseDoc(t, svgOpen+
		`<image xlink:href="wide.png" x="10" y="10" width="100" height="100" preserveAspectRatio="xMidYMid slice"/></svg>`)

	var f Fixer
	if report := f.Fix(context.Background(), doc, dir); report.Fixed != 1 {
		t.Fatalf("report = %+v, want 1 fixed", report)
	}

	img := findImage(doc)
	// 200x100 sliced into a 100x100 box: 200x100 scaled to height, width
	// overflows and the x origin shifts left of the box.
	if got := img.AttrValue("", "width"); got != "200.0" {
		t.Errorf("width = %q, want 200.0", got)
	}
	if got := img.AttrValue("", "x"); got != "-40.0" {
		t.Errorf("x = %q, want -40.0", got)
	}
	if got := img.AttrValue("", "y"); got != "10.0" {
		t.Errorf("y = %q, want 10.0", got)
	}
}

func TestFixSkips(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "wide.png", makePNG(200, 100))
	writeAsset(t, dir, "junk.png", []byte("not an image"))

	tests := []struct {
		name string
		node string
	}{
		{
			name: "preserveAspectRatio none",
			node: `<image xlink:href="wide.png" width="100" height="100" preserveAspectRatio="none"/>`,
		},
		{
			name: "matching ratio within tolerance",
			node: `<image xlink:href="wide.png" width="200" height="100"/>`,
		},
		{
			name: "zero height",
			node: `<image xlink:href="wide.png" width="100" height="0"/>`,
		},
		{
			name: "missing href",
			node: `<image width="100" height="100"/>`,
		},
		{
			name: "unprobeable asset",
			node: `<image xlink:href="junk.png" width="100" height="50"/>`,
		},
		{
			name: "missing asset",
			node: `<image xlink:href="gone.png" width="100" height="50"/>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseDoc(t, svgOpen+tt.node+`</svg>`)

			var f Fixer
			report := f.Fix(context.Background(), doc, dir)
			if report.Fixed != 0 || report.Changed() {
				t.Errorf("report = %+v, want untouched", report)
			}
		})
	}
}

func TestFixIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "wide.png", makePNG(200, 100))

	doc := parseDoc(t, svgOpen+
		`<image xlink:href="wide.png" x="0" y="0" width="100" height="100"/></svg>`)

	var f Fixer
	if report := f.Fix(context.Background(), doc, dir); report.Fixed != 1 {
		t.Fatalf("first pass = %+v", report)
	}
	if report := f.Fix(context.Background(), doc, dir); report.Fixed != 0 {
		t.Errorf("second pass = %+v, want converged", report)
	}
}

func TestFixTolerance(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "wide.png", makePNG(200, 100))

	// Fitted height is 50; a 100x50.3 box is inside the default guard but
	// outside a tightened one.
	doc := parseDoc(t, svgOpen+
		`<image xlink:href="wide.png" width="100" height="50.3"/></svg>`)

	var loose Fixer
	if report := loose.Fix(context.Background(), doc, dir); report.Fixed != 0 {
		t.Errorf("default tolerance fixed %d, want 0", report.Fixed)
	}

	strict := Fixer{Tolerance: 0.1}
	if report := strict.Fix(context.Background(), doc, dir); report.Fixed != 1 {
		t.Errorf("tight tolerance fixed %d, want 1", report.Fixed)
	}
}

func TestFixDryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "wide.png", makePNG(200, 100))

	doc := parseDoc(t, svgOpen+
		`<image xlink:href="wide.png" width="100" height="100"/></svg>`)

	f := Fixer{DryRun: true}
	report := f.Fix(context.Background(), doc, dir)

	if report.Fixed != 1 {
		t.Errorf("Fixed = %d, want counted work", report.Fixed)
	}
	if report.Changed() {
		t.Error("dry run mutated the document")
	}
	if got := findImage(doc).AttrValue("", "width"); got != "100" {
		t.Errorf("width = %q, want untouched", got)
	}
}

func TestFixSVGAsset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "logo.svg",
		[]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 100"/>`))

	doc := parseDoc(t, svgOpen+
		`<image xlink:href="logo.svg" x="0" y="0" width="200" height="200"/></svg>`)

	var f Fixer
	if report := f.Fix(context.Background(), doc, dir); report.Fixed != 1 {
		t.Fatalf("report = %+v, want 1 fixed", report)
	}

	img := findImage(doc)
	if got := img.AttrValue("", "height"); got != "50.0" {
		t.Errorf("height = %q, want 50.0", got)
	}
	if got := img.AttrValue("", "y"); got != "75.0" {
		t.Errorf("y = %q, want 75.0", got)
	}
}

func TestFixContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "wide.png", makePNG(200, 100))

	doc := parseDoc(t, svgOpen+
		`<image xlink:href="wide.png" width="100" height="100"/></svg>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var f Fixer
	report := f.Fix(ctx, doc, dir)
	if report.Fixed != 0 || report.Changed() {
		t.Errorf("report = %+v, want no work under canceled context", report)
	}
}

func TestFormatFixed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{25, "25.0"},
		{-40.04, "-40.0"},
		{33.35, "33.4"},
	}

	for _, tt := range tests {
		if got := formatFixed(tt.in); got != tt.want {
			t.Errorf("formatFixed(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFixReportWarningsSurvivePass(t *testing.T) {
	t.Parallel()

	var r FixReport
	r.warnf("bad node %d", 3)
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "bad node 3") {
		t.Errorf("Warnings = %v", r.Warnings)
	}
}
