package svgprep

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeRenderer records render calls and serves canned responses, so RenderPDF
// can be exercised without a browser.
type fakeRenderer struct {
	mu     sync.Mutex
	calls  []renderCall
	data   []byte
	err    error
	closed bool
}

type renderCall struct {
	path     string
	widthPt  float64
	heightPt float64
}

func (f *fakeRenderer) RenderPage(ctx context.Context, filePath string, widthPt, heightPt float64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, renderCall{filePath, widthPt, heightPt})
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

var _ pageRenderer = (*fakeRenderer)(nil)

func newRenderService(fake *fakeRenderer, opts ...Option) *Service {
	svc := NewService(opts...)
	svc.renderer = fake
	return svc
}

func TestRenderPDFNoInput(t *testing.T) {
	t.Parallel()

	svc := newRenderService(&fakeRenderer{})
	if _, err := svc.RenderPDF(context.Background(), nil, "out.pdf"); !errors.Is(err, ErrNoInput) {
		t.Errorf("err = %v, want ErrNoInput", err)
	}
}

func TestRenderPDFPageSizeFromFirstDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeDoc(t, dir, "a.svg",
		`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600"/>`)
	second := writeDoc(t, dir, "b.svg",
		`<svg xmlns="http://www.w3.org/2000/svg" width="320" height="240"/>`)

	fake := &fakeRenderer{err: errors.New("render refused")}
	svc := newRenderService(fake)

	_, err := svc.RenderPDF(context.Background(), []string{first, second}, filepath.Join(dir, "out.pdf"))
	if !errors.Is(err, ErrPDFGeneration) {
		t.Fatalf("err = %v, want ErrPDFGeneration when every page fails", err)
	}

	if len(fake.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(fake.calls))
	}
	for _, c := range fake.calls {
		if c.widthPt != 800 || c.heightPt != 600 {
			t.Errorf("rendered at %gx%g, want the first document's 800x600", c.widthPt, c.heightPt)
		}
		if !filepath.IsAbs(c.path) {
			t.Errorf("render path %q not absolute", c.path)
		}
	}
}

func TestRenderPDFMergeFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "a.svg",
		`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600"/>`)

	fake := &fakeRenderer{data: []byte("%PDF-fake")}
	svc := newRenderService(fake)

	_, err := svc.RenderPDF(context.Background(), []string{path}, filepath.Join(dir, "out.pdf"))
	if !errors.Is(err, ErrPDFMerge) {
		t.Fatalf("err = %v, want ErrPDFMerge for unparseable page bytes", err)
	}
}

func TestRenderPDFFallbackSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "bare.svg", `<svg xmlns="http://www.w3.org/2000/svg"/>`)

	tests := []struct {
		name  string
		opts  []Option
		wantW float64
		wantH float64
	}{
		{name: "built-in default", wantW: 1280, wantH: 720},
		{name: "configured page size", opts: []Option{WithPageSize(612, 792)}, wantW: 612, wantH: 792},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRenderer{err: errors.New("render refused")}
			svc := newRenderService(fake, tt.opts...)

			_, err := svc.RenderPDF(context.Background(), []string{path}, filepath.Join(dir, "out.pdf"))
			if !errors.Is(err, ErrPDFGeneration) {
				t.Fatalf("err = %v", err)
			}
			if len(fake.calls) != 1 {
				t.Fatalf("calls = %d, want 1", len(fake.calls))
			}
			if c := fake.calls[0]; c.widthPt != tt.wantW || c.heightPt != tt.wantH {
				t.Errorf("rendered at %gx%g, want %gx%g", c.widthPt, c.heightPt, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderPDFAllPagesFailed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "a.svg",
		`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"/>`)

	fake := &fakeRenderer{err: errors.New("browser gone")}
	svc := newRenderService(fake)

	_, err := svc.RenderPDF(context.Background(), []string{path}, filepath.Join(dir, "out.pdf"))
	if !errors.Is(err, ErrPDFGeneration) {
		t.Fatalf("err = %v, want ErrPDFGeneration", err)
	}
	if !strings.Contains(err.Error(), "no pages rendered") {
		t.Errorf("err = %v, want page failure summary", err)
	}
}

func TestRenderPDFCanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "a.svg",
		`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"/>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newRenderService(&fakeRenderer{})
	if _, err := svc.RenderPDF(ctx, []string{path}, filepath.Join(dir, "out.pdf")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestServiceCloseReleasesRenderer(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{}
	svc := newRenderService(fake)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fake.closed {
		t.Error("renderer not closed")
	}
}

func TestProbeDocumentSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sized := writeDoc(t, dir, "sized.svg",
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 640 360"/>`)
	if w, h, ok := probeDocumentSize(sized); !ok || w != 640 || h != 360 {
		t.Errorf("probeDocumentSize = %g, %g, %v", w, h, ok)
	}

	bare := writeDoc(t, dir, "bare.svg", `<svg xmlns="http://www.w3.org/2000/svg"/>`)
	if _, _, ok := probeDocumentSize(bare); ok {
		t.Error("ok = true for a dimensionless document")
	}

	if _, _, ok := probeDocumentSize(filepath.Join(dir, "gone.svg")); ok {
		t.Error("ok = true for a missing file")
	}
}
