package svgprep

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	// Decoders registered for the general-purpose probing strategy.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/alnah/go-svgprep/internal/fileutil"
	"github.com/alnah/go-svgprep/internal/xmltree"
)

// Dimensions holds an asset's intrinsic width and height in user units.
type Dimensions struct {
	Width  float64
	Height float64
}

// dimensionStrategy attempts to extract intrinsic dimensions from raw image
// bytes. Strategies are tried in order; the first hit wins.
type dimensionStrategy interface {
	probeBytes(data []byte) (Dimensions, bool)
}

// Compile-time interface implementation checks.
var (
	_ dimensionStrategy = stdImageStrategy{}
	_ dimensionStrategy = pngHeaderStrategy{}
	_ dimensionStrategy = jpegMarkerStrategy{}
)

// Prober resolves the intrinsic dimensions of placement references: file
// paths (relative to a base directory) or data URIs. A failed probe reports
// absence; it never guesses and never aborts the caller.
//
// The zero value is ready to use.
type Prober struct {
	strategies []dimensionStrategy
}

const dataURIPrefix = "data:"

// Probe returns the intrinsic dimensions of the referenced asset, or
// ok=false when they cannot be determined.
func (p *Prober) Probe(ref, baseDir string) (Dimensions, bool) {
	if strings.HasPrefix(ref, dataURIPrefix) {
		return p.probeDataURI(ref)
	}
	return p.probeFile(ref, baseDir)
}

func (p *Prober) probeDataURI(ref string) (Dimensions, bool) {
	mediaType, payload, ok := parseDataURI(ref)
	if !ok {
		return Dimensions{}, false
	}
	if strings.Contains(mediaType, "image/svg+xml") {
		return scanViewBox(string(payload))
	}
	return p.probeBytes(payload)
}

func (p *Prober) probeFile(ref, baseDir string) (Dimensions, bool) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	if !fileutil.FileExists(path) {
		return Dimensions{}, false
	}

	// A vector target has its own notion of intrinsic size; delegate to the
	// document metadata accessor instead of sniffing bytes.
	if fileutil.IsSVG(path) {
		doc, err := xmltree.ParseFile(path)
		if err != nil {
			return Dimensions{}, false
		}
		w, h, ok := doc.IntrinsicSize()
		if !ok {
			return Dimensions{}, false
		}
		return Dimensions{Width: w, Height: h}, true
	}

	data, err := os.ReadFile(path) // #nosec G304 -- reference resolved from the document being processed
	if err != nil {
		return Dimensions{}, false
	}
	return p.probeBytes(data)
}

// probeBytes runs the strategy chain over raw raster bytes.
func (p *Prober) probeBytes(data []byte) (Dimensions, bool) {
	strategies := p.strategies
	if strategies == nil {
		strategies = defaultStrategies
	}
	for _, s := range strategies {
		if d, ok := s.probeBytes(data); ok {
			return d, true
		}
	}
	return Dimensions{}, false
}

// defaultStrategies prefers the registered image decoders and falls back to
// byte-exact signature decoding for PNG and JPEG streams the general
// decoders reject.
var defaultStrategies = []dimensionStrategy{
	stdImageStrategy{},
	pngHeaderStrategy{},
	jpegMarkerStrategy{},
}

// parseDataURI splits a data:<media-type>;base64,<payload> reference.
// References without a base64 marker report failure.
func parseDataURI(ref string) (mediaType string, payload []byte, ok bool) {
	rest := strings.TrimPrefix(ref, dataURIPrefix)
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", nil, false
	}
	meta := rest[:comma]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(rest[comma+1:])
	if err != nil {
		return "", nil, false
	}
	return strings.TrimSuffix(meta, ";base64"), data, true
}

// viewBoxScanWindow bounds how far into an inlined SVG payload the viewBox
// scan looks. The declaration sits on the root element in practice.
const viewBoxScanWindow = 2048

var viewBoxPattern = regexp.MustCompile(
	`viewBox\s*=\s*["']\s*-?[0-9.]+[\s,]+-?[0-9.]+[\s,]+([0-9.]+)[\s,]+([0-9.]+)\s*["']`)

// scanViewBox extracts width and height from a viewBox declaration near the
// top of an SVG text payload.
func scanViewBox(content string) (Dimensions, bool) {
	if len(content) > viewBoxScanWindow {
		content = content[:viewBoxScanWindow]
	}
	m := viewBoxPattern.FindStringSubmatch(content)
	if m == nil {
		return Dimensions{}, false
	}
	w, errW := strconv.ParseFloat(m[1], 64)
	h, errH := strconv.ParseFloat(m[2], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Dimensions{}, false
	}
	return Dimensions{Width: w, Height: h}, true
}

// stdImageStrategy decodes dimensions with the registered image formats
// (PNG, JPEG, GIF, WebP). Header-only decoding; pixels are never touched.
type stdImageStrategy struct{}

func (stdImageStrategy) probeBytes(data []byte) (Dimensions, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, false
	}
	return Dimensions{Width: float64(cfg.Width), Height: float64(cfg.Height)}, true
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// pngHeaderStrategy reads dimensions straight from the IHDR chunk, whose
// layout is fixed: chunk length at offset 8, type at 12, width at 16,
// height at 20, both big-endian 32-bit.
type pngHeaderStrategy struct{}

func (pngHeaderStrategy) probeBytes(data []byte) (Dimensions, bool) {
	if len(data) < 24 || !bytes.HasPrefix(data, pngMagic) {
		return Dimensions{}, false
	}
	w := binary.BigEndian.Uint32(data[16:20])
	h := binary.BigEndian.Uint32(data[20:24])
	if w == 0 || h == 0 {
		return Dimensions{}, false
	}
	return Dimensions{Width: float64(w), Height: float64(h)}, true
}

// JPEG marker bytes relevant to the segment scan.
const (
	jpegMarkerSOF0 = 0xC0 // baseline start-of-frame
	jpegMarkerSOF2 = 0xC2 // progressive start-of-frame
	jpegMarkerSOI  = 0xD8 // start of image
	jpegMarkerEOI  = 0xD9 // end of image
	jpegMarkerRST0 = 0xD0 // restart markers D0-D7 carry no length field
	jpegMarkerRST7 = 0xD7
)

// jpegMarkerStrategy walks the segment chain to the first SOF0/SOF2 frame
// header: 2-byte length, 1-byte precision, then big-endian height and width.
// Any truncated or malformed stream reports absence, never an error.
type jpegMarkerStrategy struct{}

func (jpegMarkerStrategy) probeBytes(data []byte) (Dimensions, bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != jpegMarkerSOI {
		return Dimensions{}, false
	}

	i := 2
	for i+1 < len(data) {
		if data[i] != 0xFF {
			return Dimensions{}, false
		}
		marker := data[i+1]

		switch {
		case marker == jpegMarkerSOF0 || marker == jpegMarkerSOF2:
			// Need length(2) + precision(1) + height(2) + width(2) past the marker.
			if i+9 > len(data) {
				return Dimensions{}, false
			}
			h := binary.BigEndian.Uint16(data[i+5 : i+7])
			w := binary.BigEndian.Uint16(data[i+7 : i+9])
			if w == 0 || h == 0 {
				return Dimensions{}, false
			}
			return Dimensions{Width: float64(w), Height: float64(h)}, true

		case marker == jpegMarkerEOI:
			return Dimensions{}, false

		case marker == jpegMarkerSOI,
			marker >= jpegMarkerRST0 && marker <= jpegMarkerRST7:
			i += 2

		default:
			if i+4 > len(data) {
				return Dimensions{}, false
			}
			length := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
			if length < 2 {
				return Dimensions{}, false
			}
			i += 2 + length
		}
	}
	return Dimensions{}, false
}
