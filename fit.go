package svgprep

// FitMode selects how an asset is scaled into its box when the aspect
// ratios differ.
type FitMode int

const (
	// FitMeet scales the asset to the largest rectangle of its intrinsic
	// ratio that fits entirely inside the box, possibly leaving padding.
	FitMeet FitMode = iota

	// FitSlice scales the asset to the smallest rectangle of its intrinsic
	// ratio that covers the box entirely, overflowing on one axis.
	FitSlice
)

// String returns the SVG keyword for the mode.
func (m FitMode) String() string {
	if m == FitSlice {
		return "slice"
	}
	return "meet"
}

// FittedBox is the rectangle an asset occupies inside its placement box
// after aspect-preserving scaling. Offsets center the rectangle within the
// box; under FitSlice they can be negative, signifying overflow beyond the
// box edges, and are never clamped.
type FittedBox struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

// Fit computes the fitted rectangle for an asset with the given intrinsic
// dimensions placed into a box of the given size. All inputs must be
// positive; the traversal passes guard degenerate geometry before calling.
func Fit(intrinsicW, intrinsicH, boxW, boxH float64, mode FitMode) FittedBox {
	intrinsicRatio := intrinsicW / intrinsicH
	boxRatio := boxW / boxH

	// Under meet, a wider-than-box asset is width-clamped; under slice the
	// branch selection inverts.
	clampWidth := intrinsicRatio > boxRatio
	if mode == FitSlice {
		clampWidth = !clampWidth
	}

	var w, h float64
	if clampWidth {
		w = boxW
		h = boxW / intrinsicRatio
	} else {
		h = boxH
		w = boxH * intrinsicRatio
	}

	return FittedBox{
		Width:   w,
		Height:  h,
		OffsetX: (boxW - w) / 2,
		OffsetY: (boxH - h) / 2,
	}
}
