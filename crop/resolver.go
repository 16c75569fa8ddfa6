// Package crop resolves crop-rectangle edits from the editing widget into
// complete, bounds-satisfying rectangles, honoring an optional locked
// aspect ratio. The resolver is stateless: every call is a pure function
// of the current rectangle and the requested edit.
package crop

import "github.com/ShivangiShukla-1213/ReelEditor/media"

// Field identifies which rectangle component an edit targets.
type Field int

const (
	FieldX Field = iota
	FieldY
	FieldWidth
	FieldHeight
)

// Editor-enforced working range, in percent of the source dimensions.
const (
	MinOffset = 0.0
	MaxOffset = 50.0
	MinSize   = 20.0
	MaxSize   = 100.0
)

// Resolve applies one field edit to the current rectangle. Out-of-range
// values are clamped silently. When ratio is non-nil and a dimension is
// edited, the other dimension is derived to hold width/height == *ratio;
// if the derived value lands outside [MinSize, MaxSize] it is clamped and
// the edited dimension recomputed from the clamped value so the ratio is
// preserved exactly.
func Resolve(current media.CropRect, field Field, value float64, ratio *float64) media.CropRect {
	out := current
	switch field {
	case FieldX:
		out.X = clamp(value, MinOffset, MaxOffset)
	case FieldY:
		out.Y = clamp(value, MinOffset, MaxOffset)
	case FieldWidth:
		out.Width = clamp(value, MinSize, MaxSize)
		if ratio != nil && *ratio > 0 {
			out.Width, out.Height = derivePair(out.Width, *ratio)
		}
	case FieldHeight:
		out.Height = clamp(value, MinSize, MaxSize)
		if ratio != nil && *ratio > 0 {
			out.Height, out.Width = derivePairInverse(out.Height, *ratio)
		}
	}
	return out
}

// ApplyRatio normalizes a freeform rectangle at the moment a ratio lock is
// selected: height is recomputed from the current width; if that would
// overflow the working range the derivation is inverted so the result
// always stays in bounds.
func ApplyRatio(current media.CropRect, ratio float64) media.CropRect {
	out := current
	if ratio <= 0 {
		return out
	}
	h := out.Width / ratio
	if h > MaxSize || h < MinSize {
		h = clamp(h, MinSize, MaxSize)
		out.Width = clamp(h*ratio, MinSize, MaxSize)
	}
	out.Height = h
	return out
}

// derivePair returns (width, height) for an edited width under ratio r.
func derivePair(width, r float64) (float64, float64) {
	h := width / r
	if h < MinSize || h > MaxSize {
		h = clamp(h, MinSize, MaxSize)
		width = h * r
	}
	return width, h
}

// derivePairInverse returns (height, width) for an edited height under ratio r.
func derivePairInverse(height, r float64) (float64, float64) {
	w := height * r
	if w < MinSize || w > MaxSize {
		w = clamp(w, MinSize, MaxSize)
		height = w / r
	}
	return height, w
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
