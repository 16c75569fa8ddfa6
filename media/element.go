// Package media defines the core timeline data model shared by the
// selector, the crop resolver, and the playback engine: placed elements,
// their content payloads, crop rectangles, and the authoritative clock state.
package media

// ElementType identifies the kind of content an element places on the timeline.
type ElementType string

const (
	TypeVideo ElementType = "video"
	TypeAudio ElementType = "audio"
	TypeImage ElementType = "image"
	TypeText  ElementType = "text"
)

// Element is a single clip placed on the shared timeline. Start and End are
// in seconds, in the same unit as the clock's current time; an element is
// eligible for rendering/playback while the clock sits inside [Start, End].
// The positional fields position overlay elements (image, text) on the
// rendering surface and are ignored for video and audio.
type Element struct {
	ID       string      `yaml:"id" json:"id"`
	Type     ElementType `yaml:"type" json:"type"`
	Start    float64     `yaml:"start" json:"start"`
	End      float64     `yaml:"end" json:"end"`
	X        float64     `yaml:"x,omitempty" json:"x,omitempty"`
	Y        float64     `yaml:"y,omitempty" json:"y,omitempty"`
	Width    float64     `yaml:"width,omitempty" json:"width,omitempty"`
	Height   float64     `yaml:"height,omitempty" json:"height,omitempty"`
	Rotation float64     `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Content  Content     `yaml:"content" json:"content"`
}

// ActiveAt reports whether t falls inside the element's active window.
// Both endpoints are inclusive.
func (e *Element) ActiveAt(t float64) bool {
	return t >= e.Start && t <= e.End
}

// Content is the type-specific payload of an element. Src is an opaque URL
// resolved by an external asset layer. Crop applies to video and image
// elements only. Volume is a per-clip gain in [0,1]; nil means the clip
// follows the engine's master volume alone.
type Content struct {
	Src      string    `yaml:"src,omitempty" json:"src,omitempty"`
	Crop     *CropRect `yaml:"crop,omitempty" json:"crop,omitempty"`
	Volume   *float64  `yaml:"volume,omitempty" json:"volume,omitempty"`
	Muted    bool      `yaml:"muted,omitempty" json:"muted,omitempty"`
	Text     string    `yaml:"text,omitempty" json:"text,omitempty"`
	FontSize float64   `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`
	Color    string    `yaml:"color,omitempty" json:"color,omitempty"`
}

// CropRect selects a sub-region of a visual source for display, in percent
// of the source dimensions. A stored rectangle must satisfy 0 <= x,y and
// x+width <= 100, y+height <= 100 (tolerant of rounding); anything read
// from an external document goes through Clamped before use.
type CropRect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// cropEpsilon tolerates rounding in serialized documents: a rectangle
// overflowing 100% by less than this is accepted as-is.
const cropEpsilon = 0.01

// Clamped returns the rectangle pulled back into the valid percent space.
// Offsets are forced non-negative, dimensions into (0,100], and a rectangle
// overflowing the source beyond rounding tolerance is shrunk in place so
// its origin is preserved. Violations are never propagated downstream.
func (c CropRect) Clamped() CropRect {
	c.X = clamp(c.X, 0, 100)
	c.Y = clamp(c.Y, 0, 100)
	c.Width = clamp(c.Width, 0, 100)
	c.Height = clamp(c.Height, 0, 100)
	if c.X+c.Width > 100+cropEpsilon {
		c.Width = 100 - c.X
	}
	if c.Y+c.Height > 100+cropEpsilon {
		c.Height = 100 - c.Y
	}
	return c
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

// FitMode describes how the active video frame is fitted into the viewport.
type FitMode string

const (
	// FitContain shows the full source, letterboxed on aspect mismatch.
	FitContain FitMode = "contain"
	// FitCover fills the viewport with the crop sub-region of the source.
	FitCover FitMode = "cover"
)

// FrameGeometry is the resolved display geometry for the active video frame.
// For FitCover, PosX/PosY are the crop origin and SizeW/SizeH the crop
// extent, all as fractions of the source dimensions; for FitContain they
// cover the whole source.
type FrameGeometry struct {
	Mode  FitMode
	PosX  float64
	PosY  float64
	SizeW float64
	SizeH float64
}

// ContainGeometry is the geometry of an uncropped frame.
func ContainGeometry() FrameGeometry {
	return FrameGeometry{Mode: FitContain, SizeW: 1, SizeH: 1}
}

// CoverGeometry maps a crop rectangle to fractional display geometry.
func CoverGeometry(c CropRect) FrameGeometry {
	c = c.Clamped()
	return FrameGeometry{
		Mode:  FitCover,
		PosX:  c.X / 100,
		PosY:  c.Y / 100,
		SizeW: c.Width / 100,
		SizeH: c.Height / 100,
	}
}

// ClockState is a point-in-time snapshot of the authoritative timeline
// clock. The engine only ever reads it; mutations go through the clock's
// explicit entry points.
type ClockState struct {
	CurrentTime float64
	Duration    float64
	Playing     bool
}
