package svgicon

import (
	"image/color"
)

// Pattern is the paint of a fill or a stroke:
// either a PlainColor or a *Gradient.
type Pattern interface {
	isPattern()
}

// PlainColor is an uniform paint.
type PlainColor struct {
	color.NRGBA
}

func (PlainColor) isPattern() {}

// NewPlainColor returns a PlainColor from its components.
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{color.NRGBA{R: r, G: g, B: b, A: a}}
}

// GradientUnits is the type for gradient units
type GradientUnits byte

// SVG bounds paremater constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop represents a stop in the SVG 2.0 gradient specification
type GradStop struct {
	StopColor color.Color
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of an SVG 2.0 gradient.
// Gradients are parsed so that documents using them can be
// reported precisely; they are not rendered.
type Gradient struct {
	ID        string
	Direction gradientDirecter
	Stops     []GradStop
	Spread    SpreadMethod
	Units     GradientUnits
}

func (*Gradient) isPattern() {}

// radial or linear
type gradientDirecter interface {
	isRadial() bool
}

// x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// IsRadial returns true for radial gradients.
func (g *Gradient) IsRadial() bool {
	return g.Direction != nil && g.Direction.isRadial()
}
