// Implements an abstract representation of
// svg paths, which can then be reduced to the
// point sets consumed by the scene flattener.
// Coordinates are stored as float64, in user units.
package svgpath

import (
	"fmt"
	"strings"
)

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

// Point is a path point in user units.
type Point struct{ X, Y float64 }

// Operation groups the different SVG commands
type Operation interface {
	command() pathCommand
}

type MoveTo Point

type LineTo Point

type QuadTo [2]Point

type CubicTo [3]Point

type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (QuadTo) command() pathCommand  { return pathQuadTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

// Path describes a sequence of basic SVG operations.
// Higher-level shapes may be reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%g,%g", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%g,%g", op.X, op.Y)
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%g,%g,%g,%g", op[0].X, op[0].Y, op[1].X, op[1].Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%g,%g,%g,%g,%g,%g", op[0].X, op[0].Y, op[1].X, op[1].Y, op[2].X, op[2].Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Start starts a new curve at the given point.
func (p *Path) Start(a Point) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b Point) {
	*p = append(*p, LineTo(b))
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c Point) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d Point) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// Copy returns a deep copy of the path.
func (p Path) Copy() Path {
	if p == nil {
		return nil
	}
	return append(Path{}, p...)
}

// Points returns every point of the path, in order, including
// the control points of curves. Closing a subpath adds no point.
// Curves are not subdivided: since a bezier curve lies inside the convex
// hull of its control points, the returned set still bounds the shape.
func (p Path) Points() []Point {
	out := make([]Point, 0, len(p))
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			out = append(out, Point(op))
		case LineTo:
			out = append(out, Point(op))
		case QuadTo:
			out = append(out, op[0], op[1])
		case CubicTo:
			out = append(out, op[0], op[1], op[2])
		}
	}
	return out
}
