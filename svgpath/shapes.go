package svgpath

import "math"

// This file implements the transformation from
// high level shapes to their path equivalent

// maxArcSpan is the largest angle approximated by a single cubic curve.
const maxArcSpan = math.Pi / 2

// ellipsePoint returns the point at angle t on the ellipse
// of center c and radii rx, ry, rotated by phi (with cos, sin = cos(phi), sin(phi)),
// and the derivative at this point.
func ellipsePoint(c Point, rx, ry, cos, sin, t float64) (pt, der Point) {
	ct, st := math.Cos(t), math.Sin(t)
	pt = Point{
		X: c.X + rx*ct*cos - ry*st*sin,
		Y: c.Y + rx*ct*sin + ry*st*cos,
	}
	der = Point{
		X: -rx*st*cos - ry*ct*sin,
		Y: -rx*st*sin + ry*ct*cos,
	}
	return pt, der
}

// arc appends the elliptic arc starting at angle theta and spanning delta
// (negative for clockwise) as a sequence of cubic curves.
// The current point must be the start of the arc; `end` is
// used as exact final point.
func (p *Path) arc(c Point, rx, ry, phi, theta, delta float64, end Point) {
	segments := int(math.Ceil(math.Abs(delta) / maxArcSpan))
	if segments < 1 {
		segments = 1
	}
	step := delta / float64(segments)
	kappa := 4. / 3 * math.Tan(step/4)
	cos, sin := math.Cos(phi), math.Sin(phi)
	from, fromDer := ellipsePoint(c, rx, ry, cos, sin, theta)
	for i := 1; i <= segments; i++ {
		to, toDer := ellipsePoint(c, rx, ry, cos, sin, theta+step*float64(i))
		if i == segments {
			to = end
		}
		p.CubeBezier(
			Point{X: from.X + kappa*fromDer.X, Y: from.Y + kappa*fromDer.Y},
			Point{X: to.X - kappa*toDer.X, Y: to.Y - kappa*toDer.Y},
			to,
		)
		from, fromDer = to, toDer
	}
}

// AddRect adds an axis aligned rectangle, with rounded
// corners of radius rx in the x axis and ry in the y axis when
// both are positive.
func (p *Path) AddRect(minX, minY, maxX, maxY, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.Start(Point{X: minX, Y: minY})
		p.Line(Point{X: maxX, Y: minY})
		p.Line(Point{X: maxX, Y: maxY})
		p.Line(Point{X: minX, Y: maxY})
		p.Stop(true)
		return
	}
	rx = math.Min(rx, (maxX-minX)/2)
	ry = math.Min(ry, (maxY-minY)/2)
	p.Start(Point{X: minX + rx, Y: minY})
	p.Line(Point{X: maxX - rx, Y: minY})
	p.arc(Point{X: maxX - rx, Y: minY + ry}, rx, ry, 0, -math.Pi/2, math.Pi/2, Point{X: maxX, Y: minY + ry})
	p.Line(Point{X: maxX, Y: maxY - ry})
	p.arc(Point{X: maxX - rx, Y: maxY - ry}, rx, ry, 0, 0, math.Pi/2, Point{X: maxX - rx, Y: maxY})
	p.Line(Point{X: minX + rx, Y: maxY})
	p.arc(Point{X: minX + rx, Y: maxY - ry}, rx, ry, 0, math.Pi/2, math.Pi/2, Point{X: minX, Y: maxY - ry})
	p.Line(Point{X: minX, Y: minY + ry})
	p.arc(Point{X: minX + rx, Y: minY + ry}, rx, ry, 0, math.Pi, math.Pi/2, Point{X: minX + rx, Y: minY})
	p.Stop(true)
}

// AddEllipse adds an ellipse centered on (cx, cy).
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	start := Point{X: cx + rx, Y: cy}
	p.Start(start)
	p.arc(Point{X: cx, Y: cy}, rx, ry, 0, 0, 2*math.Pi, start)
	p.Stop(true)
}

// AddLine adds an open segment from (x1, y1) to (x2, y2).
func (p *Path) AddLine(x1, y1, x2, y2 float64) {
	p.Start(Point{X: x1, Y: y1})
	p.Line(Point{X: x2, Y: y2})
}

// AddPolyline adds the open polyline described by the flat
// coordinate list `points` (x0, y0, x1, y1, ...).
// Lists with less than two points are ignored.
func (p *Path) AddPolyline(points []float64) {
	if len(points) < 4 {
		return
	}
	p.Start(Point{X: points[0], Y: points[1]})
	for i := 2; i < len(points)-1; i += 2 {
		p.Line(Point{X: points[i], Y: points[i+1]})
	}
}

// AddPolygon is like AddPolyline, but closes the path.
func (p *Path) AddPolygon(points []float64) {
	if len(points) < 4 {
		return
	}
	p.AddPolyline(points)
	p.Stop(true)
}
