package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	errParamMismatch  = errors.New("param mismatch")
	errCommandUnknown = errors.New("unknown command")
)

// pathCursor reads SVG path data, keeping track
// of the current point and of the last control point
// (needed by the smooth curve commands).
type pathCursor struct {
	path *Path
	data string
	pos  int

	current, start, control Point
	lastCommand             byte // lower case
	inPath                  bool
}

// Compile parses SVG path data (the "d" attribute)
// and appends the resulting operations.
// Arcs are converted to cubic curves.
func (p *Path) Compile(data string) error {
	c := pathCursor{path: p, data: data}
	for {
		c.skipSeparators()
		if c.pos >= len(c.data) {
			return nil
		}
		cmd := c.data[c.pos]
		if !isCommand(cmd) {
			return fmt.Errorf("%w %q at offset %d", errCommandUnknown, cmd, c.pos)
		}
		c.pos++
		if err := c.command(cmd); err != nil {
			return fmt.Errorf("command %c: %w", cmd, err)
		}
	}
}

func isCommand(b byte) bool {
	switch b {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func (c *pathCursor) skipSeparators() {
	for c.pos < len(c.data) {
		switch c.data[c.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			c.pos++
		default:
			return
		}
	}
}

// hasNumber returns true if the next token starts a number.
func (c *pathCursor) hasNumber() bool {
	c.skipSeparators()
	if c.pos >= len(c.data) {
		return false
	}
	b := c.data[c.pos]
	return isDigit(b) || b == '.' || b == '-' || b == '+'
}

func (c *pathCursor) readNumber() (float64, error) {
	c.skipSeparators()
	d, start, i := c.data, c.pos, c.pos
	if i < len(d) && (d[i] == '+' || d[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(d) && isDigit(d[i]); i++ {
		digits++
	}
	if i < len(d) && d[i] == '.' {
		for i++; i < len(d) && isDigit(d[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: expected number at offset %d", errParamMismatch, start)
	}
	if i < len(d) && (d[i] == 'e' || d[i] == 'E') {
		j := i + 1
		if j < len(d) && (d[j] == '+' || d[j] == '-') {
			j++
		}
		if j < len(d) && isDigit(d[j]) {
			for j < len(d) && isDigit(d[j]) {
				j++
			}
			i = j
		}
	}
	c.pos = i
	return strconv.ParseFloat(d[start:i], 64)
}

// readFlag reads an arc flag, which may be written
// without separator ("a1 1 0 01 2 2").
func (c *pathCursor) readFlag() (bool, error) {
	c.skipSeparators()
	if c.pos < len(c.data) {
		switch c.data[c.pos] {
		case '0':
			c.pos++
			return false, nil
		case '1':
			c.pos++
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: expected flag at offset %d", errParamMismatch, c.pos)
}

// readPoint reads a coordinate pair, relative to the current
// point if `rel` is true.
func (c *pathCursor) readPoint(rel bool) (Point, error) {
	x, err := c.readNumber()
	if err != nil {
		return Point{}, err
	}
	y, err := c.readNumber()
	if err != nil {
		return Point{}, err
	}
	if rel {
		x, y = x+c.current.X, y+c.current.Y
	}
	return Point{X: x, Y: y}, nil
}

func (c *pathCursor) readPoints(rel bool, pts []Point) error {
	for i := range pts {
		var err error
		if pts[i], err = c.readPoint(rel); err != nil {
			return err
		}
	}
	return nil
}

// ensureStarted opens a subpath at the current point
// for drawing commands not preceded by a move.
func (c *pathCursor) ensureStarted() {
	if !c.inPath {
		c.path.Start(c.current)
		c.start = c.current
		c.inPath = true
	}
}

func reflect(center, pt Point) Point {
	return Point{X: 2*center.X - pt.X, Y: 2*center.Y - pt.Y}
}

// command reads the arguments of `cmd`, which may be repeated.
func (c *pathCursor) command(cmd byte) error {
	rel := cmd >= 'a'
	kind := cmd | 0x20 // lower case
	if kind == 'z' {
		if c.inPath {
			c.path.Stop(true)
			c.current = c.start
			c.inPath = false
		}
		c.lastCommand = kind
		return nil
	}
	for first := true; first || c.hasNumber(); first = false {
		if err := c.segment(kind, rel); err != nil {
			return err
		}
		c.lastCommand = kind
		if kind == 'm' { // following pairs are implicit lines
			kind = 'l'
		}
	}
	return nil
}

func (c *pathCursor) segment(kind byte, rel bool) error {
	var pts [3]Point
	switch kind {
	case 'm':
		if err := c.readPoints(rel, pts[:1]); err != nil {
			return err
		}
		c.path.Start(pts[0])
		c.start, c.current, c.inPath = pts[0], pts[0], true
	case 'l':
		if err := c.readPoints(rel, pts[:1]); err != nil {
			return err
		}
		c.ensureStarted()
		c.path.Line(pts[0])
		c.current = pts[0]
	case 'h', 'v':
		v, err := c.readNumber()
		if err != nil {
			return err
		}
		pt := c.current
		if kind == 'h' {
			pt.X = v
			if rel {
				pt.X += c.current.X
			}
		} else {
			pt.Y = v
			if rel {
				pt.Y += c.current.Y
			}
		}
		c.ensureStarted()
		c.path.Line(pt)
		c.current = pt
	case 'c':
		if err := c.readPoints(rel, pts[:3]); err != nil {
			return err
		}
		c.cubic(pts[0], pts[1], pts[2])
	case 's':
		if err := c.readPoints(rel, pts[:2]); err != nil {
			return err
		}
		first := c.current
		if c.lastCommand == 'c' || c.lastCommand == 's' {
			first = reflect(c.current, c.control)
		}
		c.cubic(first, pts[0], pts[1])
	case 'q':
		if err := c.readPoints(rel, pts[:2]); err != nil {
			return err
		}
		c.quad(pts[0], pts[1])
	case 't':
		if err := c.readPoints(rel, pts[:1]); err != nil {
			return err
		}
		ctrl := c.current
		if c.lastCommand == 'q' || c.lastCommand == 't' {
			ctrl = reflect(c.current, c.control)
		}
		c.quad(ctrl, pts[0])
	case 'a':
		return c.readArc(rel)
	}
	return nil
}

func (c *pathCursor) cubic(c1, c2, end Point) {
	c.ensureStarted()
	c.path.CubeBezier(c1, c2, end)
	c.control, c.current = c2, end
}

func (c *pathCursor) quad(ctrl, end Point) {
	c.ensureStarted()
	c.path.QuadBezier(ctrl, end)
	c.control, c.current = ctrl, end
}

func (c *pathCursor) readArc(rel bool) error {
	var radii [3]float64
	for i := range radii {
		var err error
		if radii[i], err = c.readNumber(); err != nil {
			return err
		}
	}
	large, err := c.readFlag()
	if err != nil {
		return err
	}
	sweep, err := c.readFlag()
	if err != nil {
		return err
	}
	end, err := c.readPoint(rel)
	if err != nil {
		return err
	}
	c.ensureStarted()
	c.arcTo(math.Abs(radii[0]), math.Abs(radii[1]), radii[2]*math.Pi/180, large, sweep, end)
	c.current = end
	return nil
}

// arcTo converts the endpoint parameterization of an elliptic arc
// to its center parameterization, then appends the arc.
func (c *pathCursor) arcTo(rx, ry, phi float64, large, sweep bool, end Point) {
	from := c.current
	if from == end {
		return
	}
	if rx == 0 || ry == 0 {
		c.path.Line(end)
		return
	}
	cos, sin := math.Cos(phi), math.Sin(phi)
	dx, dy := (from.X-end.X)/2, (from.Y-end.Y)/2
	x1, y1 := cos*dx+sin*dy, -sin*dx+cos*dy

	// scale up radii too small to join the end points
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	var coef float64
	if num > 0 && den > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cx1, cy1 := coef*rx*y1/ry, -coef*ry*x1/rx
	center := Point{
		X: cos*cx1 - sin*cy1 + (from.X+end.X)/2,
		Y: sin*cx1 + cos*cy1 + (from.Y+end.Y)/2,
	}
	theta := math.Atan2((y1-cy1)/ry, (x1-cx1)/rx)
	delta := math.Atan2((-y1-cy1)/ry, (-x1-cx1)/rx) - theta
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}
	c.path.arc(center, rx, ry, phi, theta, delta, end)
}
