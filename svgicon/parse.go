package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/psvg/internal/logger"
	"github.com/benoitkugler/psvg/svgpath"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var (
	errParamMismatch = errors.New("param mismatch")
	errZeroLengthID  = errors.New("zero length id")
)

type (
	// PathStyle holds the state of the SVG style
	PathStyle struct {
		FillOpacity, LineOpacity float64
		LineWidth                float64
		FillerColor, LinerColor  Pattern // nil, PlainColor or *Gradient

		// not inherited
		opacity   float64
		transform rasterx.Matrix2D
		explicit  styleMask // properties specified on the element itself
	}

	// iconCursor is used while parsing SVG files
	iconCursor struct {
		icon       *SvgIcon
		styleStack []PathStyle

		// nodeStack has one entry per open element: the node
		// receiving the children of that element
		nodeStack []*Node
		parent    *Node  // parent of the element being read
		elementID string // id of the element being read

		path   svgpath.Path // geometry of the element being read
		points []float64

		grad                            *Gradient
		inTitleText, inDescText, inGrad bool
		skipContent                     bool // set by elements whose content is not parsed
		skipDepth                       int

		errorMode ErrorMode
	}
)

// DefaultStyle sets the default PathStyle to fill black,
// full opacity and no stroke.
var DefaultStyle = PathStyle{
	FillOpacity: 1.0,
	LineOpacity: 1.0,
	LineWidth:   1.0,
	FillerColor: NewPlainColor(0x00, 0x00, 0x00, 0xff),
	opacity:     1.0,
	transform:   rasterx.Identity,
}

// styleMask records which inherited properties are set by an element.
type styleMask uint8

const (
	fillSet styleMask = 1 << iota
	fillOpacitySet
	strokeSet
	strokeOpacitySet
	strokeWidthSet
)

// inherit returns the style of an element whose own style is `s`,
// when its parent has style `parent`: the properties
// not specified on the element are taken from `parent`.
func (s PathStyle) inherit(parent PathStyle) PathStyle {
	out := parent
	out.opacity, out.transform, out.explicit = s.opacity, s.transform, s.explicit
	if s.explicit&fillSet != 0 {
		out.FillerColor = s.FillerColor
	}
	if s.explicit&fillOpacitySet != 0 {
		out.FillOpacity = s.FillOpacity
	}
	if s.explicit&strokeSet != 0 {
		out.LinerColor = s.LinerColor
	}
	if s.explicit&strokeOpacitySet != 0 {
		out.LineOpacity = s.LineOpacity
	}
	if s.explicit&strokeWidthSet != 0 {
		out.LineWidth = s.LineWidth
	}
	return out
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// parseBasicFloat accepts a "px" suffix.
func parseBasicFloat(s string) (float64, error) {
	return parseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"))
}

type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagPercentage
)

// length in user units of one unit of each suffix
var unitFactors = map[string]float64{
	"px": 1,
	"pt": 4. / 3,
	"pc": 16,
	"mm": 96 / 25.4,
	"cm": 96 / 2.54,
	"in": 96,
}

// parseUnit converts a length to user units, resolving
// percentages against the current viewBox.
func (c *iconCursor) parseUnit(s string, asPerc percentageReference) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		f, err := parseFloat(strings.TrimSuffix(s, "%"))
		if err != nil {
			return 0, err
		}
		vb := c.icon.ViewBox
		var ref float64
		switch asPerc {
		case widthPercentage:
			ref = vb.W
		case heightPercentage:
			ref = vb.H
		case diagPercentage:
			ref = math.Sqrt(vb.W*vb.W+vb.H*vb.H) / math.Sqrt2
		}
		return f / 100 * ref, nil
	}
	if len(s) > 2 {
		if factor, ok := unitFactors[s[len(s)-2:]]; ok {
			f, err := parseFloat(s[:len(s)-2])
			return f * factor, err
		}
	}
	return parseFloat(s)
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
}

// getPoints reads a list of numbers into c.points
func (c *iconCursor) getPoints(dataPoints string) error {
	c.points = c.points[:0]
	for _, field := range splitOnCommaOrSpace(dataPoints) {
		f, err := parseFloat(field)
		if err != nil {
			return err
		}
		c.points = append(c.points, f)
	}
	return nil
}

func (c *iconCursor) readTransformAttr(m1 rasterx.Matrix2D, k string) (rasterx.Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(rasterx.Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransform returns the matrix described by a transform attribute,
// relative to the parent coordinates.
func (c *iconCursor) parseTransform(v string) (rasterx.Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := rasterx.Identity
	for _, t := range ts {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), ","))
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

// parseSVGColor returns nil for "none".
func parseSVGColor(v string) (Pattern, error) {
	switch strings.TrimSpace(v) {
	case "none", "":
		return nil, nil
	case "transparent":
		return NewPlainColor(0, 0, 0, 0), nil
	case "currentColor":
		// color is not tracked: use the initial value
		return NewPlainColor(0, 0, 0, 0xff), nil
	}
	col, err := oksvg.ParseSVGColor(strings.TrimSpace(v))
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, nil
	}
	return PlainColor{color.NRGBAModel.Convert(col).(color.NRGBA)}, nil
}

// readGradURL returns the gradient referenced by `url(#id)`.
// Gradients defined after their use are registered empty,
// and completed when their definition is read.
func (c *iconCursor) readGradURL(v string) (*Gradient, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") {
		return nil, false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(v, "url("), ")")
	id = strings.Trim(strings.TrimSpace(id), `'"`)
	id = strings.TrimPrefix(id, "#")
	grad, ok := c.icon.grads[id]
	if !ok {
		grad = &Gradient{ID: id}
		c.icon.grads[id] = grad
	}
	return grad, true
}

func (c *iconCursor) readPaint(v string) (Pattern, error) {
	if grad, ok := c.readGradURL(v); ok {
		return grad, nil
	}
	return parseSVGColor(v)
}

func (c *iconCursor) readStyleAttr(curStyle *PathStyle, k, v string) error {
	if v == "inherit" { // curStyle starts as a copy of the parent style
		return nil
	}
	switch k {
	case "fill":
		paint, err := c.readPaint(v)
		if err != nil {
			return err
		}
		curStyle.FillerColor = paint
		curStyle.explicit |= fillSet
	case "stroke":
		paint, err := c.readPaint(v)
		if err != nil {
			return err
		}
		curStyle.LinerColor = paint
		curStyle.explicit |= strokeSet
	case "stroke-width":
		width, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.LineWidth = width
		curStyle.explicit |= strokeWidthSet
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := readFraction(v)
		if err != nil {
			return err
		}
		op = math.Max(0, math.Min(1, op))
		switch k {
		case "opacity":
			curStyle.opacity = op
		case "fill-opacity":
			curStyle.FillOpacity = op
			curStyle.explicit |= fillOpacitySet
		case "stroke-opacity":
			curStyle.LineOpacity = op
			curStyle.explicit |= strokeOpacitySet
		}
	case "clip-path", "mask", "filter", "marker", "marker-start", "marker-mid", "marker-end":
		if v != "none" {
			return c.handleError("Cannot process svg attribute " + k)
		}
	case "transform":
		m, err := c.parseTransform(v)
		if err != nil {
			return err
		}
		curStyle.transform = m
	}
	return nil
}

// pushStyle parses the style element, and push it on the style stack.
// Note that this parses both the contents of a style attribute plus
// direct presentation attributes, the style attribute taking precedence.
func (c *iconCursor) pushStyle(attrs []xml.Attr) error {
	var pairs, stylePairs []string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			stylePairs = append(stylePairs, strings.Split(attr.Value, ";")...)
		default:
			pairs = append(pairs, attr.Name.Local+":"+attr.Value)
		}
	}
	pairs = append(pairs, stylePairs...)
	// Make a copy of the top style
	curStyle := c.styleStack[len(c.styleStack)-1]
	curStyle.opacity = 1
	curStyle.transform = rasterx.Identity
	curStyle.explicit = 0
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(strings.ToLower(k))
		v = strings.TrimSpace(v)
		if err := c.readStyleAttr(&curStyle, k, v); err != nil {
			return fmt.Errorf("attribute %s: %w", k, err)
		}
	}
	c.styleStack = append(c.styleStack, curStyle) // Push style onto stack
	return nil
}

func (c *iconCursor) handleError(errStr string) error {
	switch c.errorMode {
	case StrictErrorMode:
		return errors.New(errStr)
	case WarnErrorMode:
		logger.Logger().Warn(errStr)
	}
	return nil
}

func (c *iconCursor) style() PathStyle {
	return c.styleStack[len(c.styleStack)-1]
}

// newDetachedNode creates a node styled by the current element,
// only reachable by its id.
func (c *iconCursor) newDetachedNode(kind NodeKind) *Node {
	style := c.style()
	n := &Node{Kind: kind, ID: c.elementID, Transform: style.transform}
	n.applyStyle(style)
	if n.ID != "" {
		c.icon.ids[n.ID] = n
	}
	return n
}

// newNode creates a node styled by the current element,
// and attach it to the current parent.
func (c *iconCursor) newNode(kind NodeKind) *Node {
	n := c.newDetachedNode(kind)
	if c.parent != nil {
		c.parent.Children = append(c.parent.Children, n)
	}
	return n
}

// openContainer makes `n` the parent of the children
// of the element being read.
func (c *iconCursor) openContainer(n *Node) {
	c.nodeStack[len(c.nodeStack)-1] = n
}

func (c *iconCursor) readStartElement(se xml.StartElement) error {
	c.parent = nil
	if len(c.nodeStack) > 0 {
		c.parent = c.nodeStack[len(c.nodeStack)-1]
	}
	// by default, children are attached to the same parent
	c.nodeStack = append(c.nodeStack, c.parent)

	c.elementID = ""
	for _, attr := range se.Attr {
		if attr.Name.Local == "id" {
			c.elementID = attr.Value
		}
	}

	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		if err := c.handleError("Cannot process svg element " + se.Name.Local); err != nil {
			return err
		}
		// neither the element nor its content is rendered
		c.skipDepth = 1
		return nil
	}
	if c.icon.Root == nil && se.Name.Local != "svg" {
		return fmt.Errorf("unexpected root element %s", se.Name.Local)
	}
	if err := df(c, se.Attr); err != nil {
		return fmt.Errorf("element %s: %w", se.Name.Local, err)
	}
	if c.skipContent {
		c.skipContent = false
		c.skipDepth = 1
	}

	if len(c.path) > 0 {
		// The cursor parsed a path from the xml element
		n := c.newNode(PathNode)
		n.Path = c.path.Copy()
		c.path = c.path[:0]
	}
	return nil
}

func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseFloat(v)
	f /= d
	return
}
