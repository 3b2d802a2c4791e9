package svgicon

import (
	"encoding/xml"
	"errors"
	"strings"
)

func init() {
	// avoids cyclical static declaration
	// called on package initialization
	drawFuncs["use"] = useF
}

type svgFunc func(c *iconCursor, attrs []xml.Attr) error

var drawFuncs = map[string]svgFunc{
	"svg":            svgF,
	"g":              gF,
	"line":           lineF,
	"stop":           stopF,
	"rect":           rectF,
	"circle":         circleF,
	"ellipse":        circleF, //circleF handles ellipse also
	"polyline":       polylineF,
	"polygon":        polygonF,
	"path":           pathF,
	"desc":           descF,
	"defs":           detachedF,
	"symbol":         detachedF,
	"clipPath":       detachedF,
	"mask":           detachedF,
	"marker":         detachedF,
	"pattern":        detachedF,
	"a":              gF,
	"switch":         gF,
	"title":          titleF,
	"linearGradient": linearGradientF,
	"radialGradient": radialGradientF,
	"image":          imageF,
	"text":           textF,
}

func svgF(c *iconCursor, attrs []xml.Attr) error {
	if c.icon.Root != nil {
		return nestedSvgF(c, attrs)
	}
	var (
		width, height float64
		vb            Bounds
		err           error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			if err = c.getPoints(attr.Value); err != nil {
				return err
			}
			if len(c.points) != 4 {
				return errParamMismatch
			}
			vb = Bounds{X: c.points[0], Y: c.points[1], W: c.points[2], H: c.points[3]}
		case "width":
			if !strings.HasSuffix(attr.Value, "%") {
				width, err = c.parseUnit(attr.Value, widthPercentage)
			}
		case "height":
			if !strings.HasSuffix(attr.Value, "%") {
				height, err = c.parseUnit(attr.Value, heightPercentage)
			}
		}
		if err != nil {
			return err
		}
	}
	if vb.W == 0 {
		vb.W = width
	}
	if vb.H == 0 {
		vb.H = height
	}
	if width == 0 {
		width = vb.W
	}
	if height == 0 {
		height = vb.H
	}
	c.icon.ViewBox = vb
	c.icon.Width, c.icon.Height = width, height

	c.icon.Root = c.newNode(GroupNode)
	c.openContainer(c.icon.Root)
	return nil
}

// a nested svg element is seen as a group, translated
// to its (x, y) position. Its viewport is not clipped.
func nestedSvgF(c *iconCursor, attrs []xml.Attr) error {
	var x, y float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	g := c.newNode(GroupNode)
	g.Transform = g.Transform.Translate(x, y)
	c.openContainer(g)
	return nil
}

// g does nothing but push the style and open a new group
func gF(c *iconCursor, _ []xml.Attr) error {
	c.openContainer(c.newNode(GroupNode))
	return nil
}

func rectF(c *iconCursor, attrs []xml.Attr) error {
	var x, y, w, h, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		case "width":
			w, err = c.parseUnit(attr.Value, widthPercentage)
		case "height":
			h, err = c.parseUnit(attr.Value, heightPercentage)
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if w <= 0 || h <= 0 { // not drawn, but not an error
		return nil
	}
	// a single radius applies to both axis
	if rx > 0 && ry == 0 {
		ry = rx
	} else if ry > 0 && rx == 0 {
		rx = ry
	}
	c.path.AddRect(x, y, x+w, y+h, rx, ry)
	return nil
}

func circleF(c *iconCursor, attrs []xml.Attr) error {
	var cx, cy, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			cx, err = c.parseUnit(attr.Value, widthPercentage)
		case "cy":
			cy, err = c.parseUnit(attr.Value, heightPercentage)
		case "r":
			rx, err = c.parseUnit(attr.Value, diagPercentage)
			ry = rx
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if rx <= 0 || ry <= 0 { // not drawn, but not an error
		return nil
	}
	c.path.AddEllipse(cx, cy, rx, ry)
	return nil
}

func lineF(c *iconCursor, attrs []xml.Attr) error {
	var x1, x2, y1, y2 float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			x1, err = c.parseUnit(attr.Value, widthPercentage)
		case "x2":
			x2, err = c.parseUnit(attr.Value, widthPercentage)
		case "y1":
			y1, err = c.parseUnit(attr.Value, heightPercentage)
		case "y2":
			y2, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.path.AddLine(x1, y1, x2, y2)
	return nil
}

func (c *iconCursor) readPointsAttr(attrs []xml.Attr) error {
	c.points = c.points[:0]
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "points":
			if err := c.getPoints(attr.Value); err != nil {
				return err
			}
			if len(c.points)%2 != 0 {
				return errors.New("polygon has odd number of points")
			}
		}
	}
	return nil
}

func polylineF(c *iconCursor, attrs []xml.Attr) error {
	if err := c.readPointsAttr(attrs); err != nil {
		return err
	}
	c.path.AddPolyline(c.points)
	return nil
}

func polygonF(c *iconCursor, attrs []xml.Attr) error {
	if err := c.readPointsAttr(attrs); err != nil {
		return err
	}
	c.path.AddPolygon(c.points)
	return nil
}

func pathF(c *iconCursor, attrs []xml.Attr) error {
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "d":
			if err := c.path.Compile(attr.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func descF(c *iconCursor, _ []xml.Attr) error {
	c.inDescText = true
	c.icon.Descriptions = append(c.icon.Descriptions, "")
	return nil
}

func titleF(c *iconCursor, _ []xml.Attr) error {
	c.inTitleText = true
	c.icon.Titles = append(c.icon.Titles, "")
	return nil
}

// the content of defs, symbol and of the elements only
// used by reference (clip paths, masks, markers and patterns) is parsed
// into a detached group: it is only reachable by id, through use
func detachedF(c *iconCursor, _ []xml.Attr) error {
	c.openContainer(c.newDetachedNode(GroupNode))
	return nil
}

// image and text are recorded with their kind, their content is skipped
func imageF(c *iconCursor, _ []xml.Attr) error {
	c.newNode(ImageNode)
	c.skipContent = true
	return nil
}

func textF(c *iconCursor, _ []xml.Attr) error {
	c.newNode(TextNode)
	c.skipContent = true
	return nil
}

func (c *iconCursor) readGradAttr(attr xml.Attr) (err error) {
	switch attr.Name.Local {
	case "gradientUnits":
		switch strings.TrimSpace(attr.Value) {
		case "userSpaceOnUse":
			c.grad.Units = UserSpaceOnUse
		case "objectBoundingBox":
			c.grad.Units = ObjectBoundingBox
		}
	case "spreadMethod":
		switch strings.TrimSpace(attr.Value) {
		case "pad":
			c.grad.Spread = PadSpread
		case "reflect":
			c.grad.Spread = ReflectSpread
		case "repeat":
			c.grad.Spread = RepeatSpread
		}
	}
	return nil
}

// registerGradient stores the gradient being read, reusing
// the placeholder created by a forward reference if any.
func (c *iconCursor) registerGradient(attrs []xml.Attr, direction gradientDirecter) error {
	c.inGrad = true
	c.grad = &Gradient{}
	for _, attr := range attrs {
		if attr.Name.Local != "id" {
			continue
		}
		if len(attr.Value) == 0 {
			return errZeroLengthID
		}
		if placeholder, ok := c.icon.grads[attr.Value]; ok {
			c.grad = placeholder
		}
		c.grad.ID = attr.Value
		c.icon.grads[attr.Value] = c.grad
	}
	c.grad.Direction = direction
	c.grad.Stops = c.grad.Stops[:0]
	return nil
}

func linearGradientF(c *iconCursor, attrs []xml.Attr) error {
	direction := Linear{0, 0, 1, 0}
	if err := c.registerGradient(attrs, direction); err != nil {
		return err
	}
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			direction[0], err = readFraction(attr.Value)
		case "y1":
			direction[1], err = readFraction(attr.Value)
		case "x2":
			direction[2], err = readFraction(attr.Value)
		case "y2":
			direction[3], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Direction = direction
	return nil
}

func radialGradientF(c *iconCursor, attrs []xml.Attr) error {
	direction := Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	if err := c.registerGradient(attrs, direction); err != nil {
		return err
	}
	var setFx, setFy bool
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			direction[0], err = readFraction(attr.Value)
		case "cy":
			direction[1], err = readFraction(attr.Value)
		case "fx":
			setFx = true
			direction[2], err = readFraction(attr.Value)
		case "fy":
			setFy = true
			direction[3], err = readFraction(attr.Value)
		case "r":
			direction[4], err = readFraction(attr.Value)
		case "fr":
			direction[5], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	if !setFx { // set fx to cx by default
		direction[2] = direction[0]
	}
	if !setFy { // set fy to cy by default
		direction[3] = direction[1]
	}
	c.grad.Direction = direction
	return nil
}

func stopF(c *iconCursor, attrs []xml.Attr) error {
	if !c.inGrad {
		return nil
	}
	var err error
	stop := GradStop{Opacity: 1.0}
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "offset":
			stop.Offset, err = readFraction(attr.Value)
		case "stop-color":
			var p Pattern
			p, err = parseSVGColor(attr.Value)
			if col, ok := p.(PlainColor); ok {
				stop.StopColor = col.NRGBA
			}
		case "stop-opacity":
			stop.Opacity, err = parseFloat(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Stops = append(c.grad.Stops, stop)
	return nil
}

func useF(c *iconCursor, attrs []xml.Attr) error {
	var (
		href string
		x, y float64
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "href":
			href = attr.Value
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if href == "" {
		return errors.New("only use tags with href is supported")
	}
	if !strings.HasPrefix(href, "#") {
		return errors.New("only the ID CSS selector is supported")
	}
	ref, ok := c.icon.ids[href[1:]]
	if !ok {
		return errors.New("href ID in use statement was not found")
	}
	g := c.newNode(GroupNode)
	g.Transform = g.Transform.Translate(x, y)
	// the referenced content inherits from the use element
	clone := ref.Clone()
	clone.restyle(g.style)
	g.Children = append(g.Children, clone)
	return nil
}
