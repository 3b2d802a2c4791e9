// Flattens parsed SVG documents into an ordered list
// of drawable primitives, whose geometry is expressed in device space.
// A Scene may then be resized and painted, for instance by psvg/svgraster.
package svgscene

import (
	"errors"
	"image/color"
	"math"
)

var (
	// ErrUnsupported is returned (wrapped) for node kinds or paints
	// which are not implemented: images, texts and gradients.
	ErrUnsupported = errors.New("unsupported feature")

	// ErrDegenerateTransform is returned (wrapped) when a resize
	// involves a zero or negative size.
	ErrDegenerateTransform = errors.New("degenerate transform")
)

// Point is a device space point.
type Point struct{ X, Y float64 }

// Color is an opaque 8-bit RGB color.
type Color struct{ R, G, B uint8 }

// Black is the default color.
var Black = Color{}

// NRGBA returns the color with an alpha channel given by `o`.
func (c Color) NRGBA(o Opacity) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: o.ToU8()}
}

// Opacity is a normalized value in [0, 1].
type Opacity float64

// NewOpacity clamps `f` to [0, 1]. NaN is mapped to 0.
func NewOpacity(f float64) Opacity {
	if !(f > 0) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return Opacity(f)
}

// ToU8 returns the 8-bit fixed point equivalent of the opacity,
// rounded to the nearest value.
func (o Opacity) ToU8() uint8 {
	return uint8(math.Round(float64(NewOpacity(float64(o))) * 255))
}

// Size is a width and height pair.
type Size struct{ W, H float64 }

// Rect is an axis aligned rectangle.
type Rect struct{ MinX, MinY, MaxX, MaxY float64 }

// Union returns the smallest rectangle containing r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// W returns the width of the rectangle.
func (r Rect) W() float64 { return r.MaxX - r.MinX }

// H returns the height of the rectangle.
func (r Rect) H() float64 { return r.MaxY - r.MinY }

func pointsBounds(pts []Point) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	out := Rect{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		out.MinX = math.Min(out.MinX, p.X)
		out.MinY = math.Min(out.MinY, p.Y)
		out.MaxX = math.Max(out.MaxX, p.X)
		out.MaxY = math.Max(out.MaxY, p.Y)
	}
	return out, true
}

// Node is a flattened primitive: one of *Fill, *Stroke or *Group.
// Nodes are owned by their Scene (or Group), and never shared.
type Node interface {
	// bounds returns the extent of the node, or false
	// if it has no points.
	bounds() (Rect, bool)

	// transform maps the geometry of the node in place
	transform(m Matrix)
}

// Fill is a filled path.
// The path is an implicitly closed polygon: its first
// point is never repeated at the end.
type Fill struct {
	Color   Color
	Opacity Opacity
	Path    []Point
}

// Stroke is a stroked path, which also carries the attributes
// of its fill. When the source has no fill, the fill is black with
// opacity 0.
// StrokeWidth is always positive.
type Stroke struct {
	Color         Color
	Opacity       Opacity
	StrokeColor   Color
	StrokeOpacity Opacity
	StrokeWidth   float64
	Path          []Point
}

// Group is only emitted when Options.KeepGroups is true.
// Its Opacity is recorded but not applied to the children.
type Group struct {
	Opacity  Opacity
	Bounds   *Rect // nil for groups without points
	Children []Node
}

func (f *Fill) bounds() (Rect, bool)   { return pointsBounds(f.Path) }
func (s *Stroke) bounds() (Rect, bool) { return pointsBounds(s.Path) }

func (g *Group) bounds() (Rect, bool) {
	if g.Bounds == nil {
		return Rect{}, false
	}
	return *g.Bounds, true
}

func (f *Fill) transform(m Matrix) { MapPoints(m, f.Path) }

func (s *Stroke) transform(m Matrix) {
	if isIdentity(m) {
		return
	}
	MapPoints(m, s.Path)
	if factor := meanScale(m); factor > 0 {
		s.StrokeWidth *= factor
	}
}

func (g *Group) transform(m Matrix) {
	if isIdentity(m) {
		return
	}
	for _, child := range g.Children {
		child.transform(m)
	}
	g.updateBounds()
}

// updateBounds sets the union of the children extents.
func (g *Group) updateBounds() {
	g.Bounds = nil
	for _, child := range g.Children {
		r, ok := child.bounds()
		if !ok {
			continue
		}
		if g.Bounds == nil {
			g.Bounds = &r
		} else {
			u := g.Bounds.Union(r)
			g.Bounds = &u
		}
	}
}

// Scene is the flattened, device space representation of
// a document.
type Scene struct {
	// Width and Height are the current size of the canvas,
	// updated by Resize.
	Width, Height float64

	// OriginalSize is the size declared by the document.
	OriginalSize Size

	// Nodes are stored in paint order.
	Nodes []Node
}

// Walk calls fn for every node, in paint order,
// descending into groups unless fn returns false.
func (s *Scene) Walk(fn func(Node) bool) {
	walk(s.Nodes, fn)
}

func walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		if g, ok := n.(*Group); ok {
			walk(g.Children, fn)
		}
	}
}

// Count returns the number of paths (fill and stroke nodes) in the scene.
func (s *Scene) Count() int {
	var count int
	s.Walk(func(n Node) bool {
		switch n.(type) {
		case *Fill, *Stroke:
			count++
		}
		return true
	})
	return count
}

// Bounds returns the extent of all the paths of the scene,
// or false for an empty scene.
func (s *Scene) Bounds() (Rect, bool) {
	var (
		out Rect
		ok  bool
	)
	for _, n := range s.Nodes {
		r, has := n.bounds()
		if !has {
			continue
		}
		if ok {
			out = out.Union(r)
		} else {
			out, ok = r, true
		}
	}
	return out, ok
}
