package svgscene

import (
	"context"
	"fmt"

	"github.com/benoitkugler/psvg/internal/logger"
	"github.com/benoitkugler/psvg/svgicon"
	"github.com/srwiley/rasterx"
)

// Options controls the flattening.
type Options struct {
	// KeepGroups emits a Group node for each group of the
	// document. By default, groups are flattened away.
	KeepGroups bool
}

// Flatten walks the tree of `icon` and returns the resulting primitives,
// in paint order, with their geometry in device space.
// The view box origin is mapped to (0, 0), and the scene
// has the size of the view box.
func Flatten(icon *svgicon.SvgIcon, opts Options) (*Scene, error) {
	vb := icon.ViewBox
	if !(vb.W > 0 && vb.H > 0) {
		return nil, fmt.Errorf("%w: view box of size %gx%g", ErrDegenerateTransform, vb.W, vb.H)
	}
	f := flattener{opts: opts}
	nodes, err := f.children(icon.Root)
	if err != nil {
		return nil, err
	}
	// the root element is never emitted as a group
	origin := rasterx.Identity.Translate(-vb.X, -vb.Y)
	var m Matrix = origin
	if icon.Root != nil {
		m = origin.Mult(icon.Root.Transform)
	}
	for _, n := range nodes {
		n.transform(m)
	}
	out := &Scene{
		Width:        vb.W,
		Height:       vb.H,
		OriginalSize: Size{W: icon.Width, H: icon.Height},
		Nodes:        nodes,
	}
	logger.Logger().Debug("flattened scene", "nodes", len(nodes), "paths", out.Count())
	return out, nil
}

type flattener struct {
	opts Options
}

// children flattens the children of n, which are
// then expressed in the local coordinates of n.
func (f flattener) children(n *svgicon.Node) ([]Node, error) {
	if n == nil {
		return nil, nil
	}
	var out []Node
	for _, child := range n.Children {
		nodes, err := f.node(child)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// node returns the primitives for n, expressed in
// the coordinates of its parent.
func (f flattener) node(n *svgicon.Node) ([]Node, error) {
	switch n.Kind {
	case svgicon.PathNode:
		p, err := newPrimitive(n)
		if err != nil || p == nil {
			return nil, err
		}
		return []Node{p}, nil
	case svgicon.GroupNode:
		children, err := f.children(n)
		if err != nil {
			return nil, err
		}
		// the group transform is applied after the ones of the children
		for _, child := range children {
			child.transform(n.Transform)
		}
		if !f.opts.KeepGroups {
			return children, nil
		}
		g := &Group{Opacity: NewOpacity(n.Opacity), Children: children}
		g.updateBounds()
		return []Node{g}, nil
	default:
		return nil, fmt.Errorf("%w: %s node", ErrUnsupported, n.Kind)
	}
}

// resolvePaint returns the color of a plain paint, and the
// opacity merged with its alpha channel.
func resolvePaint(paint svgicon.Pattern, opacity float64) (Color, Opacity, error) {
	switch paint := paint.(type) {
	case svgicon.PlainColor:
		return Color{paint.R, paint.G, paint.B}, NewOpacity(opacity * float64(paint.A) / 0xff), nil
	case *svgicon.Gradient:
		return Color{}, 0, fmt.Errorf("%w: gradient paint %q", ErrUnsupported, paint.ID)
	default:
		return Color{}, 0, fmt.Errorf("%w: paint %T", ErrUnsupported, paint)
	}
}

// newPrimitive applies the attribute policy:
// a path with a stroke is a Stroke (with a transparent black fill
// if needed), other paths are Fill, transparent black if not filled.
// It returns nil for paths without points.
func newPrimitive(n *svgicon.Node) (Node, error) {
	pts := n.Path.Points()
	if len(pts) == 0 {
		return nil, nil
	}
	logger.Logger().Log(context.Background(), logger.LevelTrace, "path", "id", n.ID, "d", n.Path)
	path := make([]Point, len(pts))
	for i, p := range pts {
		path[i] = Point(p)
	}
	MapPoints(n.Transform, path)

	color, opacity := Black, Opacity(0)
	if n.Fill != nil {
		var err error
		color, opacity, err = resolvePaint(n.Fill.Paint, n.Fill.Opacity)
		if err != nil {
			return nil, err
		}
	}
	if n.Stroke == nil {
		return &Fill{Color: color, Opacity: opacity, Path: path}, nil
	}

	strokeColor, strokeOpacity, err := resolvePaint(n.Stroke.Paint, n.Stroke.Opacity)
	if err != nil {
		return nil, err
	}
	width := n.Stroke.Width
	if factor := meanScale(n.Transform); factor > 0 {
		width *= factor
	}
	return &Stroke{
		Color:         color,
		Opacity:       opacity,
		StrokeColor:   strokeColor,
		StrokeOpacity: strokeOpacity,
		StrokeWidth:   width,
		Path:          path,
	}, nil
}
