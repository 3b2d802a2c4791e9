// Implements a raster backend to render flattened scenes,
// by plotting the outline of each primitive into an image.
// Edges are not anti-aliased and polygons are not filled.
package svgraster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/psvg/internal/logger"
	"github.com/benoitkugler/psvg/svgscene"
)

// ErrUnimplemented is returned (wrapped) for scene nodes
// the renderer does not know how to paint.
var ErrUnimplemented = errors.New("unimplemented")

const (
	// maxCoord bounds the pixel coordinates converted to int.
	maxCoord = 1 << 30

	// maxPixels bounds the size of the allocated images.
	maxPixels = 1 << 28
)

// toPixel rounds `p` to the nearest pixel.
// It returns false for coordinates which are not finite or too large.
func toPixel(p svgscene.Point) (image.Point, bool) {
	x, y := math.Round(p.X), math.Round(p.Y)
	if !(math.Abs(x) < maxCoord && math.Abs(y) < maxCoord) {
		return image.Point{}, false
	}
	return image.Pt(int(x), int(y)), true
}

// Outliner computes the pixels tracing the outline of
// a closed polygon, given its stroke width (0 for fills).
// Pixels are appended to `dst`; the ones outside `clip`
// may be skipped.
type Outliner interface {
	Outline(dst []image.Point, path []svgscene.Point, width float64, clip image.Rectangle) []image.Point
}

// VertexOutliner plots every vertex of the polygon, the first
// one included twice to close it. Gaps between vertices are not
// interpolated.
type VertexOutliner struct{}

func (VertexOutliner) Outline(dst []image.Point, path []svgscene.Point, _ float64, _ image.Rectangle) []image.Point {
	if len(path) == 0 {
		return dst
	}
	for _, p := range path {
		if px, ok := toPixel(p); ok {
			dst = append(dst, px)
		}
	}
	if px, ok := toPixel(path[0]); ok {
		dst = append(dst, px)
	}
	return dst
}

// SegmentOutliner joins consecutive vertices (and the last one
// to the first) with one pixel wide lines.
type SegmentOutliner struct{}

func (SegmentOutliner) Outline(dst []image.Point, path []svgscene.Point, _ float64, clip image.Rectangle) []image.Point {
	var pixels []image.Point
	for _, p := range path {
		if px, ok := toPixel(p); ok {
			pixels = append(pixels, px)
		}
	}
	if len(pixels) == 0 {
		return dst
	}
	pixels = append(pixels, pixels[0])
	if pixels[0].In(clip) {
		dst = append(dst, pixels[0])
	}
	for i := 1; i < len(pixels); i++ {
		dst = appendLine(dst, pixels[i-1], pixels[i], clip)
	}
	return dst
}

// appendLine appends the pixels of the segment ]a, b] inside clip,
// using Bresenham's algorithm.
func appendLine(dst []image.Point, a, b image.Point, clip image.Rectangle) []image.Point {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	err := dx + dy
	for a != b {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
		if a.In(clip) {
			dst = append(dst, a)
		}
	}
	return dst
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func sign(a int) int {
	switch {
	case a < 0:
		return -1
	case a > 0:
		return 1
	default:
		return 0
	}
}

// Renderer paints scenes into a non-premultiplied RGBA image.
// Each pixel write replaces the previous value: there is no blending.
type Renderer struct {
	// Outliner is the outline algorithm used for
	// both fills and strokes. It defaults to VertexOutliner.
	Outliner Outliner

	img    *image.NRGBA
	pixels []image.Point // buffer
}

// NewRenderer returns a renderer with a transparent black
// image of size width x height.
func NewRenderer(width, height int) *Renderer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Renderer{
		Outliner: VertexOutliner{},
		img:      image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// Image returns the image painted so far.
func (rd *Renderer) Image() *image.NRGBA { return rd.img }

// Clear resets every pixel to transparent black.
func (rd *Renderer) Clear() {
	clear(rd.img.Pix)
}

// Render paints the nodes of `scene` in order.
// Groups have no direct effect: only their children are painted.
func (rd *Renderer) Render(scene *svgscene.Scene) error {
	return rd.render(scene.Nodes)
}

func (rd *Renderer) render(nodes []svgscene.Node) error {
	for _, node := range nodes {
		switch node := node.(type) {
		case *svgscene.Fill:
			rd.plot(node.Path, 0, node.Color.NRGBA(node.Opacity))
		case *svgscene.Stroke:
			// the fill attributes are not used
			rd.plot(node.Path, node.StrokeWidth, node.StrokeColor.NRGBA(node.StrokeOpacity))
		case *svgscene.Group:
			if err := rd.render(node.Children); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: painting node %T", ErrUnimplemented, node)
		}
	}
	return nil
}

// plot writes the outline of `path`, dropping the pixels
// outside the image.
func (rd *Renderer) plot(path []svgscene.Point, width float64, c color.NRGBA) {
	outliner := rd.Outliner
	if outliner == nil {
		outliner = VertexOutliner{}
	}
	bounds := rd.img.Rect
	rd.pixels = outliner.Outline(rd.pixels[:0], path, width, bounds)
	for _, px := range rd.pixels {
		if !px.In(bounds) {
			continue
		}
		rd.img.SetNRGBA(px.X, px.Y, c)
	}
}

// RasterScene allocates an image of size round(scene.Width) x round(scene.Height)
// and paints the scene into it, using VertexOutliner.
func RasterScene(scene *svgscene.Scene) (*image.NRGBA, error) {
	fw, fh := math.Round(scene.Width), math.Round(scene.Height)
	if !(fw >= 0 && fh >= 0 && fw <= maxCoord && fh <= maxCoord && fw*fh <= maxPixels) {
		return nil, fmt.Errorf("invalid canvas size %gx%g", scene.Width, scene.Height)
	}
	w, h := int(fw), int(fh)
	rd := NewRenderer(w, h)
	if err := rd.Render(scene); err != nil {
		return nil, err
	}
	logger.Logger().Debug("rasterized scene", "width", w, "height", h, "paths", scene.Count())
	return rd.Image(), nil
}
