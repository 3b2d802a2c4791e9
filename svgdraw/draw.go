// Given an SVG document, implements the whole rendering
// pipeline: parsing, flattening, resizing, rasterization
// and output to an image file.
package svgdraw

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/benoitkugler/psvg/internal/logger"
	"github.com/benoitkugler/psvg/svgicon"
	"github.com/benoitkugler/psvg/svgraster"
	"github.com/benoitkugler/psvg/svgscene"
)

// ErrInvalidSize is returned (wrapped) by ParseSize.
var ErrInvalidSize = errors.New("invalid size")

// Size is an output size, in pixels.
type Size = svgscene.Size

// ParseSize parses a size formatted as WxH, like 128x142.
func ParseSize(s string) (Size, error) {
	ws, hs, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: please delimit width and height with a 'x': 128x142", ErrInvalidSize)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil {
		return Size{}, fmt.Errorf("%w: width %q: %w", ErrInvalidSize, ws, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil {
		return Size{}, fmt.Errorf("%w: height %q: %w", ErrInvalidSize, hs, err)
	}
	if !(w > 0 && h > 0) || w > maxDimension || h > maxDimension {
		return Size{}, fmt.Errorf("%w: %gx%g", ErrInvalidSize, w, h)
	}
	return Size{W: w, H: h}, nil
}

// maxDimension bounds the sizes accepted by ParseSize
const maxDimension = 1 << 16

// Options controls how documents are rendered.
type Options struct {
	ErrorMode  svgicon.ErrorMode
	KeepGroups bool
}

// DefaultOptions warns about unknown elements and flattens groups.
var DefaultOptions = Options{ErrorMode: svgicon.WarnErrorMode}

// RenderDocument parses and flattens `source` with the default options.
func RenderDocument(source string) (*svgscene.Scene, error) {
	return RenderDocumentWith(source, DefaultOptions)
}

// RenderDocumentWith parses and flattens `source`.
func RenderDocumentWith(source string, opts Options) (*svgscene.Scene, error) {
	icon, err := svgicon.ReadIconStream(strings.NewReader(source), opts.ErrorMode)
	if err != nil {
		return nil, err
	}
	return svgscene.Flatten(icon, svgscene.Options{KeepGroups: opts.KeepGroups})
}

// Resize scales the scene to the size w x h.
func Resize(scene *svgscene.Scene, w, h float64) error {
	return scene.Resize(w, h)
}

// Rasterize paints the scene into a new image.
func Rasterize(scene *svgscene.Scene) (*image.NRGBA, error) {
	return svgraster.RasterScene(scene)
}

// RenderFile renders the SVG file `in` to the image file `out`,
// whose extension selects the format.
// The image has the given `size`, or when nil, the size declared
// by the document.
func RenderFile(ctx context.Context, in, out string, size *Size, opts Options) error {
	log := logger.Logger()

	source, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "read document", "file", in, "bytes", len(source))

	scene, err := RenderDocumentWith(string(source), opts)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", in, err)
	}
	log.DebugContext(ctx, "flattened document", "width", scene.Width, "height", scene.Height, "paths", scene.Count())

	target := scene.OriginalSize
	if size != nil {
		target = *size
	}
	if err = Resize(scene, target.W, target.H); err != nil {
		return fmt.Errorf("resizing %s: %w", in, err)
	}
	log.DebugContext(ctx, "resized scene", "width", target.W, "height", target.H)

	if err = ctx.Err(); err != nil {
		return err
	}
	img, err := Rasterize(scene)
	if err != nil {
		return fmt.Errorf("rasterizing %s: %w", in, err)
	}

	if err = svgraster.Save(out, img); err != nil {
		return fmt.Errorf("saving %s: %w", out, err)
	}
	log.InfoContext(ctx, "rendered", "file", out, "size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	return nil
}
