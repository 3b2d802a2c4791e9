package svgscene

import (
	"fmt"
	"math"

	"github.com/srwiley/rasterx"
)

// Matrix is the affine transform applied to scene points.
type Matrix = rasterx.Matrix2D

func isIdentity(m Matrix) bool { return m == rasterx.Identity }

// meanScale returns the factor applied to lengths by m,
// in average over all directions.
func meanScale(m Matrix) float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

// MapPoints applies m to every point, in place.
// It is a no-op for the identity.
func MapPoints(m Matrix, pts []Point) {
	if isIdentity(m) {
		return
	}
	for i, p := range pts {
		pts[i].X, pts[i].Y = m.Transform(p.X, p.Y)
	}
}

// Transform applies `m` to every node of the scene, in place.
// The canvas size is not modified.
func (s *Scene) Transform(m Matrix) {
	for _, n := range s.Nodes {
		n.transform(m)
	}
}

// Resize scales the scene geometry so that it fits
// a canvas of size w x h. Each axis is scaled independently.
func (s *Scene) Resize(w, h float64) error {
	if !(s.Width > 0 && s.Height > 0) {
		return fmt.Errorf("%w: resizing a scene of size %gx%g", ErrDegenerateTransform, s.Width, s.Height)
	}
	if !(w > 0 && h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: invalid target size %gx%g", ErrDegenerateTransform, w, h)
	}
	s.Transform(Matrix{A: w / s.Width, D: h / s.Height})
	s.Width, s.Height = w, h
	return nil
}
