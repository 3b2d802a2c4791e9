package svgscene

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/srwiley/rasterx"
)

// points returns a copy of every point of the scene, in paint order.
func points(s *Scene) []Point {
	var out []Point
	s.Walk(func(n Node) bool {
		switch n := n.(type) {
		case *Fill:
			out = append(out, n.Path...)
		case *Stroke:
			out = append(out, n.Path...)
		}
		return true
	})
	return out
}

const mixedScene = `<svg viewBox="0 0 33 17">
	<g transform="rotate(30) skewX(10)">
		<path d="M0.3 0.7 C 4 5 6.1 2 8 8 Q 9 1 13.7 3.3 Z" stroke="red" stroke-width="0.7"/>
		<g transform="translate(3.3, -1.1)">
			<ellipse cx="7" cy="5" rx="3.1" ry="1.9" fill="green"/>
		</g>
	</g>
	<polyline points="1.1,2.3 30.7,15.9 0.1,16.9" fill="none" stroke="blue"/>
</svg>`

func TestResizeRoundTripIdentity(t *testing.T) {
	for _, keepGroups := range []bool{false, true} {
		scene := mustFlatten(t, mixedScene, Options{KeepGroups: keepGroups})
		before := points(scene)
		if err := scene.Resize(scene.Width, scene.Height); err != nil {
			t.Fatal(err)
		}
		if after := points(scene); !reflect.DeepEqual(before, after) {
			t.Errorf("resizing to the current size should not modify points:\n%v\n%v", before, after)
		}
	}
}

func TestResizeLinearity(t *testing.T) {
	for _, factors := range [][2]float64{
		{2, 2}, {0.5, 3}, {1.37, 0.011}, {1000, 1}, {7.3, 7.3},
	} {
		for _, keepGroups := range []bool{false, true} {
			scene := mustFlatten(t, mixedScene, Options{KeepGroups: keepGroups})
			w, h := scene.Width, scene.Height
			before := points(scene)

			if err := scene.Resize(w*factors[0], h*factors[1]); err != nil {
				t.Fatal(err)
			}
			if scene.Width != w*factors[0] || scene.Height != h*factors[1] {
				t.Errorf("unexpected size %gx%g", scene.Width, scene.Height)
			}
			if err := scene.Resize(w, h); err != nil {
				t.Fatal(err)
			}

			after := points(scene)
			if len(after) != len(before) {
				t.Fatalf("point count changed: %d != %d", len(after), len(before))
			}
			for i := range before {
				if math.Abs(before[i].X-after[i].X) > 1e-3 || math.Abs(before[i].Y-after[i].Y) > 1e-3 {
					t.Errorf("factors %v: point %d moved from %v to %v", factors, i, before[i], after[i])
				}
			}
		}
	}
}

func TestResizeScales(t *testing.T) {
	scene := mustFlatten(t, triangle, Options{})
	if err := scene.Resize(40, 40); err != nil {
		t.Fatal(err)
	}
	expected := []Point{{0, 0}, {20, 0}, {10, 20}}
	if got := points(scene); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	if scene.OriginalSize != (Size{20, 20}) {
		t.Errorf("original size should not change, got %v", scene.OriginalSize)
	}
}

func TestResizeSmallViewBox(t *testing.T) {
	scene := mustFlatten(t, `<svg viewBox="0 0 1 1" width="1000" height="1000">
		<polygon points="0.3,0.3 0.7,0.3 0.5,0.9"/>
	</svg>`, Options{})
	if err := scene.Resize(1000, 1000); err != nil {
		t.Fatal(err)
	}
	expected := []Point{{X: 300, Y: 300}, {X: 700, Y: 300}, {X: 500, Y: 900}}
	got := points(scene)
	if len(got) != len(expected) {
		t.Fatalf("unexpected points %v", got)
	}
	for i := range expected {
		if math.Abs(got[i].X-expected[i].X) > 1e-9 || math.Abs(got[i].Y-expected[i].Y) > 1e-9 {
			t.Errorf("point %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

func TestLargeCoordinates(t *testing.T) {
	scene := mustFlatten(t, `<svg viewBox="0 0 10 10">
		<polygon points="1,1 5e7,1 1,5"/>
		<path d="M-4e9 1 L1 1"/>
	</svg>`, Options{})
	expected := []Point{{X: 1, Y: 1}, {X: 5e7, Y: 1}, {X: 1, Y: 5}, {X: -4e9, Y: 1}, {X: 1, Y: 1}}
	if got := points(scene); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestResizeGroups(t *testing.T) {
	scene := mustFlatten(t, groupedTriangles, Options{KeepGroups: true})
	if err := scene.Resize(40, 10); err != nil {
		t.Fatal(err)
	}
	g := scene.Nodes[0].(*Group)
	if g.Bounds == nil || *g.Bounds != (Rect{2, 0.5, 30, 7.5}) {
		t.Errorf("group bounds should follow the children, got %v", g.Bounds)
	}
}

func TestResizeStrokeWidth(t *testing.T) {
	scene := mustFlatten(t, `<svg viewBox="0 0 10 10">
		<path d="M0 0 L5 5" stroke="red" stroke-width="3"/>
	</svg>`, Options{})
	if err := scene.Resize(20, 20); err != nil {
		t.Fatal(err)
	}
	if w := scene.Nodes[0].(*Stroke).StrokeWidth; w != 6 {
		t.Errorf("expected stroke width 6, got %g", w)
	}
}

func TestResizeDegenerate(t *testing.T) {
	empty := &Scene{Width: 0, Height: 10}
	if err := empty.Resize(10, 10); !errors.Is(err, ErrDegenerateTransform) {
		t.Errorf("expected degenerate transform, got %v", err)
	}

	for _, size := range [][2]float64{{0, 10}, {10, -1}, {math.NaN(), 1}, {math.Inf(1), 1}} {
		scene := mustFlatten(t, triangle, Options{})
		if err := scene.Resize(size[0], size[1]); !errors.Is(err, ErrDegenerateTransform) {
			t.Errorf("%v: expected degenerate transform, got %v", size, err)
		}
		if scene.Width != 20 || scene.Height != 20 {
			t.Errorf("failed resize should not modify the scene, got %gx%g", scene.Width, scene.Height)
		}
	}
}

func TestMapPoints(t *testing.T) {
	pts := []Point{{1.1, 2.2}, {-3, 4.5}}
	MapPoints(rasterx.Identity, pts)
	if pts[0] != (Point{1.1, 2.2}) || pts[1] != (Point{-3, 4.5}) {
		t.Errorf("identity should not modify points, got %v", pts)
	}

	MapPoints(rasterx.Identity.Translate(1, 2).Scale(2, 3), pts)
	if math.Abs(pts[0].X-3.2) > 1e-12 || math.Abs(pts[0].Y-8.6) > 1e-12 || pts[1] != (Point{-5, 15.5}) {
		t.Errorf("unexpected points %v", pts)
	}
}
