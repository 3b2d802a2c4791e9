package svgscene

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/benoitkugler/psvg/svgicon"
)

func flattenString(t *testing.T, content string, opts Options) (*Scene, error) {
	t.Helper()
	icon, err := svgicon.ReadIconStream(strings.NewReader(content), svgicon.StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	return Flatten(icon, opts)
}

func mustFlatten(t *testing.T, content string, opts Options) *Scene {
	t.Helper()
	scene, err := flattenString(t, content, opts)
	if err != nil {
		t.Fatal(err)
	}
	return scene
}

const triangle = `<svg width="20" height="20">
	<polygon points="0,0 10,0 5,10" fill="#ff0000"/>
</svg>`

func TestFlattenTriangle(t *testing.T) {
	scene := mustFlatten(t, triangle, Options{})

	if scene.Width != 20 || scene.Height != 20 || scene.OriginalSize != (Size{20, 20}) {
		t.Errorf("unexpected size %gx%g %v", scene.Width, scene.Height, scene.OriginalSize)
	}
	if len(scene.Nodes) != 1 {
		t.Fatalf("expected one node, got %d", len(scene.Nodes))
	}
	fill, ok := scene.Nodes[0].(*Fill)
	if !ok {
		t.Fatalf("expected Fill, got %T", scene.Nodes[0])
	}
	if fill.Color != (Color{0xff, 0, 0}) || fill.Opacity != 1 {
		t.Errorf("unexpected paint %v %v", fill.Color, fill.Opacity)
	}
	// closing is implicit
	expected := []Point{{0, 0}, {10, 0}, {5, 10}}
	if !reflect.DeepEqual(fill.Path, expected) {
		t.Errorf("expected %v, got %v", expected, fill.Path)
	}
}

func TestDefaultAttributePolicy(t *testing.T) {
	scene := mustFlatten(t, `<svg viewBox="0 0 10 10">
		<path d="M0 0 L5 5" fill="none"/>
		<path d="M0 0 L5 5" fill="none" stroke="#00ff00" stroke-width="2" stroke-opacity="0.5"/>
		<path d="M0 0 L5 5" fill="blue" fill-opacity="0.25" stroke="red"/>
		<path d="M0 0 L5 5" fill="transparent"/>
	</svg>`, Options{})
	if len(scene.Nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(scene.Nodes))
	}

	if n, ok := scene.Nodes[0].(*Fill); !ok || n.Color != Black || n.Opacity != 0 {
		t.Errorf("no paint should give a transparent black fill, got %#v", scene.Nodes[0])
	}

	strokeOnly, ok := scene.Nodes[1].(*Stroke)
	if !ok {
		t.Fatalf("expected Stroke, got %T", scene.Nodes[1])
	}
	if strokeOnly.Color != Black || strokeOnly.Opacity != 0 {
		t.Errorf("missing fill should be transparent black, got %v %v", strokeOnly.Color, strokeOnly.Opacity)
	}
	if strokeOnly.StrokeColor != (Color{0, 0xff, 0}) || strokeOnly.StrokeOpacity != 0.5 || strokeOnly.StrokeWidth != 2 {
		t.Errorf("unexpected stroke %#v", strokeOnly)
	}

	both, ok := scene.Nodes[2].(*Stroke)
	if !ok {
		t.Fatalf("expected Stroke, got %T", scene.Nodes[2])
	}
	if both.Color != (Color{0, 0, 0xff}) || both.Opacity != 0.25 || both.StrokeColor != (Color{0xff, 0, 0}) {
		t.Errorf("fill should be retained, got %#v", both)
	}

	if n, ok := scene.Nodes[3].(*Fill); !ok || n.Opacity != 0 {
		t.Errorf("alpha should merge into opacity, got %#v", scene.Nodes[3])
	}
}

func TestTransformOrder(t *testing.T) {
	scene := mustFlatten(t, `<svg viewBox="0 0 100 100">
		<g transform="translate(10,0)">
			<polygon points="1,1 2,1 2,2" transform="scale(2)"/>
		</g>
	</svg>`, Options{})
	fill := scene.Nodes[0].(*Fill)
	// child scale first, then group translation
	if fill.Path[0] != (Point{12, 2}) {
		t.Errorf("unexpected point %v", fill.Path[0])
	}
}

func TestViewBoxOrigin(t *testing.T) {
	scene := mustFlatten(t, `<svg viewBox="10 20 30 40" width="60" height="80">
		<polygon points="10,20 40,20 40,60"/>
	</svg>`, Options{})
	if scene.Width != 30 || scene.Height != 40 || scene.OriginalSize != (Size{60, 80}) {
		t.Errorf("unexpected sizes %gx%g %v", scene.Width, scene.Height, scene.OriginalSize)
	}
	fill := scene.Nodes[0].(*Fill)
	expected := []Point{{0, 0}, {30, 0}, {30, 40}}
	if !reflect.DeepEqual(fill.Path, expected) {
		t.Errorf("expected %v, got %v", expected, fill.Path)
	}
}

const groupedTriangles = `<svg viewBox="0 0 20 20">
	<g opacity="0.5" transform="translate(1,1)">
		<polygon points="0,0 4,0 2,4" fill="red"/>
		<polygon points="10,10 14,10 12,14" fill="blue" fill-opacity="0.8"/>
		<g></g>
	</g>
</svg>`

// group opacity is not applied to the children
func TestEagerGroups(t *testing.T) {
	scene := mustFlatten(t, groupedTriangles, Options{})
	if len(scene.Nodes) != 2 {
		t.Fatalf("groups should be flattened, got %d nodes", len(scene.Nodes))
	}
	first, second := scene.Nodes[0].(*Fill), scene.Nodes[1].(*Fill)
	if first.Opacity != 1 || second.Opacity != 0.8 {
		t.Errorf("children opacities should be unmodified, got %v %v", first.Opacity, second.Opacity)
	}
	if first.Path[0] != (Point{1, 1}) {
		t.Errorf("group transform should be applied, got %v", first.Path[0])
	}
}

func TestKeepGroups(t *testing.T) {
	scene := mustFlatten(t, groupedTriangles, Options{KeepGroups: true})
	if len(scene.Nodes) != 1 {
		t.Fatalf("expected one group, got %d nodes", len(scene.Nodes))
	}
	g, ok := scene.Nodes[0].(*Group)
	if !ok {
		t.Fatalf("expected Group, got %T", scene.Nodes[0])
	}
	if g.Opacity != 0.5 || len(g.Children) != 3 {
		t.Errorf("unexpected group %v", g)
	}
	if g.Bounds == nil || *g.Bounds != (Rect{1, 1, 15, 15}) {
		t.Errorf("unexpected group bounds %v", g.Bounds)
	}
	if empty := g.Children[2].(*Group); empty.Bounds != nil {
		t.Errorf("empty group should have no bounds, got %v", empty.Bounds)
	}
	if n := scene.Count(); n != 2 {
		t.Errorf("expected 2 paths, got %d", n)
	}
	if r, ok := scene.Bounds(); !ok || r != *g.Bounds {
		t.Errorf("unexpected scene bounds %v", r)
	}
}

func TestEmptyPathsSkipped(t *testing.T) {
	scene := mustFlatten(t, `<svg viewBox="0 0 10 10">
		<polyline points="1,1"/>
		<rect width="0" height="4"/>
	</svg>`, Options{})
	if len(scene.Nodes) != 0 {
		t.Errorf("expected no nodes, got %v", scene.Nodes)
	}
	if _, ok := scene.Bounds(); ok {
		t.Error("empty scene should have no bounds")
	}
}

func TestUnsupported(t *testing.T) {
	for _, doc := range []string{
		`<svg viewBox="0 0 10 10"><text>hello</text></svg>`,
		`<svg viewBox="0 0 10 10"><g><image width="2" height="2"/></g></svg>`,
		`<svg viewBox="0 0 10 10">
			<linearGradient id="g"><stop offset="0" stop-color="red"/></linearGradient>
			<rect width="2" height="2" fill="url(#g)"/>
		</svg>`,
		`<svg viewBox="0 0 10 10"><rect width="2" height="2" fill="none" stroke="url(#missing)"/></svg>`,
	} {
		if _, err := flattenString(t, doc, Options{}); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected unsupported error, got %v", doc, err)
		}
	}
}

func TestOpacityToU8(t *testing.T) {
	for _, test := range []struct {
		o        Opacity
		expected uint8
	}{
		{0, 0},
		{1, 255},
		{0.5, 128},
		{0.25, 64},
		{-1, 0},
		{2, 255},
		{Opacity(math.NaN()), 0},
	} {
		if got := test.o.ToU8(); got != test.expected {
			t.Errorf("%v: expected %d, got %d", test.o, test.expected, got)
		}
	}
	for i := 0; i <= 255; i++ {
		o := NewOpacity(float64(i) / 255)
		if got := o.ToU8(); got != uint8(i) {
			t.Errorf("opacity %d/255 does not round trip: %d", i, got)
		}
	}
}
