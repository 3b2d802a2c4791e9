// Provides parsing of SVG images.
// SVG files are parsed into a tree of typed nodes with
// resolved numeric attributes (local transform, fill, stroke,
// opacity and geometry), which can then be flattened and painted.
// See for example psvg/svgscene.
package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/benoitkugler/psvg/svgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/net/html/charset"
)

// ErrParse is returned (wrapped) when the source is not a valid SVG document.
var ErrParse = errors.New("invalid svg document")

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unparsed SVG elements
	IgnoreErrorMode ErrorMode = iota

	// WarnErrorMode logs a warning for each unparsed SVG element
	WarnErrorMode

	// StrictErrorMode aborts the parse when an unparsed SVG element is found
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return "<unknown ErrorMode>"
	}
}

// NodeKind identifies the type of a Node.
type NodeKind uint8

const (
	GroupNode NodeKind = iota // g, svg, use
	PathNode                  // path and basic shapes
	ImageNode                 // raster images, not supported by the renderer
	TextNode                  // text, not supported by the renderer
)

func (k NodeKind) String() string {
	switch k {
	case GroupNode:
		return "group"
	case PathNode:
		return "path"
	case ImageNode:
		return "image"
	case TextNode:
		return "text"
	default:
		return "<unknown NodeKind>"
	}
}

// Fill is the resolved filling paint of a path.
type Fill struct {
	Paint   Pattern
	Opacity float64
}

// Stroke is the resolved stroking paint of a path.
// Width is always positive.
type Stroke struct {
	Paint   Pattern
	Opacity float64
	Width   float64
}

// Node is an element of the parsed tree.
// Geometry is expressed in the local coordinates of the node:
// Transform maps them to the coordinates of the parent.
type Node struct {
	Kind      NodeKind
	ID        string
	Transform rasterx.Matrix2D

	// Opacity is the group opacity. For paths, the element opacity
	// is already merged into the fill and stroke opacities, and Opacity is 1.
	Opacity float64

	Fill   *Fill   // nil for no fill
	Stroke *Stroke // nil for no stroke
	Path   svgpath.Path

	Children []*Node

	style PathStyle // resolved style of the element
}

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// SvgIcon holds data from parsed SVGs.
type SvgIcon struct {
	ViewBox Bounds

	// Width and Height are the size declared by the document
	// (the viewBox size when missing).
	Width, Height float64

	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here

	// Root is the outermost svg element.
	Root *Node

	grads map[string]*Gradient
	ids   map[string]*Node
}

// Lookup returns the element with the given id, or nil.
func (s *SvgIcon) Lookup(id string) *Node {
	return s.ids[id]
}

// ReadIconStream reads the Icon from the given io.Reader.
// This only supports a sub-set of SVG. errMode determines if the icon ignores, errors out, or logs a warning
// if it does not handle an element found in the icon file.
func ReadIconStream(stream io.Reader, errMode ErrorMode) (*SvgIcon, error) {
	icon, err := readIconStream(stream, errMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return icon, nil
}

func readIconStream(stream io.Reader, errMode ErrorMode) (*SvgIcon, error) {
	icon := &SvgIcon{grads: make(map[string]*Gradient), ids: make(map[string]*Node)}
	cursor := &iconCursor{styleStack: []PathStyle{DefaultStyle}, icon: icon, errorMode: errMode}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			if cursor.skipDepth > 0 { // content of an unsupported element
				cursor.skipDepth++
				continue
			}
			// Reads all recognized style attributes from the start element
			// and places it on top of the styleStack
			if err = cursor.pushStyle(se.Attr); err != nil {
				return nil, err
			}
			if err = cursor.readStartElement(se); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if cursor.skipDepth > 1 {
				cursor.skipDepth--
				continue
			}
			cursor.skipDepth = 0
			// pop style and parent
			cursor.styleStack = cursor.styleStack[:len(cursor.styleStack)-1]
			cursor.nodeStack = cursor.nodeStack[:len(cursor.nodeStack)-1]
			switch se.Name.Local {
			case "title":
				cursor.inTitleText = false
			case "desc":
				cursor.inDescText = false
			case "radialGradient", "linearGradient":
				cursor.inGrad = false
			}
		case xml.CharData:
			if cursor.inTitleText {
				icon.Titles[len(icon.Titles)-1] += string(se)
			}
			if cursor.inDescText {
				icon.Descriptions[len(icon.Descriptions)-1] += string(se)
			}
		}
	}
	if icon.Root == nil {
		return nil, errors.New("missing svg element")
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("invalid document size %gx%g", icon.ViewBox.W, icon.ViewBox.H)
	}
	return icon, nil
}

// ReadIcon reads the Icon from the named file.
// See ReadIconStream for the meaning of errMode.
func ReadIcon(iconFile string, errMode ErrorMode) (*SvgIcon, error) {
	fin, errf := os.Open(iconFile)
	if errf != nil {
		return nil, errf
	}
	defer fin.Close()
	return ReadIconStream(fin, errMode)
}
