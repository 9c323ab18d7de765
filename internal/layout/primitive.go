// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout reconstructs a linear reading order from the unordered
// primitives of a paginated newsletter. It groups primitives that share a
// vertical band into inline clusters, orders each page top to bottom,
// concatenates pages, and trims the trailing sign-off footer.
//
// Only the vertical axis is consulted. No decision in this package looks
// at x coordinates.
package layout

import "fmt"

// BBox is an axis-aligned bounding box in PDF user space. Y grows upward,
// so Y1 is the top edge and Y0 the bottom edge.
type BBox struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// NewBBox returns a box with its corners normalized so that X0 <= X1 and
// Y0 <= Y1.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// OverlapsVertically reports whether the vertical spans [Y0,Y1] of a and b
// intersect. Touching edges count as overlap.
func OverlapsVertically(a, b BBox) bool {
	return a.Y0 <= b.Y1 && b.Y0 <= a.Y1
}

// Kind is the variant tag of a Primitive.
type Kind uint8

const (
	// KindUnknown marks a primitive the extractor could not map to any
	// supported variant. It takes part in grouping but is never rendered.
	KindUnknown Kind = iota
	KindText
	KindFigure
	KindIgnorable
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFigure:
		return "figure"
	case KindIgnorable:
		return "ignorable"
	default:
		return "unknown"
	}
}

// Shape names for ignorable decorations.
const (
	ShapeLine  = "line"
	ShapeRect  = "rect"
	ShapeCurve = "curve"
)

// Primitive is one element of a page as produced by the layout extractor.
// Primitives are handled by pointer; two primitives with identical fields
// are still distinct elements.
type Primitive struct {
	Kind Kind
	BBox BBox

	// Text is the raw content of a text block.
	Text string

	// Name is the identifier the source document assigns to a figure's
	// image object. The extracted image file is named after it.
	Name string

	// Shape describes an ignorable decoration (line, rect, curve).
	Shape string
}

// NewText returns a text primitive.
func NewText(text string, box BBox) *Primitive {
	return &Primitive{Kind: KindText, BBox: box, Text: text}
}

// NewFigure returns a figure primitive referencing the image object name.
func NewFigure(name string, box BBox) *Primitive {
	return &Primitive{Kind: KindFigure, BBox: box, Name: name}
}

// NewDecoration returns an ignorable primitive of the given shape.
func NewDecoration(shape string, box BBox) *Primitive {
	return &Primitive{Kind: KindIgnorable, BBox: box, Shape: shape}
}

func (p *Primitive) String() string {
	switch p.Kind {
	case KindText:
		return fmt.Sprintf("text(%q) y=[%g,%g]", p.Text, p.BBox.Y0, p.BBox.Y1)
	case KindFigure:
		return fmt.Sprintf("figure(%s) y=[%g,%g]", p.Name, p.BBox.Y0, p.BBox.Y1)
	case KindIgnorable:
		return fmt.Sprintf("%s y=[%g,%g]", p.Shape, p.BBox.Y0, p.BBox.Y1)
	default:
		return fmt.Sprintf("unknown y=[%g,%g]", p.BBox.Y0, p.BBox.Y1)
	}
}

// Classify maps a primitive to its class. Any tag outside the three
// supported variants classifies as KindUnknown.
func Classify(p *Primitive) Kind {
	switch p.Kind {
	case KindText, KindFigure, KindIgnorable:
		return p.Kind
	default:
		return KindUnknown
	}
}

// Page holds the primitives of one page in extractor order.
type Page struct {
	// Number is the 1-based page number.
	Number     int
	Primitives []*Primitive
}
