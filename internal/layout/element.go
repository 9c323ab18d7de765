// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

// Element is one entry of a page's reading-order sequence: either a
// standalone *Primitive or an *Cluster. The set is closed; callers switch
// on the concrete type.
type Element interface {
	isElement()
}

func (*Primitive) isElement() {}
func (*Cluster) isElement()   {}

// Cluster is a base primitive plus the primitives sharing its vertical
// band on the same page, rendered together as one visual row. Children
// keep the order in which they were claimed.
type Cluster struct {
	Base     *Primitive
	Children []*Primitive
}

// InlineWidth counts the adjacent child pairs that overlap vertically, plus
// one. It only drives the width class of the rendered container.
func (c *Cluster) InlineWidth() int {
	width := 1
	for i := 0; i+1 < len(c.Children); i++ {
		if OverlapsVertically(c.Children[i].BBox, c.Children[i+1].BBox) {
			width++
		}
	}
	return width
}

// Primitives returns the base followed by the children.
func (c *Cluster) Primitives() []*Primitive {
	out := make([]*Primitive, 0, len(c.Children)+1)
	out = append(out, c.Base)
	return append(out, c.Children...)
}
