// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// GroupPage partitions a page's primitives into standalone elements and
// inline clusters and returns them top of page first.
//
// Primitives are scanned in extractor order. Each unclaimed, non-ignorable
// primitive claims every later-or-earlier primitive that overlaps it
// vertically and is not yet part of another cluster. A text primitive stops
// scanning at the first overlapping figure so that a text column next to
// an image does not swallow unrelated rows further along the band. The
// first claim wins: a claimed primitive is never a base and never the child
// of a second cluster. Ignorable primitives are dropped.
func GroupPage(page Page) []Element {
	prims := page.Primitives
	n := len(prims)

	claimed := make([]bool, n)
	children := make([][]int, n)

	for i, e := range prims {
		if Classify(e) == KindIgnorable {
			log.Debug().Int("page", page.Number).Str("element", e.String()).Msg("skipping decoration")
			continue
		}
		if claimed[i] {
			continue
		}

		for j, c := range prims {
			if j == i {
				continue
			}
			if Classify(c) == KindIgnorable {
				continue
			}
			if !OverlapsVertically(e.BBox, c.BBox) {
				continue
			}
			if Classify(e) == KindText && Classify(c) == KindFigure {
				break
			}
			// A primitive that already leads a cluster stays where it is.
			if claimed[j] || len(children[j]) > 0 {
				continue
			}
			children[i] = append(children[i], j)
			claimed[j] = true
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return prims[order[a]].BBox.Y0 > prims[order[b]].BBox.Y0
	})

	out := make([]Element, 0, n)
	for _, i := range order {
		p := prims[i]
		switch {
		case Classify(p) == KindIgnorable:
		case len(children[i]) > 0:
			c := &Cluster{Base: p, Children: make([]*Primitive, len(children[i]))}
			for k, j := range children[i] {
				c.Children[k] = prims[j]
			}
			out = append(out, c)
		case claimed[i]:
		default:
			out = append(out, p)
		}
	}
	return out
}

// Sequence groups every page and concatenates the results in page order.
// Page boundaries are hard breaks: nothing is merged across them.
func Sequence(pages []Page) []Element {
	var out []Element
	for _, p := range pages {
		out = append(out, GroupPage(p)...)
	}
	return out
}
