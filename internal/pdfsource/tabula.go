// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	tlayout "github.com/tsawler/tabula/layout"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"

	"github.com/pdiddy/newsletter-pages/internal/layout"
)

// Tabula extracts primitives with the tabula PDF reader. Text fragments
// are grouped into blocks by tabula's block detector, image XObjects drawn
// with Do become figures placed by the current transformation matrix, and
// stroked or filled lines and rectangles become decorations.
//
// Primitives are emitted text blocks first, then figures in drawing order,
// then decorations.
type Tabula struct {
	blocks tlayout.BlockConfig
}

// NewTabula returns a Tabula source with tabula's default block detection.
func NewTabula() *Tabula {
	return &Tabula{blocks: tlayout.DefaultBlockConfig()}
}

func (t *Tabula) Name() string { return "tabula" }

// Pages reads every page of pdfPath, checking ctx between pages.
func (t *Tabula) Pages(ctx context.Context, pdfPath string) ([]layout.Page, error) {
	r, err := reader.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	out := make([]layout.Page, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := r.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i+1, err)
		}
		prims, err := t.page(r, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		out = append(out, layout.Page{Number: i + 1, Primitives: prims})
	}
	return out, nil
}

func (t *Tabula) page(r *reader.Reader, page *pages.Page) ([]*layout.Primitive, error) {
	width, _ := page.Width()
	height, _ := page.Height()

	fragments, err := r.ExtractTextFragments(page)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	var prims []*layout.Primitive
	detected := tlayout.NewBlockDetectorWithConfig(t.blocks).Detect(fragments, width, height)
	for i := range detected.Blocks {
		b := &detected.Blocks[i]
		prims = append(prims, layout.NewText(b.GetText(), fromModel(b.BBox)))
	}

	ops, err := contentOperations(page)
	if err != nil {
		return nil, err
	}

	prims = append(prims, placeFigures(ops, imageNames(r, page))...)

	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.Extract(ops); err != nil {
		log.Debug().Err(err).Msg("graphics extraction stopped early")
	}
	for _, l := range ge.GetFilteredLines() {
		prims = append(prims, layout.NewDecoration(layout.ShapeLine, layout.NewBBox(l.Start.X, l.Start.Y, l.End.X, l.End.Y)))
	}
	for _, rect := range ge.GetFilteredRectangles() {
		prims = append(prims, layout.NewDecoration(layout.ShapeRect, fromModel(rect.BBox)))
	}
	return prims, nil
}

// contentOperations decodes and parses all content streams of a page.
func contentOperations(page *pages.Page) ([]contentstream.Operation, error) {
	contents, err := page.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading contents: %w", err)
	}

	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("decoding content stream: %w", err)
		}
		data = append(data, decoded...)
		data = append(data, '\n')
	}
	if len(data) == 0 {
		return nil, nil
	}

	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing content stream: %w", err)
	}
	return ops, nil
}

// imageNames returns the XObject resource names on page whose subtype is Image.
func imageNames(r *reader.Reader, page *pages.Page) map[string]bool {
	names := make(map[string]bool)

	resources, err := page.Resources()
	if err != nil {
		return names
	}
	xobjRef := resources.Get("XObject")
	if xobjRef == nil {
		return names
	}
	resolved, err := r.Resolve(xobjRef)
	if err != nil {
		return names
	}
	xobjects, ok := resolved.(core.Dict)
	if !ok {
		return names
	}

	for name, ref := range xobjects {
		obj, err := r.Resolve(ref)
		if err != nil {
			continue
		}
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		if subtype, ok := stream.Dict.GetName("Subtype"); ok && string(subtype) == "Image" {
			names[name] = true
		}
	}
	return names
}

// placeFigures walks the operations tracking the transformation matrix and
// returns a figure for each Do that paints one of images. An image occupies
// the unit square in its own space, so its page box is the transformed
// unit square.
func placeFigures(ops []contentstream.Operation, images map[string]bool) []*layout.Primitive {
	var figures []*layout.Primitive

	ctm := model.Identity()
	var stack []model.Matrix

	for _, op := range ops {
		switch op.Operator {
		case "q":
			stack = append(stack, ctm)
		case "Q":
			if len(stack) > 0 {
				ctm = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
		case "cm":
			if m, ok := matrixOperands(op.Operands); ok {
				ctm = m.Multiply(ctm)
			}
		case "Do":
			if len(op.Operands) != 1 {
				continue
			}
			name, ok := op.Operands[0].(core.Name)
			if !ok || !images[string(name)] {
				continue
			}
			figures = append(figures, layout.NewFigure(string(name), unitSquare(ctm)))
		}
	}
	return figures
}

func unitSquare(ctm model.Matrix) layout.BBox {
	corners := []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := ctm.Transform(c)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return layout.NewBBox(minX, minY, maxX, maxY)
}

func matrixOperands(operands []core.Object) (model.Matrix, bool) {
	if len(operands) != 6 {
		return model.Matrix{}, false
	}
	var m model.Matrix
	for i, o := range operands {
		switch v := o.(type) {
		case core.Int:
			m[i] = float64(v)
		case core.Real:
			m[i] = float64(v)
		default:
			return model.Matrix{}, false
		}
	}
	return m, true
}

func fromModel(b model.BBox) layout.BBox {
	return layout.NewBBox(b.Left(), b.Bottom(), b.Right(), b.Top())
}
