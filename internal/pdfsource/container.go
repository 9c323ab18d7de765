// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/newsletter-pages/internal/container"
	"github.com/pdiddy/newsletter-pages/internal/layout"
)

// LayoutImage is the container image that reads a PDF on stdin and writes
// its page layout as JSON on stdout.
const LayoutImage = "pdf-layout:latest"

// Wire format written by LayoutImage.
type layoutDocument struct {
	Pages []layoutPage `json:"pages"`
}

type layoutPage struct {
	Number     int               `json:"number"`
	Primitives []layoutPrimitive `json:"primitives"`
}

type layoutPrimitive struct {
	Kind string     `json:"kind"`
	BBox [4]float64 `json:"bbox"`
	Text string     `json:"text,omitempty"`
	Name string     `json:"name,omitempty"`
}

// Container extracts primitives by piping the PDF through LayoutImage.
type Container struct {
	runtime container.Runtime
	image   string
}

// NewContainer returns a Container backed by rt. It fails when the layout
// image has not been built locally.
func NewContainer(rt container.Runtime) (*Container, error) {
	if err := rt.ImageExists(LayoutImage); err != nil {
		return nil, fmt.Errorf("layout image missing (build it with \"%s build -t %s .\"): %w", rt.Name(), LayoutImage, err)
	}
	return &Container{runtime: rt, image: LayoutImage}, nil
}

func (c *Container) Name() string { return "container/" + c.runtime.Name() }

// Pages runs the layout image over pdfPath. Cancelling ctx stops the
// container.
func (c *Container) Pages(ctx context.Context, pdfPath string) ([]layout.Page, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, f, &out); err != nil {
		return nil, err
	}
	return decodeLayout(out.Bytes())
}

// decodeLayout converts the container's JSON document into pages.
// Pages without a number are numbered by position.
func decodeLayout(data []byte) ([]layout.Page, error) {
	var doc layoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding layout JSON: %w", err)
	}

	pages := make([]layout.Page, 0, len(doc.Pages))
	for i, p := range doc.Pages {
		number := p.Number
		if number == 0 {
			number = i + 1
		}
		prims := make([]*layout.Primitive, 0, len(p.Primitives))
		for _, lp := range p.Primitives {
			prims = append(prims, lp.primitive(number))
		}
		pages = append(pages, layout.Page{Number: number, Primitives: prims})
	}
	return pages, nil
}

func (lp layoutPrimitive) primitive(page int) *layout.Primitive {
	box := layout.NewBBox(lp.BBox[0], lp.BBox[1], lp.BBox[2], lp.BBox[3])
	switch lp.Kind {
	case "text":
		return layout.NewText(lp.Text, box)
	case "figure":
		return layout.NewFigure(lp.Name, box)
	case "line":
		return layout.NewDecoration(layout.ShapeLine, box)
	case "rect":
		return layout.NewDecoration(layout.ShapeRect, box)
	case "curve":
		return layout.NewDecoration(layout.ShapeCurve, box)
	default:
		log.Debug().Int("page", page).Str("kind", lp.Kind).Msg("unknown primitive kind")
		return &layout.Primitive{Kind: layout.KindUnknown, BBox: box, Text: lp.Text, Name: lp.Name}
	}
}
