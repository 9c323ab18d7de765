// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a reading-order element sequence into an HTML
// fragment. The fragment carries no page chrome; it is spliced into the
// site templates by package template.
package render

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/newsletter-pages/internal/layout"
)

const imageDir = "img"

var whitespace = strings.NewReplacer("\n", " ", "\t", " ")

// NormalizeText replaces newlines and tabs with single spaces. Nothing else
// is changed; runs of spaces are kept.
func NormalizeText(s string) string {
	return whitespace.Replace(s)
}

// Renderer builds markup for one campaign. Image references point at
// /<OutputDir>/img/<name>.png, so OutputDir must be the campaign folder
// relative to the site root (e.g. "newsletters/2024-05").
type Renderer struct {
	OutputDir string
}

// New returns a renderer for the campaign folder outputDir.
func New(outputDir string) *Renderer {
	return &Renderer{OutputDir: outputDir}
}

// ImageSrc returns the root-relative reference for the named image.
func (r *Renderer) ImageSrc(name string) string {
	return "/" + path.Join(r.OutputDir, imageDir, name+".png")
}

// Render serializes elems in order and returns the fragment followed by a
// trailing newline.
func (r *Renderer) Render(elems []layout.Element) (string, error) {
	var buf bytes.Buffer
	for _, e := range elems {
		var nodes []*html.Node
		switch v := e.(type) {
		case *layout.Primitive:
			nodes = r.primitive(v)
		case *layout.Cluster:
			nodes = []*html.Node{r.cluster(v)}
		default:
			return "", fmt.Errorf("unexpected element %T", e)
		}
		for _, n := range nodes {
			if err := html.Render(&buf, n); err != nil {
				return "", fmt.Errorf("rendering element: %w", err)
			}
		}
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// primitive renders a single leaf. Decorations and unsupported primitives
// produce no nodes.
func (r *Renderer) primitive(p *layout.Primitive) []*html.Node {
	switch layout.Classify(p) {
	case layout.KindFigure:
		return []*html.Node{r.image(p.Name)}
	case layout.KindText:
		return []*html.Node{paragraph(NormalizeText(p.Text))}
	case layout.KindIgnorable:
		log.Info().Str("element", p.String()).Msg("skipping decoration")
	default:
		log.Error().Str("element", p.String()).Msg("unsupported element")
	}
	return nil
}

// cluster renders an inline row. Consecutive text children are joined into
// one paragraph as long as each does not overlap the previous child
// vertically: a stacked child is a wrapped continuation, an overlapping
// one is a separate block sitting beside it.
func (r *Renderer) cluster(c *layout.Cluster) *html.Node {
	div := element(atom.Div, html.Attribute{Key: "class", Val: fmt.Sprintf("inline-%d", c.InlineWidth()+1)})
	for _, n := range r.primitive(c.Base) {
		div.AppendChild(n)
	}

	children := c.Children
	for i := 0; i < len(children); {
		switch layout.Classify(children[i]) {
		case layout.KindFigure:
			div.AppendChild(r.image(children[i].Name))
			i++
		case layout.KindText:
			var content strings.Builder
			content.WriteString(NormalizeText(children[i].Text))
			i++
			for i < len(children) &&
				layout.Classify(children[i]) == layout.KindText &&
				!layout.OverlapsVertically(children[i-1].BBox, children[i].BBox) {
				content.WriteString(NormalizeText(children[i].Text))
				i++
			}
			div.AppendChild(paragraph(content.String()))
		default:
			i++
		}
	}
	return div
}

func (r *Renderer) image(name string) *html.Node {
	return element(atom.Img, html.Attribute{Key: "src", Val: r.ImageSrc(name)})
}

func paragraph(s string) *html.Node {
	p := element(atom.P)
	p.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return p
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}
