// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsletter-pages/internal/layout"
)

// newsletterPDF holds one page with the text "Spring update", the image
// XObject Im1 painted over (72,400)-(272,500) and a rule at y=380.
var newsletterPDF = filepath.Join("testdata", "newsletter.pdf")

func byKind(prims []*layout.Primitive, kind layout.Kind) []*layout.Primitive {
	var out []*layout.Primitive
	for _, p := range prims {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func TestTabulaPages(t *testing.T) {
	pages, err := NewTabula().Pages(context.Background(), newsletterPDF)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
	prims := pages[0].Primitives

	texts := byKind(prims, layout.KindText)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0].Text, "Spring update")
	assert.InDelta(t, 72, texts[0].BBox.X0, 1)
	assert.Greater(t, texts[0].BBox.Y0, 600.0, "text sits above the image")

	figures := byKind(prims, layout.KindFigure)
	require.Len(t, figures, 1)
	assert.Equal(t, "Im1", figures[0].Name)
	assert.InDelta(t, 72, figures[0].BBox.X0, 0.01)
	assert.InDelta(t, 400, figures[0].BBox.Y0, 0.01)
	assert.InDelta(t, 272, figures[0].BBox.X1, 0.01)
	assert.InDelta(t, 500, figures[0].BBox.Y1, 0.01)

	rules := byKind(prims, layout.KindIgnorable)
	require.Len(t, rules, 1)
	assert.Equal(t, layout.ShapeLine, rules[0].Shape)
	assert.InDelta(t, 380, rules[0].BBox.Y0, 0.01)
	assert.InDelta(t, 540, rules[0].BBox.X1, 0.01)

	elems := layout.Sequence(pages)
	require.Len(t, elems, 2, "the rule is dropped from the reading order")
}

func TestTabulaPages_Errors(t *testing.T) {
	_, err := NewTabula().Pages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening PDF")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewTabula().Pages(ctx, newsletterPDF)
	require.ErrorIs(t, err, context.Canceled)
}
