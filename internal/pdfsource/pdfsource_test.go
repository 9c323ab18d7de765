// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/model"

	"github.com/pdiddy/newsletter-pages/internal/layout"
	"github.com/pdiddy/newsletter-pages/pkg/types"
)

// fakeRuntime implements container.Runtime with a canned stdout.
type fakeRuntime struct {
	imageErr error
	runErr   error
	output   string
	gotStdin string
	gotCtx   context.Context
}

func (f *fakeRuntime) Name() string    { return "docker" }
func (f *fakeRuntime) Available() bool { return true }

func (f *fakeRuntime) ImageExists(image string) error { return f.imageErr }

func (f *fakeRuntime) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	f.gotCtx = ctx
	data, _ := io.ReadAll(stdin)
	f.gotStdin = string(data)
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

const sampleLayout = `{"pages":[
 {"number":1,"primitives":[
   {"kind":"text","bbox":[72,700,300,720],"text":"Spring update\n"},
   {"kind":"figure","bbox":[72,400,300,600],"name":"Im1"},
   {"kind":"line","bbox":[72,390,540,391]},
   {"kind":"rect","bbox":[0,0,612,792]},
   {"kind":"curve","bbox":[10,10,20,20]},
   {"kind":"annotation","bbox":[1,1,2,2]}
 ]},
 {"primitives":[{"kind":"text","bbox":[300,720,72,700],"text":"Page two"}]}
]}`

func TestDecodeLayout(t *testing.T) {
	pages, err := decodeLayout([]byte(sampleLayout))
	require.NoError(t, err)
	require.Len(t, pages, 2)

	p1 := pages[0]
	assert.Equal(t, 1, p1.Number)
	require.Len(t, p1.Primitives, 6)

	assert.Equal(t, layout.KindText, p1.Primitives[0].Kind)
	assert.Equal(t, "Spring update\n", p1.Primitives[0].Text)
	assert.Equal(t, layout.BBox{X0: 72, Y0: 700, X1: 300, Y1: 720}, p1.Primitives[0].BBox)

	assert.Equal(t, layout.KindFigure, p1.Primitives[1].Kind)
	assert.Equal(t, "Im1", p1.Primitives[1].Name)

	for i, shape := range []string{layout.ShapeLine, layout.ShapeRect, layout.ShapeCurve} {
		prim := p1.Primitives[2+i]
		assert.Equal(t, layout.KindIgnorable, prim.Kind)
		assert.Equal(t, shape, prim.Shape)
	}
	assert.Equal(t, layout.KindUnknown, layout.Classify(p1.Primitives[5]))

	p2 := pages[1]
	assert.Equal(t, 2, p2.Number, "missing page numbers are positional")
	assert.Equal(t, layout.BBox{X0: 72, Y0: 700, X1: 300, Y1: 720}, p2.Primitives[0].BBox, "boxes are normalized")
}

func TestDecodeLayout_Invalid(t *testing.T) {
	_, err := decodeLayout([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding layout JSON")
}

func TestNewContainer_MissingImage(t *testing.T) {
	_, err := NewContainer(&fakeRuntime{imageErr: errors.New("no such image")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), LayoutImage)
}

func TestContainerPages(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "spring.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4 fake"), 0o644))

	rt := &fakeRuntime{output: sampleLayout}
	src, err := NewContainer(rt)
	require.NoError(t, err)
	assert.Equal(t, "container/docker", src.Name())

	pages, err := src.Pages(context.Background(), pdf)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
	assert.Equal(t, "%PDF-1.4 fake", rt.gotStdin)
}

func TestContainerPages_Errors(t *testing.T) {
	src, err := NewContainer(&fakeRuntime{runErr: errors.New("exit status 1")})
	require.NoError(t, err)

	_, err = src.Pages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening PDF")

	pdf := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("x"), 0o644))
	_, err = src.Pages(context.Background(), pdf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestContainerPages_Cancelled(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "spring.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4 fake"), 0o644))

	rt := &fakeRuntime{output: sampleLayout}
	src, err := NewContainer(rt)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Pages(ctx, pdf)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ctx, rt.gotCtx, "the caller's context reaches the runtime")
}

func TestNew_UnsupportedBackend(t *testing.T) {
	_, err := New(types.LayoutBackend("ocr"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported layout backend "ocr"`)

	src, err := New(types.LayoutTabula)
	require.NoError(t, err)
	assert.Equal(t, "tabula", src.Name())
}

func op(operator string, operands ...core.Object) contentstream.Operation {
	return contentstream.Operation{Operator: operator, Operands: operands}
}

func TestPlaceFigures(t *testing.T) {
	images := map[string]bool{"Im1": true, "Im2": true}
	ops := []contentstream.Operation{
		op("q"),
		op("cm", core.Int(200), core.Int(0), core.Int(0), core.Int(100), core.Int(72), core.Int(500)),
		op("Do", core.Name("Im1")),
		op("Q"),
		op("q"),
		op("cm", core.Real(50), core.Int(0), core.Int(0), core.Real(50), core.Int(300), core.Int(100)),
		op("Do", core.Name("Fm0")),
		op("Do", core.Name("Im2")),
		op("Q"),
		op("Do"),
	}

	figures := placeFigures(ops, images)
	require.Len(t, figures, 2)

	assert.Equal(t, "Im1", figures[0].Name)
	assert.Equal(t, layout.BBox{X0: 72, Y0: 500, X1: 272, Y1: 600}, figures[0].BBox)

	assert.Equal(t, "Im2", figures[1].Name)
	assert.Equal(t, layout.BBox{X0: 300, Y0: 100, X1: 350, Y1: 150}, figures[1].BBox)
}

func TestPlaceFigures_NestedTransforms(t *testing.T) {
	ops := []contentstream.Operation{
		op("cm", core.Int(1), core.Int(0), core.Int(0), core.Int(1), core.Int(10), core.Int(20)),
		op("q"),
		op("cm", core.Int(100), core.Int(0), core.Int(0), core.Int(50), core.Int(0), core.Int(0)),
		op("Do", core.Name("Im1")),
		op("Q"),
		op("Q"),
	}

	figures := placeFigures(ops, map[string]bool{"Im1": true})
	require.Len(t, figures, 1)
	assert.Equal(t, layout.BBox{X0: 10, Y0: 20, X1: 110, Y1: 70}, figures[0].BBox)
}

func TestMatrixOperands(t *testing.T) {
	m, ok := matrixOperands([]core.Object{core.Int(1), core.Real(0.5), core.Int(0), core.Int(1), core.Int(2), core.Int(3)})
	require.True(t, ok)
	assert.Equal(t, model.Matrix{1, 0.5, 0, 1, 2, 3}, m)

	_, ok = matrixOperands([]core.Object{core.Int(1)})
	assert.False(t, ok)

	_, ok = matrixOperands([]core.Object{core.Name("a"), core.Int(0), core.Int(0), core.Int(1), core.Int(0), core.Int(0)})
	assert.False(t, ok)
}
