// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsletter-pages/internal/layout"
	"github.com/pdiddy/newsletter-pages/internal/pdfsource"
	"github.com/pdiddy/newsletter-pages/pkg/types"
)

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	return img
}

func TestWrite(t *testing.T) {
	var logBuf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logBuf)
	t.Cleanup(func() { log.Logger = prev })

	outDir := filepath.Join(t.TempDir(), "newsletters", "spring")
	pages := []PageImages{
		{Page: 1, Images: []Image{{Name: "Im1", Data: []byte("one")}, {Name: "Im2", Data: []byte("two")}}},
		{Page: 2},
		{Page: 3, Images: []Image{{Name: "X9", Data: []byte("nine")}}},
	}

	n, err := Write(pages, "spring.pdf", outDir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for name, want := range map[string]string{"Im1": "one", "Im2": "two", "X9": "nine"} {
		data, err := os.ReadFile(filepath.Join(outDir, "img", name+".png"))
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}

	assert.Contains(t, logBuf.String(), "no images found on page")
	assert.Contains(t, logBuf.String(), `"page":2`)
}

func TestWrite_ExistingDirectory(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, Dir), 0o755))

	n, err := Write([]PageImages{{Page: 1, Images: []Image{{Name: "a", Data: []byte("x")}}}}, "x.pdf", outDir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWrite_Unwritable(t *testing.T) {
	outDir := t.TempDir()
	// A file where the image folder should be.
	require.NoError(t, os.WriteFile(filepath.Join(outDir, Dir), []byte("x"), 0o644))

	_, err := Write([]PageImages{{Page: 1, Images: []Image{{Name: "a", Data: []byte("x")}}}}, "x.pdf", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating image directory")
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("newsletters", "a", "img", "Im4.png"), Path(filepath.Join("newsletters", "a"), "Im4"))
}

func TestToPNG(t *testing.T) {
	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, sampleImage(), nil))

	out, err := toPNG(jpg.Bytes())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, pngMagic))

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), decoded.Bounds())
}

func TestToPNG_PassesPNGThrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sampleImage()))

	out, err := toPNG(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), out)
}

func TestToPNG_Garbage(t *testing.T) {
	_, err := toPNG([]byte("not an image"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend types.ImageBackend
		want    string
		wantErr bool
	}{
		{backend: "", want: "tabula"},
		{backend: types.ImageTabula, want: "tabula"},
		{backend: types.ImagePdfcpu, want: "pdfcpu"},
		{backend: "poppler", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			ex, err := New(tt.backend)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported image backend")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ex.Name())
		})
	}
}

// newsletterPDF holds one page with a text line, the 2x2 RGB image XObject
// Im1 and a rule.
var newsletterPDF = filepath.Join("testdata", "newsletter.pdf")

func TestExtractors_NewsletterPDF(t *testing.T) {
	pages, err := pdfsource.NewTabula().Pages(context.Background(), newsletterPDF)
	require.NoError(t, err)
	var figures []string
	for _, p := range pages[0].Primitives {
		if p.Kind == layout.KindFigure {
			figures = append(figures, p.Name)
		}
	}
	require.Equal(t, []string{"Im1"}, figures)

	for _, ex := range []Extractor{NewTabulaExtractor(), NewPdfcpuExtractor()} {
		t.Run(ex.Name(), func(t *testing.T) {
			extracted, err := ex.Extract(newsletterPDF)
			require.NoError(t, err)
			require.Len(t, extracted, 1)
			assert.Equal(t, 1, extracted[0].Page)
			require.Len(t, extracted[0].Images, 1)

			outDir := t.TempDir()
			n, err := Write(extracted, newsletterPDF, outDir)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			for _, name := range figures {
				data, err := os.ReadFile(Path(outDir, name))
				require.NoError(t, err, "every rendered figure has an image file")
				cfg, err := png.DecodeConfig(bytes.NewReader(data))
				require.NoError(t, err)
				assert.Equal(t, 2, cfg.Width)
				assert.Equal(t, 2, cfg.Height)
			}
		})
	}
}
