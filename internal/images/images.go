// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images writes the embedded images of a newsletter PDF to the
// campaign's img/ folder. Each file is named after the identifier the PDF
// assigns to the image object, which is also the name layout figures
// carry, so rendered references resolve without existence checks.
package images

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/newsletter-pages/pkg/types"
)

// Dir is the image subfolder of a campaign folder.
const Dir = "img"

// Image is one extracted image, ready to be written as PNG.
type Image struct {
	Name string
	Data []byte
}

// PageImages holds the images extracted from one page.
type PageImages struct {
	// Page is the 1-based page number.
	Page   int
	Images []Image
}

// Extractor pulls embedded images out of a PDF. Implementations return
// one entry per page, in page order, including pages without images.
type Extractor interface {
	// Name identifies the backend in diagnostics.
	Name() string

	// Extract reads the PDF at pdfPath.
	Extract(pdfPath string) ([]PageImages, error)
}

// New returns the extractor for backend.
func New(backend types.ImageBackend) (Extractor, error) {
	switch backend {
	case types.ImageTabula, "":
		return NewTabulaExtractor(), nil
	case types.ImagePdfcpu:
		return NewPdfcpuExtractor(), nil
	default:
		return nil, fmt.Errorf("unsupported image backend %q: use %s or %s", backend, types.ImageTabula, types.ImagePdfcpu)
	}
}

// Path returns the file an image named name is written to.
func Path(outDir, name string) string {
	return filepath.Join(outDir, Dir, name+".png")
}

// Write writes already extracted images to outDir/img/<name>.png, creating
// the folder if needed. Pages without images are reported as warnings. It
// returns the number of files written.
func Write(pages []PageImages, pdfPath, outDir string) (int, error) {
	if err := os.MkdirAll(filepath.Join(outDir, Dir), 0o755); err != nil {
		return 0, fmt.Errorf("creating image directory: %w", err)
	}

	written := 0
	for _, page := range pages {
		if len(page.Images) == 0 {
			log.Warn().Int("page", page.Page).Str("pdf", pdfPath).Msg("no images found on page")
			continue
		}
		for _, img := range page.Images {
			if err := os.WriteFile(Path(outDir, img.Name), img.Data, 0o644); err != nil {
				return written, fmt.Errorf("writing image %s: %w", img.Name, err)
			}
			written++
		}
	}
	return written, nil
}
