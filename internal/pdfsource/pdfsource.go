// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfsource turns a newsletter PDF into per-page layout primitives.
// Two backends exist: Tabula parses the PDF in-process, Container pipes it
// through an external layout-extraction image and decodes its JSON.
package pdfsource

import (
	"context"
	"fmt"

	"github.com/pdiddy/newsletter-pages/internal/container"
	"github.com/pdiddy/newsletter-pages/internal/layout"
	"github.com/pdiddy/newsletter-pages/pkg/types"
)

// Source extracts the primitives of every page of a PDF, in page order.
type Source interface {
	// Name identifies the backend in diagnostics.
	Name() string

	// Pages reads the PDF at pdfPath. Cancelling ctx stops the read.
	Pages(ctx context.Context, pdfPath string) ([]layout.Page, error)
}

// New returns the source for backend. The container backend detects a
// docker or podman runtime and verifies its image up front.
func New(backend types.LayoutBackend) (Source, error) {
	switch backend {
	case types.LayoutTabula, "":
		return NewTabula(), nil
	case types.LayoutContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewContainer(rt)
	default:
		return nil, fmt.Errorf("unsupported layout backend %q: use %s or %s", backend, types.LayoutTabula, types.LayoutContainer)
	}
}
