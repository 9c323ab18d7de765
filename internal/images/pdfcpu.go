// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
)

// PdfcpuExtractor extracts images with pdfcpu. pdfcpu hands back the
// stored image files (JPEG, PNG, TIFF); non-PNG files are transcoded and,
// when that fails, written as stored.
type PdfcpuExtractor struct {
	conf *model.Configuration
}

// NewPdfcpuExtractor returns the pdfcpu image backend.
func NewPdfcpuExtractor() *PdfcpuExtractor {
	return &PdfcpuExtractor{conf: model.NewDefaultConfiguration()}
}

func (p *PdfcpuExtractor) Name() string { return "pdfcpu" }

// Extract reads every page of pdfPath.
func (p *PdfcpuExtractor) Extract(pdfPath string) ([]PageImages, error) {
	count, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	perPage, err := api.ExtractImagesRaw(f, nil, p.conf)
	if err != nil {
		return nil, fmt.Errorf("extracting images: %w", err)
	}

	out := make([]PageImages, count)
	for i := range out {
		out[i].Page = i + 1
	}

	for _, imgs := range perPage {
		objNrs := make([]int, 0, len(imgs))
		for nr := range imgs {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for _, nr := range objNrs {
			img := imgs[nr]
			if img.PageNr < 1 || img.PageNr > count {
				continue
			}
			data, err := io.ReadAll(img)
			if err != nil {
				log.Warn().Err(err).Int("page", img.PageNr).Str("image", img.Name).Msg("image could not be read")
				continue
			}
			if converted, err := toPNG(data); err == nil {
				data = converted
			} else {
				log.Debug().Err(err).Str("image", img.Name).Str("type", img.FileType).Msg("writing stored image bytes")
			}
			page := &out[img.PageNr-1]
			page.Images = append(page.Images, Image{Name: img.Name, Data: data})
		}
	}
	return out, nil
}
