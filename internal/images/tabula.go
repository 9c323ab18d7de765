// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/tsawler/tabula/reader"
)

const filterDCT = "DCTDecode"

// TabulaExtractor extracts image XObjects in-process with the tabula PDF
// reader. Raw pixel data is encoded as PNG; JPEG streams are transcoded.
type TabulaExtractor struct{}

// NewTabulaExtractor returns the default image backend.
func NewTabulaExtractor() *TabulaExtractor {
	return &TabulaExtractor{}
}

func (t *TabulaExtractor) Name() string { return "tabula" }

// Extract reads every page of pdfPath. Images that fail to decode are
// skipped with a warning.
func (t *TabulaExtractor) Extract(pdfPath string) ([]PageImages, error) {
	r, err := reader.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	out := make([]PageImages, 0, count)
	for i := 0; i < count; i++ {
		pageNum := i + 1
		page, err := r.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", pageNum, err)
		}

		entry := PageImages{Page: pageNum}
		extracted, err := r.ExtractPageImages(page)
		if err != nil {
			log.Warn().Err(err).Int("page", pageNum).Msg("image extraction failed")
			out = append(out, entry)
			continue
		}

		// XObject resources come back in map order.
		sort.Slice(extracted, func(a, b int) bool { return extracted[a].Name < extracted[b].Name })

		for _, img := range extracted {
			var data []byte
			if img.Filter == filterDCT {
				data, err = toPNG(img.Data)
			} else {
				data, err = img.ToPNG()
			}
			if err != nil {
				log.Warn().Err(err).Int("page", pageNum).Str("image", img.Name).Msg("image could not be decoded")
				continue
			}
			entry.Images = append(entry.Images, Image{Name: img.Name, Data: data})
		}
		out = append(out, entry)
	}
	return out, nil
}
