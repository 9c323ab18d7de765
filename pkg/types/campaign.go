// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one newsletter PDF.
// Only completed conversions are recorded; a failed conversion writes
// nothing, so the PDF stays pending and is retried.
type ConversionStatus string

const ConversionDone ConversionStatus = "converted"

// Campaign is one published newsletter issue.
type Campaign struct {
	// Name is the PDF stem and the campaign directory name (e.g. "2024-05").
	Name string `json:"name" yaml:"name"`

	// Number is the issue's position in the archive list, starting at 1.
	Number int `json:"number" yaml:"number"`

	// PDFPath is the source newsletter PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Images is the number of image files written to the campaign's img/ directory.
	Images int `json:"images" yaml:"images"`

	// Elements is the number of document elements rendered after footer trimming.
	Elements int `json:"elements" yaml:"elements"`

	// ConvertedAt is when the campaign page was last written.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`

	// Status is the outcome of the last recorded conversion.
	Status ConversionStatus `json:"status" yaml:"status"`
}
