// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/tiff"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// toPNG re-encodes an image file (JPEG, TIFF, GIF, PNG) as PNG. PNG input
// is returned unchanged.
func toPNG(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, pngMagic) {
		return data, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding %s as PNG: %w", format, err)
	}
	return buf.Bytes(), nil
}
