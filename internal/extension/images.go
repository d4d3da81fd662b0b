// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"bytes"
	"fmt"
	"image"
	"math"

	// Icon formats extensions ship in practice.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"webextc/pkg/manifest"
)

// Bitmap is a decoded icon bitmap. Only the dimensions are retained; the
// resolver selects by size, rendering happens elsewhere.
type Bitmap struct {
	// Path is the resource path the bytes were decoded from.
	Path string

	width, height int
}

// Size implements manifest.Image.
func (b *Bitmap) Size() (int, int) { return b.width, b.height }

// MultiScaleImage is the composition of per-scale icon representations.
type MultiScaleImage struct {
	// Representations maps display scale factors to the decoded bitmaps.
	Representations map[float64]manifest.Image
}

// Size implements manifest.Image. It reports point (density-independent)
// dimensions derived from the lowest-scale representation.
func (m *MultiScaleImage) Size() (int, int) {
	best := math.Inf(1)
	for scale := range m.Representations {
		if scale < best {
			best = scale
		}
	}
	img, ok := m.Representations[best]
	if !ok {
		return 0, 0
	}
	w, h := img.Size()
	return int(float64(w) / best), int(float64(h) / best)
}

// PathForScale returns the source path composed for a scale, or "".
func (m *MultiScaleImage) PathForScale(scale float64) string {
	if img, ok := m.Representations[scale].(*Bitmap); ok {
		return img.Path
	}
	return ""
}

// ImageDecoder decodes icon bytes with the standard image registry (PNG,
// JPEG, GIF). It implements manifest.ImageProvider.
type ImageDecoder struct{}

// Decode implements manifest.ImageProvider. Only the image header is read;
// pixel data is not needed for size-based selection.
func (ImageDecoder) Decode(data []byte, pathHint string) (manifest.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", pathHint, err)
	}
	return &Bitmap{Path: pathHint, width: cfg.Width, height: cfg.Height}, nil
}

// Compose implements manifest.ImageProvider.
func (ImageDecoder) Compose(representations map[float64]manifest.Image) manifest.Image {
	return &MultiScaleImage{Representations: representations}
}
