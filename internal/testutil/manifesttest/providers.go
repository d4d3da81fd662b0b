// SPDX-License-Identifier: MPL-2.0

package manifesttest

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"webextc/pkg/manifest"
)

// Resources is a fake manifest.ResourceProvider over an in-memory path map.
// It honors the contract's "data:" pseudo-path handling and rejects paths
// that traverse outside the extension root.
type Resources struct {
	// Files maps resource paths to their contents.
	Files map[string]string
}

// Bytes implements manifest.ResourceProvider.
func (r *Resources) Bytes(path string) ([]byte, error) {
	text, err := r.Text(path)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Text implements manifest.ResourceProvider.
func (r *Resources) Text(path string) (string, error) {
	if payload, ok := strings.CutPrefix(path, "data:"); ok {
		return decodeDataURI(payload)
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return "", fmt.Errorf("path %q escapes the extension root: %w", path, manifest.ErrResourceNotFound)
		}
	}
	content, ok := r.Files[strings.TrimPrefix(path, "/")]
	if !ok {
		return "", manifest.ErrResourceNotFound
	}
	return content, nil
}

func decodeDataURI(payload string) (string, error) {
	meta, data, ok := strings.Cut(payload, ",")
	if !ok {
		return "", manifest.ErrResourceNotFound
	}
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", manifest.ErrResourceNotFound
		}
		return string(decoded), nil
	}
	// Data URIs are percent-encoded, not form-encoded: "+" is literal.
	decoded, err := url.PathUnescape(data)
	if err != nil {
		return "", manifest.ErrResourceNotFound
	}
	return decoded, nil
}

// Image is a fake decoded image that remembers where it came from.
type Image struct {
	// Path is the resource path the bytes were decoded from.
	Path string
	// Width and Height are fake natural dimensions.
	Width, Height int
}

// Size implements manifest.Image.
func (i *Image) Size() (int, int) { return i.Width, i.Height }

// Composite is the fake result of composing per-scale representations.
type Composite struct {
	// Representations maps display scales to the decoded images.
	Representations map[float64]manifest.Image
}

// Size implements manifest.Image using the 1x representation when present.
func (c *Composite) Size() (int, int) {
	if img, ok := c.Representations[1]; ok {
		return img.Size()
	}
	for _, img := range c.Representations {
		return img.Size()
	}
	return 0, 0
}

// PathForScale returns the fake source path composed for a scale, or "".
func (c *Composite) PathForScale(scale float64) string {
	if img, ok := c.Representations[scale].(*Image); ok {
		return img.Path
	}
	return ""
}

// Images is a fake manifest.ImageProvider. Decoding never inspects bytes; it
// just records the path hint so tests can assert which resource was chosen.
type Images struct {
	// FailPaths lists path hints whose decode should fail.
	FailPaths []string
}

// Decode implements manifest.ImageProvider.
func (p *Images) Decode(data []byte, pathHint string) (manifest.Image, error) {
	for _, fail := range p.FailPaths {
		if fail == pathHint {
			return nil, fmt.Errorf("decode of %q failed", pathHint)
		}
	}
	return &Image{Path: pathHint, Width: len(data), Height: len(data)}, nil
}

// Compose implements manifest.ImageProvider.
func (p *Images) Compose(representations map[float64]manifest.Image) manifest.Image {
	return &Composite{Representations: representations}
}
