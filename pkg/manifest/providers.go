// SPDX-License-Identifier: MPL-2.0

package manifest

import "errors"

// ErrResourceNotFound is returned by ResourceProvider implementations when a
// path does not resolve to a bundled resource.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceProvider serves the extension's bundled resource bytes. Resolution
// assumes the bytes are already available: implementations must not block on
// network I/O.
//
// Implementations must support "data:" URI pseudo-paths (";base64," and
// percent-encoded forms) and must reject paths that resolve outside the
// extension's declared root (directory traversal).
type ResourceProvider interface {
	// Bytes returns the raw bytes for a path, or ErrResourceNotFound.
	Bytes(path string) ([]byte, error)
	// Text returns the UTF-8 string for a path, or ErrResourceNotFound.
	Text(path string) (string, error)
}

// Image is an opaque decoded image supplied by the ImageProvider.
type Image interface {
	// Size returns the image's natural pixel dimensions.
	Size() (width, height int)
}

// ImageProvider decodes and composes icon bitmaps. Multi-scale composition is
// the provider's responsibility; the resolver only selects which bytes to
// decode for which scale.
type ImageProvider interface {
	// Decode turns resource bytes into an image. pathHint carries the
	// resource path so the provider can sniff the format from its extension.
	Decode(data []byte, pathHint string) (Image, error)
	// Compose combines per-scale representations into one renderable image.
	// Called with at least one entry; keys are display scale factors.
	Compose(representations map[float64]Image) Image
}

// Localizer substitutes localizable placeholders in a raw manifest before
// resolution begins. Implementations return a new mapping; the input is
// never mutated.
type Localizer interface {
	Localize(raw RawManifest, defaultLocale string) RawManifest
}

// ColorScheme identifies a rendering appearance for icon variants.
type ColorScheme string

const (
	// ColorSchemeLight is the light appearance.
	ColorSchemeLight ColorScheme = "light"
	// ColorSchemeDark is the dark appearance.
	ColorSchemeDark ColorScheme = "dark"
)

// DynamicImage is a two-variant image whose rendered appearance is chosen at
// draw time. The resolver prepares both variants; switching between them is
// an external rendering concern, so the scheme query is supplied by the
// caller rather than stored rendering state.
type DynamicImage struct {
	// Light is the image used for the light appearance.
	Light Image
	// Dark is the image used for the dark appearance.
	Dark Image
	// CurrentScheme reports the active appearance. Nil defaults to light.
	CurrentScheme func() ColorScheme
}

// Size returns the dimensions of the currently active variant.
func (d *DynamicImage) Size() (int, int) {
	if img := d.Active(); img != nil {
		return img.Size()
	}
	return 0, 0
}

// Active returns the variant for the currently active appearance.
func (d *DynamicImage) Active() Image {
	if d.CurrentScheme != nil && d.CurrentScheme() == ColorSchemeDark && d.Dark != nil {
		return d.Dark
	}
	return d.Light
}
