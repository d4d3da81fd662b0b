// SPDX-License-Identifier: MPL-2.0

package manifest

import "errors"

// ResourceData returns the bytes for a bundled resource path, serving the
// generated background path from the synthesized content first. A missing
// resource records ResourceNotFound: this is the user-facing single-resource
// lookup, unlike the suppressed batch lookups icon resolution performs.
func (d *Descriptor) ResourceData(path string) ([]byte, error) {
	s, err := d.resourceString(path, true)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// ResourceString is ResourceData for UTF-8 text resources.
func (d *Descriptor) ResourceString(path string) (string, error) {
	return d.resourceString(path, true)
}

func (d *Descriptor) resourceString(path string, report bool) (string, error) {
	if generated := d.BackgroundContent().GeneratedContentPath(); generated != "" && path == generated {
		return d.GeneratedBackgroundContent(), nil
	}
	if d.resources == nil {
		if report {
			d.ledger.Recordf(ResourceNotFound, "no resource provider configured for %q", path)
		}
		return "", ErrResourceNotFound
	}
	text, err := d.resources.Text(path)
	if err != nil {
		if report && errors.Is(err, ErrResourceNotFound) {
			d.ledger.RecordCause(ResourceNotFound, "resource "+path+" not found", err)
		}
		return "", err
	}
	return text, nil
}
