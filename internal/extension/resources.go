// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"webextc/pkg/manifest"
)

// DirResources serves bundled resource bytes from an unpacked extension
// directory. It implements manifest.ResourceProvider: "data:" pseudo-paths
// are decoded in place, and paths that resolve outside the extension root
// are rejected as not found.
type DirResources struct {
	root string
}

// NewDirResources returns a provider rooted at the extension directory.
func NewDirResources(root string) *DirResources {
	return &DirResources{root: root}
}

// Bytes implements manifest.ResourceProvider.
func (r *DirResources) Bytes(p string) ([]byte, error) {
	if payload, ok := strings.CutPrefix(p, "data:"); ok {
		text, err := decodeDataURI(payload)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	}

	rel, err := r.relativePath(p)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, manifest.ErrResourceNotFound
		}
		return nil, err
	}
	return data, nil
}

// Text implements manifest.ResourceProvider.
func (r *DirResources) Text(p string) (string, error) {
	data, err := r.Bytes(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// relativePath normalizes a resource path and rejects directory traversal.
// Rooted cleaning would silently fold ".." segments back into the root, so
// they are rejected outright.
func (r *DirResources) relativePath(p string) (string, error) {
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return "", fmt.Errorf("path %q escapes the extension root: %w", p, manifest.ErrResourceNotFound)
		}
	}
	cleaned := path.Clean("/" + p)
	if cleaned == "/" {
		return "", manifest.ErrResourceNotFound
	}
	return strings.TrimPrefix(cleaned, "/"), nil
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
