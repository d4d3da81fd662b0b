// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is returned when a CUEPath value is malformed.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

// CUEPath is a JSON-path-style reference into a CUE document,
// e.g. "ui.color_scheme" or "display_scales[0]".
type CUEPath string

// String returns the string representation of the path.
func (p CUEPath) String() string { return string(p) }

// Validate checks that the path is non-empty and not whitespace-only.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return fmt.Errorf("%w: path must not be empty", ErrInvalidCUEPath)
	}
	return nil
}
