// SPDX-License-Identifier: MPL-2.0

package cueutil_test

import (
	"errors"
	"testing"

	"webextc/pkg/cueutil"
)

func TestCUEPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    cueutil.CUEPath
		wantErr bool
	}{
		{name: "valid simple path", path: "platform", wantErr: false},
		{name: "valid indexed path", path: "display_scales[0]", wantErr: false},
		{name: "valid nested path", path: "ui.color_scheme", wantErr: false},
		{name: "empty string", path: "", wantErr: true},
		{name: "whitespace only", path: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("CUEPath(%q).Validate() error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, cueutil.ErrInvalidCUEPath) {
				t.Errorf("CUEPath(%q).Validate() error does not wrap ErrInvalidCUEPath", tt.path)
			}
		})
	}
}

func TestCUEPath_String(t *testing.T) {
	t.Parallel()

	path := cueutil.CUEPath("ui.color_scheme")
	if got := path.String(); got != "ui.color_scheme" {
		t.Errorf("CUEPath.String() = %q, want %q", got, "ui.color_scheme")
	}
}
