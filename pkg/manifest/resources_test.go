// SPDX-License-Identifier: MPL-2.0

package manifest_test

import (
	"errors"
	"strings"
	"testing"

	"webextc/internal/testutil/manifesttest"
	"webextc/pkg/manifest"
)

func TestResourceStringServesBundledFiles(t *testing.T) {
	d := newTestDescriptor(t, `{"manifest_version": 3}`,
		manifest.WithResourceProvider(&manifesttest.Resources{
			Files: map[string]string{"popup.html": "<html></html>"},
		}))

	got, err := d.ResourceString("popup.html")
	if err != nil {
		t.Fatalf("ResourceString() error = %v", err)
	}
	if got != "<html></html>" {
		t.Errorf("ResourceString() = %q", got)
	}
}

func TestResourceStringServesGeneratedBackgroundPage(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 2,
		"background": {"scripts": ["bg.js"]}
	}`, manifest.WithResourceProvider(&manifesttest.Resources{}))

	got, err := d.ResourceString(manifest.GeneratedBackgroundPagePath)
	if err != nil {
		t.Fatalf("ResourceString() error = %v", err)
	}
	if !strings.Contains(got, `<script src="bg.js"></script>`) {
		t.Errorf("generated page = %q", got)
	}
	if got := countKind(d.Ledger().All(), manifest.ResourceNotFound); got != 0 {
		t.Errorf("ResourceNotFound count = %d, want 0", got)
	}
}

func TestResourceStringRecordsMisses(t *testing.T) {
	d := newTestDescriptor(t, `{"manifest_version": 3}`,
		manifest.WithResourceProvider(&manifesttest.Resources{}))

	_, err := d.ResourceString("missing.js")
	if !errors.Is(err, manifest.ErrResourceNotFound) {
		t.Fatalf("error = %v, want ErrResourceNotFound", err)
	}
	if got := countKind(d.Ledger().All(), manifest.ResourceNotFound); got != 1 {
		t.Errorf("ResourceNotFound count = %d, want 1", got)
	}
}

func TestResourceDataWithoutProvider(t *testing.T) {
	d := newTestDescriptor(t, `{"manifest_version": 3}`)

	_, err := d.ResourceData("popup.html")
	if !errors.Is(err, manifest.ErrResourceNotFound) {
		t.Fatalf("error = %v, want ErrResourceNotFound", err)
	}
	if got := countKind(d.Ledger().All(), manifest.ResourceNotFound); got != 1 {
		t.Errorf("ResourceNotFound count = %d, want 1", got)
	}
}

func TestResourceStringRejectsTraversal(t *testing.T) {
	d := newTestDescriptor(t, `{"manifest_version": 3}`,
		manifest.WithResourceProvider(&manifesttest.Resources{
			Files: map[string]string{"popup.html": "x"},
		}))

	if _, err := d.ResourceString("../outside.txt"); !errors.Is(err, manifest.ErrResourceNotFound) {
		t.Fatalf("error = %v, want ErrResourceNotFound", err)
	}
}

func TestResourceStringAllowsDottedFilenames(t *testing.T) {
	d := newTestDescriptor(t, `{"manifest_version": 3}`,
		manifest.WithResourceProvider(&manifesttest.Resources{
			Files: map[string]string{"assets/a..b.png": "dotted"},
		}))

	got, err := d.ResourceString("assets/a..b.png")
	if err != nil {
		t.Fatalf("ResourceString() error = %v", err)
	}
	if got != "dotted" {
		t.Errorf("ResourceString() = %q", got)
	}
}

func TestResourceStringDecodesDataURIs(t *testing.T) {
	d := newTestDescriptor(t, `{"manifest_version": 3}`,
		manifest.WithResourceProvider(&manifesttest.Resources{}))

	got, err := d.ResourceString("data:text/plain;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("ResourceString() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("ResourceString() = %q, want hello", got)
	}

	// Percent-encoded form, with "+" staying literal.
	got, err = d.ResourceString("data:text/plain,a+b%20c")
	if err != nil {
		t.Fatalf("ResourceString() error = %v", err)
	}
	if got != "a+b c" {
		t.Errorf("ResourceString() = %q, want 'a+b c'", got)
	}
}
