// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"testing"

	"webextc/internal/testutil/manifesttest"
	"webextc/pkg/manifest"
)

const enMessages = `{
	"appName": {"message": "Notes"},
	"appDesc": {"message": "Takes notes"}
}`

func TestCatalogLocalize(t *testing.T) {
	t.Parallel()

	resources := &manifesttest.Resources{Files: map[string]string{
		"_locales/en/messages.json": enMessages,
	}}
	raw := manifest.RawManifest{
		"name":        "__MSG_appName__",
		"description": "App: __MSG_appDesc__",
		"action":      map[string]any{"default_title": "__MSG_appName__"},
		"tags":        []any{"__MSG_appName__", "static"},
		"version":     "1.0",
	}

	out := NewCatalog(resources).Localize(raw, "en")

	if out["name"] != "Notes" {
		t.Errorf("name = %v, want Notes", out["name"])
	}
	if out["description"] != "App: Takes notes" {
		t.Errorf("description = %v", out["description"])
	}
	action := out["action"].(map[string]any)
	if action["default_title"] != "Notes" {
		t.Errorf("nested default_title = %v", action["default_title"])
	}
	tags := out["tags"].([]any)
	if tags[0] != "Notes" || tags[1] != "static" {
		t.Errorf("tags = %v", tags)
	}
	if out["version"] != "1.0" {
		t.Errorf("version = %v", out["version"])
	}

	// The input mapping is never mutated.
	if raw["name"] != "__MSG_appName__" {
		t.Error("Localize mutated the input mapping")
	}
}

func TestCatalogLocalizeCaseInsensitiveNames(t *testing.T) {
	t.Parallel()

	resources := &manifesttest.Resources{Files: map[string]string{
		"_locales/en/messages.json": enMessages,
	}}
	raw := manifest.RawManifest{"name": "__MSG_APPNAME__"}

	out := NewCatalog(resources).Localize(raw, "en")
	if out["name"] != "Notes" {
		t.Errorf("name = %v, want case-insensitive match", out["name"])
	}
}

func TestCatalogLocalizeRegionFallback(t *testing.T) {
	t.Parallel()

	resources := &manifesttest.Resources{Files: map[string]string{
		"_locales/en/messages.json": enMessages,
	}}
	raw := manifest.RawManifest{"name": "__MSG_appName__"}

	// No en_US catalog exists; the bare language catalog is used.
	out := NewCatalog(resources).Localize(raw, "en_US")
	if out["name"] != "Notes" {
		t.Errorf("name = %v, want Notes via language fallback", out["name"])
	}
}

func TestCatalogLocalizeMissingCatalog(t *testing.T) {
	t.Parallel()

	resources := &manifesttest.Resources{Files: map[string]string{}}
	raw := manifest.RawManifest{"name": "__MSG_appName__"}

	out := NewCatalog(resources).Localize(raw, "fr")
	if out["name"] != "__MSG_appName__" {
		t.Errorf("name = %v, want untouched placeholder", out["name"])
	}
}

func TestCatalogLocalizeUnknownMessage(t *testing.T) {
	t.Parallel()

	resources := &manifesttest.Resources{Files: map[string]string{
		"_locales/en/messages.json": enMessages,
	}}
	raw := manifest.RawManifest{"name": "__MSG_missing__ __MSG_appName__"}

	out := NewCatalog(resources).Localize(raw, "en")
	if out["name"] != "__MSG_missing__ Notes" {
		t.Errorf("name = %v, want unknown markers preserved", out["name"])
	}
}
