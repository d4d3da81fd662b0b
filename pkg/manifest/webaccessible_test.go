// SPDX-License-Identifier: MPL-2.0

package manifest_test

import (
	"reflect"
	"testing"

	"webextc/pkg/manifest"
)

func TestWebAccessibleResourcesV2FlatList(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 2,
		"web_accessible_resources": ["images/*.png", "fonts/ui.woff2"]
	}`)

	entries := d.WebAccessibleResources()
	if len(entries) != 1 {
		t.Fatalf("entries = %+v, want one unscoped entry", entries)
	}
	if !reflect.DeepEqual(entries[0].Resources, []string{"images/*.png", "fonts/ui.woff2"}) {
		t.Errorf("Resources = %v", entries[0].Resources)
	}
	if len(entries[0].MatchPatterns) != 0 || len(entries[0].ExtensionIDs) != 0 {
		t.Errorf("v2 entry should carry no scoping: %+v", entries[0])
	}
}

func TestWebAccessibleResourcesV3Entries(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 3,
		"web_accessible_resources": [
			{"resources": ["images/*.png"], "matches": ["https://example.com/*"]},
			{"resources": ["api.js"], "extension_ids": ["abcdefghijklmnop"]}
		]
	}`)

	entries := d.WebAccessibleResources()
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want 2", entries)
	}
	if got := patternStrings(entries[0].MatchPatterns); !reflect.DeepEqual(got, []string{"https://example.com/*"}) {
		t.Errorf("entries[0].MatchPatterns = %v", got)
	}
	if !reflect.DeepEqual(entries[1].ExtensionIDs, []string{"abcdefghijklmnop"}) {
		t.Errorf("entries[1].ExtensionIDs = %v", entries[1].ExtensionIDs)
	}
}

func TestWebAccessibleResourcesV3Validation(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{name: "not an object", entry: `"images/*.png"`},
		{name: "no resources", entry: `{"matches": ["https://example.com/*"]}`},
		{name: "no scoping", entry: `{"resources": ["images/*.png"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDescriptor(t, `{
				"manifest_version": 3,
				"web_accessible_resources": [`+tt.entry+`]
			}`)

			if entries := d.WebAccessibleResources(); len(entries) != 0 {
				t.Errorf("entries = %+v, want the entry rejected", entries)
			}
			if got := countKind(d.Ledger().All(), manifest.InvalidWebAccessibleResources); got != 1 {
				t.Errorf("InvalidWebAccessibleResources count = %d, want 1", got)
			}
		})
	}
}

func TestWebAccessibleResourcesWrongTopLevelType(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 2,
		"web_accessible_resources": {"resources": ["images/*.png"]}
	}`)

	if entries := d.WebAccessibleResources(); entries != nil {
		t.Errorf("entries = %+v, want nil", entries)
	}
	if got := countKind(d.Ledger().All(), manifest.InvalidWebAccessibleResources); got != 1 {
		t.Errorf("InvalidWebAccessibleResources count = %d, want 1", got)
	}
}
