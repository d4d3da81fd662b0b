// SPDX-License-Identifier: MPL-2.0

package manifest_test

import (
	"testing"

	"webextc/internal/testutil/manifesttest"
	"webextc/pkg/manifest"
)

// newTestDescriptor builds a descriptor over the fake pattern engine. Extra
// options stack on top.
func newTestDescriptor(t *testing.T, manifestJSON string, opts ...manifest.Option) *manifest.Descriptor {
	t.Helper()
	all := append([]manifest.Option{manifest.WithPatternEngine(manifesttest.Engine{})}, opts...)
	return manifest.New([]byte(manifestJSON), all...)
}

func countKind(records []*manifest.ErrorRecord, kind manifest.ErrorKind) int {
	n := 0
	for _, record := range records {
		if record.Kind == kind {
			n++
		}
	}
	return n
}

func TestUnparseableManifestGatesEverything(t *testing.T) {
	d := manifest.New([]byte(`{"name": "Broken`))

	if d.Parsed() {
		t.Fatal("Parsed() = true for malformed JSON")
	}
	if got := d.Name(); got != "" {
		t.Errorf("Name() = %q, want empty", got)
	}
	if d.HasBackgroundContent() {
		t.Error("HasBackgroundContent() = true")
	}
	if got := d.Commands(); got != nil {
		t.Errorf("Commands() = %v, want nil", got)
	}

	errs := d.Errors()
	if len(errs) != 1 || errs[0].Kind != manifest.InvalidManifest {
		t.Fatalf("Errors() = %v, want a single InvalidManifest", errs)
	}
}

func TestNullManifestGatesEverything(t *testing.T) {
	// A bare null root is valid JSON but not an object; it must gate
	// resolution entirely rather than surface as per-field errors.
	d := manifest.New([]byte(`null`))

	if d.Parsed() {
		t.Fatal("Parsed() = true for a null manifest root")
	}
	errs := d.Errors()
	if len(errs) != 1 || errs[0].Kind != manifest.InvalidManifest {
		t.Fatalf("Errors() = %v, want a single InvalidManifest", errs)
	}
}

func TestSchemaVersion(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		wantVersion int
		wantV3      bool
		wantErrors  int
	}{
		{name: "v3", json: `{"manifest_version": 3}`, wantVersion: 3, wantV3: true},
		{name: "v2", json: `{"manifest_version": 2}`, wantVersion: 2},
		{name: "missing", json: `{}`, wantVersion: 2, wantErrors: 1},
		{name: "unsupported", json: `{"manifest_version": 4}`, wantVersion: 2, wantErrors: 1},
		{name: "string", json: `{"manifest_version": "3"}`, wantVersion: 2, wantErrors: 1},
		{name: "fractional", json: `{"manifest_version": 2.5}`, wantVersion: 2, wantErrors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDescriptor(t, tt.json)
			if got := d.SchemaVersion(); got != tt.wantVersion {
				t.Errorf("SchemaVersion() = %d, want %d", got, tt.wantVersion)
			}
			if got := d.UsesManifestV3(); got != tt.wantV3 {
				t.Errorf("UsesManifestV3() = %v, want %v", got, tt.wantV3)
			}
			if got := countKind(d.Ledger().All(), manifest.InvalidManifestVersion); got != tt.wantErrors {
				t.Errorf("InvalidManifestVersion count = %d, want %d", got, tt.wantErrors)
			}
		})
	}
}

func TestDisplayStringFallbacks(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 3,
		"name": "Weather Glance",
		"version": "1.4.0",
		"version_name": "1.4 beta",
		"description": "Forecast at a glance.",
		"default_locale": "en_US"
	}`)

	if got := d.Name(); got != "Weather Glance" {
		t.Errorf("Name() = %q", got)
	}
	if got := d.ShortName(); got != "Weather Glance" {
		t.Errorf("ShortName() = %q, want fallback to name", got)
	}
	if got := d.Version(); got != "1.4.0" {
		t.Errorf("Version() = %q", got)
	}
	if got := d.VersionDisplay(); got != "1.4 beta" {
		t.Errorf("VersionDisplay() = %q", got)
	}
	if got := d.DefaultLocale(); got != "en_US" {
		t.Errorf("DefaultLocale() = %q", got)
	}
	if got := len(d.Errors()); got != 0 {
		t.Errorf("Errors() has %d records, want 0: %v", got, d.Errors())
	}
}

func TestDisplayStringValidation(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 3,
		"name": "  ",
		"short_name": 7,
		"version": "1.2.3.4.5",
		"default_locale": "english"
	}`)

	errs := d.Errors()
	for _, kind := range []manifest.ErrorKind{
		manifest.InvalidName,
		manifest.InvalidShortName,
		manifest.InvalidVersion,
		manifest.InvalidDefaultLocale,
	} {
		if countKind(errs, kind) != 1 {
			t.Errorf("want exactly one %s, got %d", kind, countKind(errs, kind))
		}
	}
	if got := d.Name(); got != "" {
		t.Errorf("Name() = %q, want empty", got)
	}
	if got := d.VersionDisplay(); got != "" {
		t.Errorf("VersionDisplay() = %q, want empty via version fallback", got)
	}
}

func TestResolutionIsFinal(t *testing.T) {
	raw := manifest.RawManifest{"manifest_version": 3.0, "version": "1.0"}
	d := manifest.NewFromRaw(raw)

	if got := d.Name(); got != "" {
		t.Fatalf("Name() = %q before mutation", got)
	}
	before := d.Ledger().Len()

	// Mutating the mapping after resolution must not change anything: the
	// resolver already ran and its result is final.
	raw["name"] = "Late Arrival"
	if got := d.Name(); got != "" {
		t.Errorf("Name() = %q after mutation, want the memoized empty value", got)
	}
	if got := d.Ledger().Len(); got != before {
		t.Errorf("ledger grew from %d to %d on re-access", before, got)
	}
}

func TestContentSecurityPolicy(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		want       string
		wantErrors int
	}{
		{
			name: "v2 string",
			json: `{"manifest_version": 2, "content_security_policy": "script-src 'self' blob:"}`,
			want: "script-src 'self' blob:",
		},
		{
			name: "v2 absent",
			json: `{"manifest_version": 2}`,
			want: manifest.DefaultContentSecurityPolicy,
		},
		{
			name:       "v2 wrong type",
			json:       `{"manifest_version": 2, "content_security_policy": {"extension_pages": "script-src 'self'"}}`,
			want:       manifest.DefaultContentSecurityPolicy,
			wantErrors: 1,
		},
		{
			name: "v3 object",
			json: `{"manifest_version": 3, "content_security_policy": {"extension_pages": "script-src 'self' 'wasm-unsafe-eval'"}}`,
			want: "script-src 'self' 'wasm-unsafe-eval'",
		},
		{
			name:       "v3 string",
			json:       `{"manifest_version": 3, "content_security_policy": "script-src 'self'"}`,
			want:       manifest.DefaultContentSecurityPolicy,
			wantErrors: 1,
		},
		{
			name: "v3 object without extension_pages",
			json: `{"manifest_version": 3, "content_security_policy": {}}`,
			want: manifest.DefaultContentSecurityPolicy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDescriptor(t, tt.json)
			if got := d.ContentSecurityPolicy(); got != tt.want {
				t.Errorf("ContentSecurityPolicy() = %q, want %q", got, tt.want)
			}
			if got := countKind(d.Ledger().All(), manifest.InvalidContentSecurityPolicy); got != tt.wantErrors {
				t.Errorf("InvalidContentSecurityPolicy count = %d, want %d", got, tt.wantErrors)
			}
		})
	}
}

func TestErrorsForcesEveryResolver(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 4,
		"background": {"persistent": true},
		"commands": "nope",
		"content_scripts": [{}],
		"permissions": "nope",
		"declarative_net_request": {}
	}`)

	errs := d.Errors()
	for _, kind := range []manifest.ErrorKind{
		manifest.InvalidManifestVersion,
		manifest.InvalidName,
		manifest.InvalidVersion,
		manifest.InvalidBackgroundContent,
		manifest.InvalidCommands,
		manifest.InvalidContentScripts,
		manifest.InvalidPermissions,
		manifest.InvalidDeclarativeNetRequest,
	} {
		if countKind(errs, kind) == 0 {
			t.Errorf("Errors() is missing kind %s", kind)
		}
	}

	// A second call must not re-run resolvers or grow the ledger.
	if again := d.Errors(); len(again) != len(errs) {
		t.Errorf("Errors() grew from %d to %d records", len(errs), len(again))
	}
}
