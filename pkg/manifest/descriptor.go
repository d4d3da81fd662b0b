// SPDX-License-Identifier: MPL-2.0

package manifest

import "strings"

// Supported manifest schema generations.
const (
	// SchemaVersion2 is the second extension-manifest generation.
	SchemaVersion2 = 2
	// SchemaVersion3 is the third extension-manifest generation.
	SchemaVersion3 = 3
)

// DefaultContentSecurityPolicy applies when the manifest supplies no usable
// content_security_policy value.
const DefaultContentSecurityPolicy = "script-src 'self'; object-src 'self'"

// Platform is the host platform profile the extension resolves against.
type Platform string

const (
	// PlatformDesktop allows persistent background documents (schema v2 only).
	PlatformDesktop Platform = "desktop"
	// PlatformMobile is a restricted platform: persistent backgrounds are
	// always an error there.
	PlatformMobile Platform = "mobile"
)

// AllowsPersistentBackground reports whether persistent background documents
// are permitted on this platform at all.
func (p Platform) AllowsPersistentBackground() bool { return p != PlatformMobile }

// resolved is the explicit memoization cell backing a lazily computed
// descriptor field: not yet resolved, or resolved with a final value.
type resolved[T any] struct {
	done  bool
	value T
}

// get returns the memoized value, computing it on first access.
func (r *resolved[T]) get(compute func() T) T {
	if !r.done {
		r.value = compute()
		r.done = true
	}
	return r.value
}

// Descriptor is the resolved extension. Fields are populated on demand by
// lazy, memoized resolvers and are final for the descriptor's lifetime; a
// resolver is never re-run and never rolled back.
//
// A Descriptor is not safe for concurrent use. Resolution is single-threaded
// and synchronous by design: confine each instance to one logical owner, or
// force full resolution once (Errors does this) before fanning out readers.
type Descriptor struct {
	raw    RawManifest
	parsed bool
	ledger *Ledger

	patterns  PatternEngine
	resources ResourceProvider
	images    ImageProvider
	platform  Platform
	scales    []float64
	scheme    func() ColorScheme

	schemaVersion  resolved[int]
	display        resolved[displayStrings]
	action         resolved[actionConfig]
	background     resolved[*BackgroundContent]
	commands       resolved[[]Command]
	contentScripts resolved[[]InjectedContentRule]
	permissions    resolved[permissionSets]
	connectable    resolved[ExternallyConnectable]
	declarative    resolved[[]DeclarativeNetRequestRuleset]
	webAccessible  resolved[[]WebAccessibleResourceEntry]
	csp            resolved[string]

	// Icon resolutions are cached per point size and invalidated wholesale
	// when the display scale set changes.
	iconCache       map[float64]Image
	actionIconCache map[float64]Image
}

// Option configures a Descriptor at construction time.
type Option func(*Descriptor)

// WithPatternEngine injects the match-pattern compiler. Without one, every
// pattern string is treated as unparseable.
func WithPatternEngine(engine PatternEngine) Option {
	return func(d *Descriptor) { d.patterns = engine }
}

// WithResourceProvider injects the bundled-resource byte source.
func WithResourceProvider(provider ResourceProvider) Option {
	return func(d *Descriptor) { d.resources = provider }
}

// WithImageProvider injects the icon decoder/composer.
func WithImageProvider(provider ImageProvider) Option {
	return func(d *Descriptor) { d.images = provider }
}

// WithPlatform selects the host platform profile. Defaults to desktop.
func WithPlatform(platform Platform) Option {
	return func(d *Descriptor) { d.platform = platform }
}

// WithDisplayScales sets the initial display scale factors used for icon
// resolution. Defaults to 1x and 2x.
func WithDisplayScales(scales ...float64) Option {
	return func(d *Descriptor) { d.scales = normalizeScales(scales) }
}

// WithColorSchemeQuery supplies the render-time appearance query used by
// dynamic (light/dark) icons. Nil means always light.
func WithColorSchemeQuery(query func() ColorScheme) Option {
	return func(d *Descriptor) { d.scheme = query }
}

// New parses manifest.json bytes and returns a descriptor. A JSON parse
// failure is recorded as InvalidManifest and makes every accessor return its
// empty value; it never fails construction.
//
// When a Localizer is needed, localize the raw mapping first and use
// NewFromRaw: localization is a pre-resolution substitution pass.
func New(data []byte, opts ...Option) *Descriptor {
	d := newDescriptor(opts)
	raw, err := ParseRawManifest(data)
	if err != nil {
		d.ledger.RecordCause(InvalidManifest, "failed to parse manifest.json", err)
		return d
	}
	d.raw = raw
	d.parsed = true
	return d
}

// NewFromRaw builds a descriptor from an already-parsed (and, if applicable,
// already-localized) manifest mapping. A nil mapping is recorded as
// InvalidManifest.
func NewFromRaw(raw RawManifest, opts ...Option) *Descriptor {
	d := newDescriptor(opts)
	if raw == nil {
		d.ledger.Record(InvalidManifest, "manifest mapping is nil")
		return d
	}
	d.raw = raw
	d.parsed = true
	return d
}

func newDescriptor(opts []Option) *Descriptor {
	d := &Descriptor{
		ledger:   &Ledger{},
		platform: PlatformDesktop,
		scales:   []float64{1, 2},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parsed reports whether manifest.json parsed as a JSON object. When false,
// every resolver is gated off and accessors return empty values.
func (d *Descriptor) Parsed() bool { return d.parsed }

// Ledger exposes the error ledger without forcing resolution.
func (d *Descriptor) Ledger() *Ledger { return d.ledger }

// Errors forces full resolution of every field and returns all recorded
// errors in first-seen order, so that every validation problem is
// discoverable from one call.
func (d *Descriptor) Errors() []*ErrorRecord {
	if d.parsed {
		d.SchemaVersion()
		d.Name()
		d.ShortName()
		d.Version()
		d.VersionDisplay()
		d.Description()
		d.DefaultLocale()
		d.ActionLabel()
		d.BackgroundContent()
		d.Commands()
		d.ContentScripts()
		d.RequestedPermissions()
		d.OptionalPermissions()
		d.ExternallyConnectable()
		d.DeclarativeNetRequestRulesets()
		d.WebAccessibleResources()
		d.ContentSecurityPolicy()
		d.Icon(iconProbeSize)
		d.ActionIcon(iconProbeSize)
	}
	return d.ledger.All()
}

// iconProbeSize is the point size Errors uses to force icon resolution.
const iconProbeSize = 16

// SchemaVersion returns the manifest schema generation (2 or 3). An
// unsupported or missing manifest_version records InvalidManifestVersion and
// resolves to version 2 field routing.
func (d *Descriptor) SchemaVersion() int {
	return d.schemaVersion.get(func() int {
		if !d.parsed {
			return 0
		}
		v, ok := d.raw["manifest_version"]
		if !ok {
			d.ledger.Record(InvalidManifestVersion, "manifest_version is missing")
			return SchemaVersion2
		}
		n, ok := asInteger(v)
		if !ok || (n != SchemaVersion2 && n != SchemaVersion3) {
			d.ledger.Recordf(InvalidManifestVersion, "manifest_version %v is not a supported version (2 or 3)", v)
			return SchemaVersion2
		}
		return n
	})
}

// UsesManifestV3 reports whether version-3 field routing applies.
func (d *Descriptor) UsesManifestV3() bool {
	return d.parsed && d.SchemaVersion() >= SchemaVersion3
}

// displayStrings holds the resolved human-readable identity fields.
type displayStrings struct {
	name           string
	shortName      string
	version        string
	versionDisplay string
	description    string
	defaultLocale  string
}

// Name returns the extension's display name, or "" when missing/invalid.
func (d *Descriptor) Name() string { return d.displayStrings().name }

// ShortName returns short_name, falling back to the display name.
func (d *Descriptor) ShortName() string { return d.displayStrings().shortName }

// Version returns the manifest version string, or "" when invalid.
func (d *Descriptor) Version() string { return d.displayStrings().version }

// VersionDisplay returns version_name, falling back to the version string.
func (d *Descriptor) VersionDisplay() string { return d.displayStrings().versionDisplay }

// Description returns the extension description, or "".
func (d *Descriptor) Description() string { return d.displayStrings().description }

// DefaultLocale returns the declared default_locale, or "".
func (d *Descriptor) DefaultLocale() string { return d.displayStrings().defaultLocale }

func (d *Descriptor) displayStrings() displayStrings {
	return d.display.get(func() displayStrings {
		var out displayStrings
		if !d.parsed {
			return out
		}

		if name, ok := d.raw.stringValue("name"); ok && strings.TrimSpace(name) != "" {
			out.name = name
		} else {
			d.ledger.Record(InvalidName, "name is missing or empty")
		}

		out.shortName = out.name
		if v, ok := d.raw["short_name"]; ok {
			if s, ok := asString(v); ok && strings.TrimSpace(s) != "" {
				out.shortName = s
			} else {
				d.ledger.Record(InvalidShortName, "short_name must be a non-empty string")
			}
		}

		if version, ok := d.raw.stringValue("version"); ok && isValidVersionString(version) {
			out.version = version
		} else {
			d.ledger.Record(InvalidVersion, "version is missing or not 1-4 dot-separated integers")
		}

		out.versionDisplay = out.version
		if v, ok := d.raw["version_name"]; ok {
			if s, ok := asString(v); ok && s != "" {
				out.versionDisplay = s
			} else {
				d.ledger.Record(InvalidVersion, "version_name must be a non-empty string")
			}
		}

		if v, ok := d.raw["description"]; ok {
			if s, ok := asString(v); ok {
				out.description = s
			} else {
				d.ledger.Record(InvalidDescription, "description must be a string")
			}
		}

		if v, ok := d.raw["default_locale"]; ok {
			if s, ok := asString(v); ok && isValidLocaleString(s) {
				out.defaultLocale = s
			} else {
				d.ledger.Record(InvalidDefaultLocale, "default_locale must be a locale code like \"en\" or \"en_US\"")
			}
		}

		return out
	})
}

// isValidVersionString accepts 1 to 4 dot-separated non-negative integer
// components, each at most 5 digits.
func isValidVersionString(version string) bool {
	parts := strings.Split(version, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return false
	}
	for _, part := range parts {
		if part == "" || len(part) > 5 {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// isValidLocaleString accepts "xx" / "xxx" language codes with an optional
// "_RR" region suffix.
func isValidLocaleString(locale string) bool {
	lang, region, hasRegion := strings.Cut(locale, "_")
	if len(lang) < 2 || len(lang) > 3 {
		return false
	}
	for _, r := range lang {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	if !hasRegion {
		return true
	}
	if len(region) != 2 {
		return false
	}
	for _, r := range region {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ContentSecurityPolicy returns the effective extension-pages CSP. Schema v2
// reads the content_security_policy string; v3 reads the object's
// extension_pages key. Wrong types record InvalidContentSecurityPolicy and
// fall back to DefaultContentSecurityPolicy.
func (d *Descriptor) ContentSecurityPolicy() string {
	return d.csp.get(func() string {
		if !d.parsed {
			return ""
		}
		v, ok := d.raw["content_security_policy"]
		if !ok {
			return DefaultContentSecurityPolicy
		}
		if d.UsesManifestV3() {
			obj, ok := asObject(v)
			if !ok {
				d.ledger.Record(InvalidContentSecurityPolicy, "content_security_policy must be an object in manifest v3")
				return DefaultContentSecurityPolicy
			}
			pages, ok := obj["extension_pages"]
			if !ok {
				return DefaultContentSecurityPolicy
			}
			s, ok := asString(pages)
			if !ok || strings.TrimSpace(s) == "" {
				d.ledger.Record(InvalidContentSecurityPolicy, "content_security_policy.extension_pages must be a non-empty string")
				return DefaultContentSecurityPolicy
			}
			return s
		}
		s, ok := asString(v)
		if !ok || strings.TrimSpace(s) == "" {
			d.ledger.Record(InvalidContentSecurityPolicy, "content_security_policy must be a non-empty string in manifest v2")
			return DefaultContentSecurityPolicy
		}
		return s
	})
}

// SetDisplayScales replaces the active display scale set and invalidates all
// cached icon resolutions.
func (d *Descriptor) SetDisplayScales(scales ...float64) {
	d.scales = normalizeScales(scales)
	d.iconCache = nil
	d.actionIconCache = nil
}

// DisplayScales returns the active display scale factors.
func (d *Descriptor) DisplayScales() []float64 {
	out := make([]float64, len(d.scales))
	copy(out, d.scales)
	return out
}

func normalizeScales(scales []float64) []float64 {
	var out []float64
	for _, s := range scales {
		if s > 0 {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = []float64{1}
	}
	return out
}

func (d *Descriptor) parsePattern(s string) MatchPattern {
	if d.patterns == nil || s == "" {
		return nil
	}
	p, err := d.patterns.Parse(s)
	if err != nil {
		return nil
	}
	return p
}
