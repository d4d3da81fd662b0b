// SPDX-License-Identifier: MPL-2.0

package manifest

// supportedPermissions is the fixed set of capability permissions the
// resolver recognizes. Entries outside this set are silently ignored, so a
// manifest written for a newer engine still resolves.
var supportedPermissions = map[string]bool{
	"activeTab": true, "alarms": true, "clipboardWrite": true,
	"contextMenus": true, "cookies": true,
	"declarativeNetRequest": true, "declarativeNetRequestFeedback": true,
	"declarativeNetRequestWithHostAccess": true,
	"menus": true, "nativeMessaging": true, "notifications": true,
	"scripting": true, "sidePanel": true, "storage": true, "tabs": true,
	"unlimitedStorage": true, "webNavigation": true,
	WebRequestPermission: true,
}

// IsSupportedPermission reports whether name is a recognized capability
// permission.
func IsSupportedPermission(name string) bool {
	return supportedPermissions[name]
}

// permissionSets is the resolved permission model: capability permissions and
// host match patterns, each split into required and optional halves. The
// optional halves exclude anything already required.
type permissionSets struct {
	requested        *stringSet
	optional         *stringSet
	requestedPattern *PatternSet
	optionalPattern  *PatternSet
}

// RequestedPermissions returns the required capability permissions in
// insertion order.
func (d *Descriptor) RequestedPermissions() []string {
	return d.permissionModel().requested.values()
}

// OptionalPermissions returns the optional capability permissions, excluding
// anything already requested.
func (d *Descriptor) OptionalPermissions() []string {
	return d.permissionModel().optional.values()
}

// RequestedPermissionMatchPatterns returns the required host patterns.
func (d *Descriptor) RequestedPermissionMatchPatterns() []MatchPattern {
	return d.permissionModel().requestedPattern.Patterns()
}

// OptionalPermissionMatchPatterns returns the optional host patterns,
// excluding anything already requested.
func (d *Descriptor) OptionalPermissionMatchPatterns() []MatchPattern {
	return d.permissionModel().optionalPattern.Patterns()
}

// HasRequestedPermission reports whether the named capability permission is
// required by the manifest.
func (d *Descriptor) HasRequestedPermission(name string) bool {
	return d.hasRequestedPermission(name)
}

func (d *Descriptor) hasRequestedPermission(name string) bool {
	return d.permissionModel().requested.contains(name)
}

// AllRequestedMatchPatterns returns the union, duplicates collapsed, of the
// permission host patterns, the externally-connectable patterns, and every
// content-script include pattern.
func (d *Descriptor) AllRequestedMatchPatterns() []MatchPattern {
	var union PatternSet
	union.AddAll(d.permissionModel().requestedPattern)
	for _, pattern := range d.ExternallyConnectable().MatchPatterns {
		union.Add(pattern)
	}
	for _, rule := range d.ContentScripts() {
		union.AddAll(rule.IncludePatterns)
	}
	return union.Patterns()
}

func (d *Descriptor) permissionModel() permissionSets {
	return d.permissions.get(func() permissionSets {
		model := permissionSets{
			requested:        &stringSet{},
			optional:         &stringSet{},
			requestedPattern: &PatternSet{},
			optionalPattern:  &PatternSet{},
		}
		if !d.parsed {
			return model
		}

		d.splitPermissionEntries("permissions", model.requested, model.requestedPattern, nil, nil)
		d.splitPermissionEntries("optional_permissions", model.optional, model.optionalPattern, model.requested, model.requestedPattern)

		if d.UsesManifestV3() {
			d.collectHostPatterns("host_permissions", model.requestedPattern, nil)
			d.collectHostPatterns("optional_host_permissions", model.optionalPattern, model.requestedPattern)
		}

		return model
	})
}

// splitPermissionEntries resolves one permissions array. For schema v2,
// entries that parse as supported match patterns become host permissions;
// everything else is checked against the supported capability set. For
// schema v3, entries are capability-only. Entries already present in the
// exclusion sets (the required halves, when resolving optional arrays) are
// skipped so the optional sets stay disjoint.
func (d *Descriptor) splitPermissionEntries(key string, capabilities *stringSet, patterns *PatternSet, excludeCapabilities *stringSet, excludePatterns *PatternSet) {
	v, ok := d.raw[key]
	if !ok {
		return
	}
	entries, ok := stringList(v)
	if !ok {
		d.ledger.Recordf(InvalidPermissions, "%s must be an array of strings", key)
		return
	}
	for _, entry := range entries {
		if IsSupportedPermission(entry) {
			if excludeCapabilities != nil && excludeCapabilities.contains(entry) {
				continue
			}
			capabilities.add(entry)
			continue
		}
		if !d.UsesManifestV3() {
			if pattern := d.parsePattern(entry); pattern != nil && pattern.IsSupported() {
				if excludePatterns != nil && excludePatterns.Contains(pattern) {
					continue
				}
				patterns.Add(pattern)
				continue
			}
		}
		// Unsupported entries are ignored without an error.
	}
}

// collectHostPatterns resolves a v3 host_permissions array into patterns.
func (d *Descriptor) collectHostPatterns(key string, patterns *PatternSet, exclude *PatternSet) {
	v, ok := d.raw[key]
	if !ok {
		return
	}
	entries, ok := stringList(v)
	if !ok {
		d.ledger.Recordf(InvalidPermissions, "%s must be an array of strings", key)
		return
	}
	for _, entry := range entries {
		pattern := d.parsePattern(entry)
		if pattern == nil || !pattern.IsSupported() {
			continue
		}
		if exclude != nil && exclude.Contains(pattern) {
			continue
		}
		patterns.Add(pattern)
	}
}

// ExternallyConnectable is the resolved externally_connectable configuration.
type ExternallyConnectable struct {
	// MatchPatterns scope which web pages may connect. Patterns matching all
	// URLs or a bare public suffix are rejected during resolution.
	MatchPatterns []MatchPattern
	// ExtensionIDs lists extensions allowed to connect; "*" means any.
	ExtensionIDs []string
}

// ExternallyConnectable resolves the externally_connectable key. Absent key
// yields an empty value with no error.
func (d *Descriptor) ExternallyConnectable() ExternallyConnectable {
	return d.connectable.get(func() ExternallyConnectable {
		var out ExternallyConnectable
		if !d.parsed {
			return out
		}
		obj, ok := d.raw.objectValue("externally_connectable")
		if !ok {
			if d.raw.has("externally_connectable") {
				d.ledger.Record(InvalidExternallyConnectable, "externally_connectable must be an object")
			}
			return out
		}

		if matches, ok := stringList(obj["matches"]); ok {
			var set PatternSet
			for _, match := range matches {
				pattern := d.parsePattern(match)
				if pattern == nil || !pattern.IsSupported() {
					d.ledger.Recordf(InvalidExternallyConnectable, "externally_connectable pattern %q is not supported", match)
					continue
				}
				if pattern.MatchesAllURLs() {
					d.ledger.Recordf(InvalidExternallyConnectable, "externally_connectable pattern %q must name specific hosts", match)
					continue
				}
				if pattern.HostIsPublicSuffix() {
					d.ledger.Recordf(InvalidExternallyConnectable, "externally_connectable pattern %q names a bare public suffix", match)
					continue
				}
				set.Add(pattern)
			}
			out.MatchPatterns = set.Patterns()
		} else if obj["matches"] != nil {
			d.ledger.Record(InvalidExternallyConnectable, "externally_connectable.matches must be an array of strings")
		}

		if ids, ok := stringList(obj["ids"]); ok {
			out.ExtensionIDs = ids
		} else if obj["ids"] != nil {
			d.ledger.Record(InvalidExternallyConnectable, "externally_connectable.ids must be an array of strings")
		}

		return out
	})
}

// stringSet is an insertion-ordered set of strings.
type stringSet struct {
	order []string
	seen  map[string]struct{}
}

func (s *stringSet) add(value string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[value]; ok {
		return
	}
	s.seen[value] = struct{}{}
	s.order = append(s.order, value)
}

func (s *stringSet) contains(value string) bool {
	if s == nil || s.seen == nil {
		return false
	}
	_, ok := s.seen[value]
	return ok
}

func (s *stringSet) values() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
