// SPDX-License-Identifier: MPL-2.0

package manifest

// WebAccessibleResourceEntry exposes bundled resources to web pages. Schema
// v2 manifests carry a flat path list (one entry, no scoping); schema v3
// entries scope paths to match patterns and/or extension ids.
type WebAccessibleResourceEntry struct {
	// Resources are the exposed resource path globs.
	Resources []string
	// MatchPatterns scope which pages may load the resources (v3).
	MatchPatterns []MatchPattern
	// ExtensionIDs scope which extensions may load the resources (v3).
	ExtensionIDs []string
}

// WebAccessibleResources resolves the web_accessible_resources key. Entries
// failing structural validation record InvalidWebAccessibleResources and are
// skipped; surviving entries keep manifest order.
func (d *Descriptor) WebAccessibleResources() []WebAccessibleResourceEntry {
	return d.webAccessible.get(d.resolveWebAccessibleResources)
}

func (d *Descriptor) resolveWebAccessibleResources() []WebAccessibleResourceEntry {
	if !d.parsed {
		return nil
	}
	v, ok := d.raw["web_accessible_resources"]
	if !ok {
		return nil
	}

	if !d.UsesManifestV3() {
		paths, ok := stringList(v)
		if !ok {
			d.ledger.Record(InvalidWebAccessibleResources, "web_accessible_resources must be an array of strings in manifest v2")
			return nil
		}
		if len(paths) == 0 {
			return nil
		}
		return []WebAccessibleResourceEntry{{Resources: paths}}
	}

	entries, ok := asArray(v)
	if !ok {
		d.ledger.Record(InvalidWebAccessibleResources, "web_accessible_resources must be an array in manifest v3")
		return nil
	}

	var out []WebAccessibleResourceEntry
	for i, item := range entries {
		obj, ok := asObject(item)
		if !ok {
			d.ledger.Recordf(InvalidWebAccessibleResources, "web_accessible_resources[%d] must be an object", i)
			continue
		}

		resources, _ := stringList(obj["resources"])
		if len(resources) == 0 {
			d.ledger.Recordf(InvalidWebAccessibleResources, "web_accessible_resources[%d] needs a non-empty resources array", i)
			continue
		}

		entry := WebAccessibleResourceEntry{Resources: resources}
		if matches, ok := stringList(obj["matches"]); ok {
			var set PatternSet
			for _, match := range matches {
				if pattern := d.parsePattern(match); pattern != nil && pattern.IsSupported() {
					set.Add(pattern)
				}
			}
			entry.MatchPatterns = set.Patterns()
		}
		entry.ExtensionIDs, _ = stringList(obj["extension_ids"])

		if len(entry.MatchPatterns) == 0 && len(entry.ExtensionIDs) == 0 {
			d.ledger.Recordf(InvalidWebAccessibleResources, "web_accessible_resources[%d] needs matches or extension_ids", i)
			continue
		}
		out = append(out, entry)
	}
	return out
}
