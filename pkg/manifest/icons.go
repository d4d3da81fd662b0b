// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"math"
	"sort"
	"strconv"
)

// IconSizeAny is the sentinel size key that wins over every numeric size.
const IconSizeAny = "any"

// IconTable maps pixel-size keys (or IconSizeAny) to resource paths.
type IconTable map[string]string

// IconVariant is an icon table restricted to a set of color schemes. An
// empty scheme list matches every scheme.
type IconVariant struct {
	// Table holds the variant's size-to-path entries.
	Table IconTable
	// Schemes is the subset of color schemes this variant serves.
	Schemes []ColorScheme
}

// matchesScheme reports whether the variant serves the given scheme.
func (v IconVariant) matchesScheme(scheme ColorScheme) bool {
	if len(v.Schemes) == 0 {
		return true
	}
	for _, s := range v.Schemes {
		if s == scheme {
			return true
		}
	}
	return false
}

// bestIconPath selects the path for a requested pixel size: the IconSizeAny
// sentinel wins outright, then an exact numeric match, then the smallest
// numeric key that is at least the requested size. An undersized icon is
// never silently picked.
func bestIconPath(table IconTable, pixelSize int) (string, bool) {
	if path, ok := table[IconSizeAny]; ok && path != "" {
		return path, true
	}

	type sizedEntry struct {
		size int
		path string
	}
	var entries []sizedEntry
	for key, path := range table {
		if path == "" {
			continue
		}
		size, err := strconv.Atoi(key)
		if err != nil || size <= 0 {
			continue
		}
		if size == pixelSize {
			return path, true
		}
		entries = append(entries, sizedEntry{size: size, path: path})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].size < entries[j].size })
	for _, entry := range entries {
		if entry.size >= pixelSize {
			return entry.path, true
		}
	}
	return "", false
}

// Icon resolves the extension's primary icon at the given point size,
// resolving once per active display scale and composing the decoded
// representations. Results are cached per point size until the display scale
// set changes. Returns nil when nothing resolves.
func (d *Descriptor) Icon(pointSize float64) Image {
	if cached, ok := d.iconCache[pointSize]; ok {
		return cached
	}
	image := d.resolveIconSet(d.primaryIconTable(), d.primaryIconVariants(), pointSize)
	if d.iconCache == nil {
		d.iconCache = make(map[float64]Image)
	}
	d.iconCache[pointSize] = image
	return image
}

// ActionIcon resolves the action's icon at the given point size, falling
// back to the extension's primary icon when the action declares none.
func (d *Descriptor) ActionIcon(pointSize float64) Image {
	if cached, ok := d.actionIconCache[pointSize]; ok {
		return cached
	}
	action := d.actionConfig()
	var image Image
	if len(action.iconTable) > 0 || len(action.iconVariants) > 0 {
		image = d.resolveIconSet(action.iconTable, action.iconVariants, pointSize)
	} else {
		image = d.Icon(pointSize)
	}
	if d.actionIconCache == nil {
		d.actionIconCache = make(map[float64]Image)
	}
	d.actionIconCache[pointSize] = image
	return image
}

// primaryIconTable resolves the top-level icons key.
func (d *Descriptor) primaryIconTable() IconTable {
	if !d.parsed {
		return nil
	}
	v, ok := d.raw["icons"]
	if !ok {
		return nil
	}
	return d.iconTableFromValue(v, InvalidIcons, "icons")
}

// primaryIconVariants resolves the top-level icon_variants key.
func (d *Descriptor) primaryIconVariants() []IconVariant {
	if !d.parsed {
		return nil
	}
	v, ok := d.raw["icon_variants"]
	if !ok {
		return nil
	}
	return d.iconVariantsFromValue(v, InvalidIcons, "icon_variants")
}

// resolveIconSet picks variants when present, otherwise the plain table.
// Light and dark resolve independently over the variants; identical results
// collapse to a single image, otherwise a DynamicImage switches at render
// time via the descriptor's scheme query.
func (d *Descriptor) resolveIconSet(table IconTable, variants []IconVariant, pointSize float64) Image {
	if len(variants) == 0 {
		return d.resolveIconTable(table, pointSize)
	}

	lightTable := variantTableForScheme(variants, ColorSchemeLight)
	darkTable := variantTableForScheme(variants, ColorSchemeDark)
	light := d.resolveIconTable(lightTable, pointSize)
	dark := d.resolveIconTable(darkTable, pointSize)

	switch {
	case light == nil && dark == nil:
		return nil
	case dark == nil || light == dark:
		return light
	case light == nil:
		return dark
	default:
		return &DynamicImage{Light: light, Dark: dark, CurrentScheme: d.scheme}
	}
}

// variantTableForScheme picks the first variant serving the scheme.
// Scheme-specific variants win over schemeless ones.
func variantTableForScheme(variants []IconVariant, scheme ColorScheme) IconTable {
	var fallback IconTable
	for _, variant := range variants {
		if !variant.matchesScheme(scheme) {
			continue
		}
		if len(variant.Schemes) > 0 {
			return variant.Table
		}
		if fallback == nil {
			fallback = variant.Table
		}
	}
	return fallback
}

// resolveIconTable resolves one table at one point size across the active
// display scales. Duplicate paths across scales collapse to one decode. A
// miss against a non-empty table records IconLoadFailed; an empty table is
// silent.
func (d *Descriptor) resolveIconTable(table IconTable, pointSize float64) Image {
	if len(table) == 0 {
		return nil
	}

	pathsByScale := make(map[float64]string)
	for _, scale := range d.scales {
		pixelSize := int(math.Ceil(pointSize * scale))
		if path, ok := bestIconPath(table, pixelSize); ok {
			pathsByScale[scale] = path
		}
	}
	if len(pathsByScale) == 0 {
		d.ledger.Recordf(IconLoadFailed, "no icon at least %g points in table", pointSize)
		return nil
	}

	decoded := make(map[string]Image)
	representations := make(map[float64]Image)
	for scale, path := range pathsByScale {
		image, ok := decoded[path]
		if !ok {
			image = d.decodeIcon(path)
			decoded[path] = image
		}
		if image != nil {
			representations[scale] = image
		}
	}
	if len(representations) == 0 {
		d.ledger.Recordf(IconLoadFailed, "failed to load any icon for %g points", pointSize)
		return nil
	}
	if d.images == nil {
		return nil
	}
	return d.images.Compose(representations)
}

// decodeIcon fetches and decodes one icon path. Lookup failures here are
// batch lookups, so a missing resource is not recorded as ResourceNotFound;
// the caller records IconLoadFailed when nothing decodes.
func (d *Descriptor) decodeIcon(path string) Image {
	if d.resources == nil || d.images == nil {
		return nil
	}
	data, err := d.resources.Bytes(path)
	if err != nil {
		return nil
	}
	image, err := d.images.Decode(data, path)
	if err != nil {
		return nil
	}
	return image
}

// iconTableFromValue normalizes an icon value: a string is shorthand for a
// single any-size entry, an object maps size keys to path strings. Wrong
// types record the given error kind.
func (d *Descriptor) iconTableFromValue(v any, kind ErrorKind, context string) IconTable {
	if s, ok := asString(v); ok {
		if s == "" {
			return nil
		}
		return IconTable{IconSizeAny: s}
	}
	obj, ok := asObject(v)
	if !ok {
		d.ledger.Recordf(kind, "%s must be an object of size keys to paths", context)
		return nil
	}
	table := make(IconTable, len(obj))
	for key, value := range obj {
		path, ok := asString(value)
		if !ok || path == "" {
			d.ledger.Recordf(kind, "%s[%q] must be a non-empty string path", context, key)
			continue
		}
		table[key] = path
	}
	return table
}

// iconVariantsFromValue normalizes an icon_variants array. Each entry is an
// icon table plus an optional color_schemes list; unknown scheme names are
// dropped.
func (d *Descriptor) iconVariantsFromValue(v any, kind ErrorKind, context string) []IconVariant {
	arr, ok := asArray(v)
	if !ok {
		d.ledger.Recordf(kind, "%s must be an array", context)
		return nil
	}
	var variants []IconVariant
	for i, item := range arr {
		obj, ok := asObject(item)
		if !ok {
			d.ledger.Recordf(kind, "%s[%d] must be an object", context, i)
			continue
		}
		variant := IconVariant{Table: make(IconTable)}
		for key, value := range obj {
			if key == "color_schemes" {
				schemes, ok := stringList(value)
				if !ok {
					d.ledger.Recordf(kind, "%s[%d].color_schemes must be an array of strings", context, i)
					continue
				}
				for _, scheme := range schemes {
					switch ColorScheme(scheme) {
					case ColorSchemeLight, ColorSchemeDark:
						variant.Schemes = append(variant.Schemes, ColorScheme(scheme))
					}
				}
				continue
			}
			if path, ok := asString(value); ok && path != "" {
				variant.Table[key] = path
			}
		}
		if len(variant.Table) > 0 {
			variants = append(variants, variant)
		}
	}
	return variants
}
