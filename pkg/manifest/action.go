// SPDX-License-Identifier: MPL-2.0

package manifest

// actionConfig is the resolved action surface (action in schema v3,
// browser_action/page_action in schema v2).
type actionConfig struct {
	present      bool
	label        string
	popupPath    string
	iconTable    IconTable
	iconVariants []IconVariant
}

// HasAction reports whether the manifest declares an action surface.
func (d *Descriptor) HasAction() bool { return d.actionConfig().present }

// ActionLabel returns the action's default_title, or "".
func (d *Descriptor) ActionLabel() string { return d.actionConfig().label }

// ActionPopupPath returns the action's default_popup path, or "".
func (d *Descriptor) ActionPopupPath() string { return d.actionConfig().popupPath }

func (d *Descriptor) actionConfig() actionConfig {
	return d.action.get(func() actionConfig {
		var out actionConfig
		if !d.parsed {
			return out
		}

		key := "action"
		if !d.UsesManifestV3() {
			key = "browser_action"
			if !d.raw.has(key) && d.raw.has("page_action") {
				key = "page_action"
			}
		}
		v, ok := d.raw[key]
		if !ok {
			return out
		}
		obj, ok := asObject(v)
		if !ok {
			d.ledger.Recordf(InvalidAction, "%s must be an object", key)
			return out
		}
		out.present = true

		if title, ok := obj["default_title"]; ok {
			if s, ok := asString(title); ok {
				out.label = s
			} else {
				d.ledger.Recordf(InvalidAction, "%s.default_title must be a string", key)
			}
		}
		if popup, ok := obj["default_popup"]; ok {
			if s, ok := asString(popup); ok {
				out.popupPath = s
			} else {
				d.ledger.Recordf(InvalidAction, "%s.default_popup must be a string", key)
			}
		}
		if icon, ok := obj["default_icon"]; ok {
			out.iconTable = d.iconTableFromValue(icon, InvalidActionIcon, key+".default_icon")
		}
		if variants, ok := obj["icon_variants"]; ok {
			out.iconVariants = d.iconVariantsFromValue(variants, InvalidActionIcon, key+".icon_variants")
		}

		return out
	})
}
