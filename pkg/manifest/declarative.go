// SPDX-License-Identifier: MPL-2.0

package manifest

// Declarative-net-request ceilings. Entries past the total cap are ignored;
// enabled entries past the enabled cap are rejected entirely, not merely
// disabled.
const (
	// MaxDeclarativeNetRequestRulesets caps how many ruleset entries are
	// processed at all.
	MaxDeclarativeNetRequestRulesets = 100
	// MaxEnabledDeclarativeNetRequestRulesets caps how many rulesets may be
	// enabled at once.
	MaxEnabledDeclarativeNetRequestRulesets = 50
)

// declarativeNetRequestPermissions are the capability permissions that grant
// access to declarative_net_request.
var declarativeNetRequestPermissions = []string{
	"declarativeNetRequest",
	"declarativeNetRequestFeedback",
	"declarativeNetRequestWithHostAccess",
}

// DeclarativeNetRequestRuleset is one validated rule_resources entry: an
// external rule file referenced by path, toggled by id.
type DeclarativeNetRequestRuleset struct {
	// ID uniquely names the ruleset. First occurrence wins; later duplicates
	// are rejected.
	ID string
	// Enabled reports whether the ruleset loads at install time.
	Enabled bool
	// Path is the rule file's resource path.
	Path string
}

// HasDeclarativeNetRequestPermission reports whether any of the
// declarative-net-request capability permissions is requested.
func (d *Descriptor) HasDeclarativeNetRequestPermission() bool {
	for _, permission := range declarativeNetRequestPermissions {
		if d.hasRequestedPermission(permission) {
			return true
		}
	}
	return false
}

// DeclarativeNetRequestRulesets resolves declarative_net_request into a
// bounded, uniquely-keyed ruleset list. Without one of the
// declarative-net-request permissions the result is empty and a single
// InvalidDeclarativeNetRequest error is recorded.
func (d *Descriptor) DeclarativeNetRequestRulesets() []DeclarativeNetRequestRuleset {
	return d.declarative.get(d.resolveDeclarativeNetRequest)
}

func (d *Descriptor) resolveDeclarativeNetRequest() []DeclarativeNetRequestRuleset {
	if !d.parsed {
		return nil
	}
	v, ok := d.raw["declarative_net_request"]
	if !ok {
		return nil
	}
	if !d.HasDeclarativeNetRequestPermission() {
		d.ledger.Record(InvalidDeclarativeNetRequest, "declarative_net_request requires a declarativeNetRequest permission")
		return nil
	}
	obj, ok := asObject(v)
	if !ok {
		d.ledger.Record(InvalidDeclarativeNetRequest, "declarative_net_request must be an object")
		return nil
	}
	entries, ok := asArray(obj["rule_resources"])
	if !ok {
		d.ledger.Record(InvalidDeclarativeNetRequest, "declarative_net_request.rule_resources must be an array")
		return nil
	}

	if len(entries) > MaxDeclarativeNetRequestRulesets {
		d.ledger.Recordf(InvalidDeclarativeNetRequestEntry, "only the first %d rulesets are processed", MaxDeclarativeNetRequestRulesets)
		entries = entries[:MaxDeclarativeNetRequestRulesets]
	}

	var rulesets []DeclarativeNetRequestRuleset
	seen := make(map[string]struct{})
	enabled := 0
	for i, item := range entries {
		entry, ok := asObject(item)
		if !ok {
			d.ledger.Recordf(InvalidDeclarativeNetRequestEntry, "rule_resources[%d] must be an object", i)
			continue
		}

		id, ok := asString(entry["id"])
		if !ok || id == "" {
			d.ledger.Recordf(InvalidDeclarativeNetRequestEntry, "rule_resources[%d] needs a non-empty string id", i)
			continue
		}
		enabledFlag, ok := asBool(entry["enabled"])
		if !ok {
			d.ledger.Recordf(InvalidDeclarativeNetRequestEntry, "rule_resources[%d] needs a boolean enabled flag", i)
			continue
		}
		path, ok := asString(entry["path"])
		if !ok || path == "" {
			d.ledger.Recordf(InvalidDeclarativeNetRequestEntry, "rule_resources[%d] needs a non-empty string path", i)
			continue
		}

		if _, duplicate := seen[id]; duplicate {
			d.ledger.Recordf(InvalidDeclarativeNetRequestEntry, "rule_resources id %q is duplicated; keeping the first", id)
			continue
		}

		if enabledFlag {
			if enabled >= MaxEnabledDeclarativeNetRequestRulesets {
				d.ledger.Recordf(InvalidDeclarativeNetRequestEntry, "only %d rulesets may be enabled", MaxEnabledDeclarativeNetRequestRulesets)
				continue
			}
			enabled++
		}

		seen[id] = struct{}{}
		rulesets = append(rulesets, DeclarativeNetRequestRuleset{ID: id, Enabled: enabledFlag, Path: path})
	}
	return rulesets
}
