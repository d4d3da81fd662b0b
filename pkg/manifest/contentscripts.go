// SPDX-License-Identifier: MPL-2.0

package manifest

// InjectionTime is when a content script's resources are injected.
type InjectionTime string

const (
	// InjectAtDocumentStart injects before the document begins loading.
	InjectAtDocumentStart InjectionTime = "document_start"
	// InjectAtDocumentEnd injects when the DOM is complete.
	InjectAtDocumentEnd InjectionTime = "document_end"
	// InjectAtDocumentIdle injects when the page is idle. This is the default.
	InjectAtDocumentIdle InjectionTime = "document_idle"
)

// ExecutionWorld is the JavaScript world scripts are injected into.
type ExecutionWorld string

const (
	// WorldContentScript is the isolated content-script world. The default.
	WorldContentScript ExecutionWorld = "ISOLATED"
	// WorldMain is the page's own world.
	WorldMain ExecutionWorld = "MAIN"
)

// StyleLevel is the cascade origin injected style sheets use.
type StyleLevel string

const (
	// StyleLevelAuthor injects styles at author level. The default.
	StyleLevelAuthor StyleLevel = "author"
	// StyleLevelUser injects styles at user level.
	StyleLevelUser StyleLevel = "user"
)

// InjectedContentRule is one resolved content_scripts entry. Rules keep the
// manifest array order, which is the injection order contract.
type InjectedContentRule struct {
	// IncludePatterns scope where the rule applies. Never empty.
	IncludePatterns *PatternSet
	// ExcludePatterns carve exceptions out of the include scope.
	ExcludePatterns *PatternSet
	// IncludeGlobs further restrict matched URLs by glob.
	IncludeGlobs []string
	// ExcludeGlobs exclude matched URLs by glob.
	ExcludeGlobs []string
	// ScriptPaths are the ordered script resources to inject.
	ScriptPaths []string
	// StyleSheetPaths are the ordered style resources to inject.
	StyleSheetPaths []string
	// MatchesAboutBlank extends the rule to about:blank frames.
	MatchesAboutBlank bool
	// AllFrames injects into subframes, not just the top frame.
	AllFrames bool
	// InjectionTime is when injection happens.
	InjectionTime InjectionTime
	// World is the JavaScript world scripts run in.
	World ExecutionWorld
	// StyleLevel is the cascade origin for injected styles.
	StyleLevel StyleLevel
}

// ContentScripts resolves the content_scripts array into ordered injection
// rules. Entries that end up with no usable include pattern or with neither
// scripts nor styles are dropped with an error; everything else keeps its
// manifest position.
func (d *Descriptor) ContentScripts() []InjectedContentRule {
	return d.contentScripts.get(d.resolveContentScripts)
}

func (d *Descriptor) resolveContentScripts() []InjectedContentRule {
	if !d.parsed {
		return nil
	}
	v, ok := d.raw["content_scripts"]
	if !ok {
		return nil
	}
	entries, ok := asArray(v)
	if !ok {
		d.ledger.Record(InvalidContentScripts, "content_scripts must be an array")
		return nil
	}

	var rules []InjectedContentRule
	for i, item := range entries {
		entry, ok := asObject(item)
		if !ok {
			d.ledger.Recordf(InvalidContentScripts, "content_scripts[%d] must be an object", i)
			continue
		}
		if rule, ok := d.resolveContentScriptEntry(entry, i); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

func (d *Descriptor) resolveContentScriptEntry(entry map[string]any, index int) (InjectedContentRule, bool) {
	rule := InjectedContentRule{
		IncludePatterns: &PatternSet{},
		ExcludePatterns: &PatternSet{},
		InjectionTime:   InjectAtDocumentIdle,
		World:           WorldContentScript,
		StyleLevel:      StyleLevelAuthor,
	}

	// Unsupported or unparseable pattern strings are silently dropped; only
	// an entirely empty resulting set is an error.
	matches, _ := stringList(entry["matches"])
	for _, match := range matches {
		if pattern := d.parsePattern(match); pattern != nil && pattern.IsSupported() {
			rule.IncludePatterns.Add(pattern)
		}
	}
	if rule.IncludePatterns.Len() == 0 {
		d.ledger.Recordf(InvalidContentScripts, "content_scripts[%d] has no usable match pattern", index)
		return rule, false
	}

	excludes, _ := stringList(entry["exclude_matches"])
	for _, exclude := range excludes {
		if pattern := d.parsePattern(exclude); pattern != nil && pattern.IsSupported() {
			rule.ExcludePatterns.Add(pattern)
		}
	}

	rule.ScriptPaths, _ = stringList(entry["js"])
	rule.StyleSheetPaths, _ = stringList(entry["css"])
	if len(rule.ScriptPaths) == 0 && len(rule.StyleSheetPaths) == 0 {
		d.ledger.Recordf(InvalidContentScripts, "content_scripts[%d] needs at least one js or css entry", index)
		return rule, false
	}

	rule.IncludeGlobs, _ = stringList(entry["include_globs"])
	rule.ExcludeGlobs, _ = stringList(entry["exclude_globs"])
	rule.AllFrames, _ = asBool(entry["all_frames"])
	rule.MatchesAboutBlank, _ = asBool(entry["match_about_blank"])

	if v, ok := entry["run_at"]; ok {
		switch InjectionTime(toString(v)) {
		case InjectAtDocumentStart, InjectAtDocumentEnd, InjectAtDocumentIdle:
			rule.InjectionTime = InjectionTime(toString(v))
		default:
			d.ledger.Recordf(InvalidContentScripts, "content_scripts[%d] has an unrecognized run_at value", index)
		}
	}
	if v, ok := entry["world"]; ok {
		switch ExecutionWorld(toString(v)) {
		case WorldContentScript, WorldMain:
			rule.World = ExecutionWorld(toString(v))
		default:
			d.ledger.Recordf(InvalidContentScripts, "content_scripts[%d] has an unrecognized world value", index)
		}
	}
	if v, ok := entry["css_origin"]; ok {
		switch StyleLevel(toString(v)) {
		case StyleLevelAuthor, StyleLevelUser:
			rule.StyleLevel = StyleLevel(toString(v))
		default:
			d.ledger.Recordf(InvalidContentScripts, "content_scripts[%d] has an unrecognized css_origin value", index)
		}
	}

	return rule, true
}
