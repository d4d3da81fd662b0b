// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"encoding/json"
	"regexp"
	"strings"

	"webextc/pkg/manifest"
)

// msgPlaceholder matches the "__MSG_name__" substitution markers that
// localizable manifests carry.
var msgPlaceholder = regexp.MustCompile(`__MSG_([A-Za-z0-9_@]+)__`)

// Catalog substitutes message placeholders from the extension's
// _locales/<code>/messages.json files. It implements manifest.Localizer.
type Catalog struct {
	resources manifest.ResourceProvider
}

// NewCatalog returns a localizer reading message files through the given
// resource provider.
func NewCatalog(resources manifest.ResourceProvider) *Catalog {
	return &Catalog{resources: resources}
}

// Localize implements manifest.Localizer. The input mapping is never
// mutated; a deep copy is returned even when no catalog is found.
func (c *Catalog) Localize(raw manifest.RawManifest, defaultLocale string) manifest.RawManifest {
	messages := c.load(defaultLocale)
	if messages == nil {
		// Region-qualified locales fall back to the bare language.
		if lang, _, ok := strings.Cut(defaultLocale, "_"); ok {
			messages = c.load(lang)
		}
	}

	out := make(manifest.RawManifest, len(raw))
	for key, value := range raw {
		out[key] = substituteValue(value, messages)
	}
	return out
}

// load reads and parses one messages.json, or returns nil.
func (c *Catalog) load(locale string) map[string]string {
	if c.resources == nil || locale == "" {
		return nil
	}
	text, err := c.resources.Text("_locales/" + locale + "/messages.json")
	if err != nil {
		return nil
	}

	var entries map[string]struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil
	}

	// Message names are matched case-insensitively.
	messages := make(map[string]string, len(entries))
	for name, entry := range entries {
		messages[strings.ToLower(name)] = entry.Message
	}
	return messages
}

func substituteValue(value any, messages map[string]string) any {
	switch v := value.(type) {
	case string:
		return substituteString(v, messages)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, nested := range v {
			out[key] = substituteValue(nested, messages)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, nested := range v {
			out[i] = substituteValue(nested, messages)
		}
		return out
	default:
		return v
	}
}

func substituteString(s string, messages map[string]string) string {
	if messages == nil || !strings.Contains(s, "__MSG_") {
		return s
	}
	return msgPlaceholder.ReplaceAllStringFunc(s, func(marker string) string {
		name := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(marker, "__MSG_"), "__"))
		if message, ok := messages[name]; ok {
			return message
		}
		return marker
	})
}
