// SPDX-License-Identifier: MPL-2.0

package manifest

import "strings"

// BackgroundEnvironment identifies where background content executes.
type BackgroundEnvironment string

const (
	// EnvironmentDocument runs background content in a (possibly generated)
	// background document.
	EnvironmentDocument BackgroundEnvironment = "document"
	// EnvironmentServiceWorker runs background content in a service worker.
	EnvironmentServiceWorker BackgroundEnvironment = "service_worker"
)

// Synthetic resource paths for background content generated from a bare
// scripts list. ResourceString and ResourceData answer these paths before
// consulting the resource provider.
const (
	// GeneratedBackgroundPagePath hosts the generated background document.
	GeneratedBackgroundPagePath = "_generated_background_page.html"
	// GeneratedBackgroundServiceWorkerPath hosts the generated worker loader.
	GeneratedBackgroundServiceWorkerPath = "_generated_background_service_worker.js"
)

// WebRequestPermission is the capability permission that requires a
// persistent background to be observed reliably.
const WebRequestPermission = "webRequest"

// BackgroundContent is the resolved background configuration. At most one of
// ScriptPaths / PagePath / ServiceWorkerPath is authoritative after
// resolution; precedence is applied while resolving, never re-derived.
type BackgroundContent struct {
	// Environment is the execution environment the content resolved to.
	Environment BackgroundEnvironment
	// ScriptPaths are the ordered background script paths, when scripts won.
	ScriptPaths []string
	// PagePath is the background page path, when a page won.
	PagePath string
	// ServiceWorkerPath is the worker script path, when a worker won.
	ServiceWorkerPath string
	// UsesModules reports background type == "module".
	UsesModules bool
	// IsPersistent reports whether the background document stays alive.
	// Always false for service workers and schema v3.
	IsPersistent bool
}

// usable reports whether any content source survived resolution.
func (b *BackgroundContent) usable() bool {
	return b != nil && (len(b.ScriptPaths) > 0 || b.PagePath != "" || b.ServiceWorkerPath != "")
}

// GeneratedContentPath returns the synthetic path serving generated content,
// or "" when the background does not need generation (a page or worker file
// is named explicitly, or there is no background at all).
func (b *BackgroundContent) GeneratedContentPath() string {
	if b == nil || len(b.ScriptPaths) == 0 {
		return ""
	}
	if b.Environment == EnvironmentServiceWorker {
		return GeneratedBackgroundServiceWorkerPath
	}
	return GeneratedBackgroundPagePath
}

// HasBackgroundContent reports whether the manifest resolved to usable
// background content. A manifest without a background key has none, and that
// is not an error.
func (d *Descriptor) HasBackgroundContent() bool {
	return d.BackgroundContent().usable()
}

// BackgroundContent resolves the background key. It never returns nil; an
// absent or unusable background yields a zero-content value.
func (d *Descriptor) BackgroundContent() *BackgroundContent {
	return d.background.get(d.resolveBackground)
}

func (d *Descriptor) resolveBackground() *BackgroundContent {
	content := &BackgroundContent{Environment: EnvironmentDocument}
	if !d.parsed {
		return content
	}
	background, ok := d.raw.objectValue("background")
	if !ok {
		if d.raw.has("background") {
			d.ledger.Record(InvalidBackgroundContent, "background must be an object")
		}
		return content
	}

	scripts, _ := stringList(background["scripts"])
	page, _ := asString(background["page"])
	serviceWorker, _ := asString(background["service_worker"])
	if typ, ok := asString(background["type"]); ok {
		content.UsesModules = typ == "module"
	}

	content.ScriptPaths = scripts
	content.PagePath = page
	content.ServiceWorkerPath = serviceWorker

	if prefs := preferredEnvironments(background["preferred_environment"]); len(prefs) > 0 {
		// The first recognized preference is authoritative. When its required
		// field is missing we record the error and stop; we deliberately do
		// not fall through to later preferences, matching the engine's
		// observable validation results.
		d.applyPreferredEnvironment(content, prefs[0])
	} else {
		d.applyDefaultPrecedence(content)
	}

	d.resolvePersistence(content, background)
	return content
}

// preferredEnvironments normalizes the preferred_environment value (single
// string or ordered list) into recognized environments, dropping unknowns.
func preferredEnvironments(v any) []BackgroundEnvironment {
	values, ok := stringOrList(v)
	if !ok {
		return nil
	}
	var out []BackgroundEnvironment
	for _, value := range values {
		switch BackgroundEnvironment(value) {
		case EnvironmentDocument:
			out = append(out, EnvironmentDocument)
		case EnvironmentServiceWorker:
			out = append(out, EnvironmentServiceWorker)
		}
	}
	return out
}

// applyPreferredEnvironment resolves content for an explicitly preferred
// environment. Precedence inside an environment: the environment's own
// dedicated source wins over scripts, scripts win over the other
// environment's source.
func (d *Descriptor) applyPreferredEnvironment(content *BackgroundContent, env BackgroundEnvironment) {
	content.Environment = env
	switch env {
	case EnvironmentDocument:
		content.ServiceWorkerPath = ""
		switch {
		case content.PagePath != "":
			content.ScriptPaths = nil
		case len(content.ScriptPaths) > 0:
			// Scripts back a generated document.
		default:
			d.ledger.Record(InvalidBackgroundContent, "background preferring a document needs page or scripts")
		}
	case EnvironmentServiceWorker:
		content.PagePath = ""
		switch {
		case content.ServiceWorkerPath != "":
			content.ScriptPaths = nil
		case len(content.ScriptPaths) > 0:
			// Scripts back a generated worker loader.
		default:
			d.ledger.Record(InvalidBackgroundContent, "background preferring a service worker needs service_worker or scripts")
		}
	}
}

// applyDefaultPrecedence resolves content with no preference supplied:
// page > service worker, then scripts > both.
func (d *Descriptor) applyDefaultPrecedence(content *BackgroundContent) {
	if content.PagePath != "" {
		content.ServiceWorkerPath = ""
	}
	if len(content.ScriptPaths) > 0 {
		content.PagePath = ""
		content.ServiceWorkerPath = ""
	}
	if content.ServiceWorkerPath != "" {
		content.Environment = EnvironmentServiceWorker
	} else {
		content.Environment = EnvironmentDocument
	}
	if !content.usable() {
		d.ledger.Record(InvalidBackgroundContent, "background needs scripts, page, or service_worker")
	}
}

// resolvePersistence applies the persistent flag default and its validation
// rules. Violations are recorded independently and force the flag to false,
// except the web-request rule which is recorded without correction.
func (d *Descriptor) resolvePersistence(content *BackgroundContent, background map[string]any) {
	usesServiceWorker := content.Environment == EnvironmentServiceWorker
	persistent, explicit := asBool(background["persistent"])
	if !explicit {
		persistent = !d.UsesManifestV3() && !usesServiceWorker
	}

	if persistent && d.UsesManifestV3() {
		d.ledger.Record(InvalidBackgroundPersistence, "persistent background is not supported in manifest v3")
		persistent = false
	}
	if persistent && usesServiceWorker {
		d.ledger.Record(InvalidBackgroundPersistence, "persistent background cannot use a service worker")
		persistent = false
	}
	if persistent && !d.platform.AllowsPersistentBackground() {
		d.ledger.Record(InvalidBackgroundPersistence, "persistent background is not supported on this platform")
		persistent = false
	}
	if !persistent && content.usable() && d.hasRequestedPermission(WebRequestPermission) {
		// Recorded but not corrected: the author must pick one of the two.
		d.ledger.Record(InvalidBackgroundPersistence, "webRequest permission requires a persistent background")
	}

	content.IsPersistent = persistent
}

// GeneratedBackgroundContent synthesizes the virtual resource backing a
// bare scripts list: a minimal host document for the document environment, or
// a minimal loader script for the service worker environment. Returns "" when
// nothing needs generating.
func (d *Descriptor) GeneratedBackgroundContent() string {
	content := d.BackgroundContent()
	if content.GeneratedContentPath() == "" {
		return ""
	}
	if content.Environment == EnvironmentServiceWorker {
		return generateWorkerLoader(content.ScriptPaths, content.UsesModules)
	}
	return generateBackgroundPage(content.ScriptPaths, content.UsesModules)
}

func generateBackgroundPage(scriptPaths []string, usesModules bool) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	for _, path := range scriptPaths {
		b.WriteString("<script")
		if usesModules {
			b.WriteString(" type=\"module\"")
		}
		b.WriteString(" src=\"")
		b.WriteString(htmlAttributeEscape(path))
		b.WriteString("\"></script>\n")
	}
	b.WriteString("</head>\n<body></body>\n</html>\n")
	return b.String()
}

func generateWorkerLoader(scriptPaths []string, usesModules bool) string {
	var b strings.Builder
	if usesModules {
		for _, path := range scriptPaths {
			b.WriteString("import \"./")
			b.WriteString(scriptLiteralEscape(strings.TrimPrefix(path, "/")))
			b.WriteString("\";\n")
		}
		return b.String()
	}
	b.WriteString("importScripts(")
	for i, path := range scriptPaths {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("\"")
		b.WriteString(scriptLiteralEscape(path))
		b.WriteString("\"")
	}
	b.WriteString(");\n")
	return b.String()
}

func htmlAttributeEscape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "\"", "&quot;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}

func scriptLiteralEscape(s string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "\"", "\\\"")
	return replacer.Replace(s)
}
