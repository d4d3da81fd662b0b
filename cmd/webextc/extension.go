// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"

	"webextc/internal/config"
	"webextc/internal/extension"
	"webextc/internal/issue"
	"webextc/pkg/manifest"

	"github.com/charmbracelet/lipgloss"
)

// manifestFileName is the manifest file every unpacked extension carries.
const manifestFileName = "manifest.json"

// loadDescriptor builds a fully wired descriptor for the extension at
// target, which may be the extension directory or the manifest.json path
// itself. Manifest content problems never fail loading; they surface on the
// descriptor's ledger. Only missing/unreadable files are hard errors.
func loadDescriptor(target string) (*manifest.Descriptor, error) {
	manifestPath, rootDir, err := resolveTarget(target)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read manifest").
			WithResource(manifestPath).
			WithSuggestion("check that the path points at an unpacked extension directory").
			WithSuggestion("verify the directory contains a manifest.json file").
			Wrap(err).
			Build()
	}

	resources := extension.NewDirResources(rootDir)
	opts := []manifest.Option{
		manifest.WithPatternEngine(extension.Engine{}),
		manifest.WithResourceProvider(resources),
		manifest.WithImageProvider(extension.ImageDecoder{}),
		manifest.WithPlatform(cfg.Platform.ManifestPlatform()),
		manifest.WithDisplayScales(cfg.DisplayScales...),
		manifest.WithColorSchemeQuery(colorSchemeQuery),
	}

	raw, parseErr := manifest.ParseRawManifest(data)
	if parseErr != nil {
		// Construction records the parse failure on the ledger.
		return manifest.New(data, opts...), nil
	}

	// Localization is a pre-resolution substitution pass, so it runs on the
	// raw mapping before the descriptor is built.
	locale := manifestLocale(raw)
	if locale != "" {
		raw = extension.NewCatalog(resources).Localize(raw, locale)
	}
	return manifest.NewFromRaw(raw, opts...), nil
}

// resolveTarget accepts either an extension directory or a manifest.json
// path and returns both the manifest path and the resource root.
func resolveTarget(target string) (manifestPath, rootDir string, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", "", issue.NewErrorContext().
			WithOperation("locate extension").
			WithResource(target).
			WithSuggestion("check that the extension path exists").
			Wrap(err).
			Build()
	}
	if info.IsDir() {
		return filepath.Join(target, manifestFileName), target, nil
	}
	return target, filepath.Dir(target), nil
}

// manifestLocale picks the locale used for placeholder substitution: the
// manifest's own default_locale wins, the configured locale is the fallback.
func manifestLocale(raw manifest.RawManifest) string {
	if v, ok := raw["default_locale"].(string); ok && v != "" {
		return v
	}
	return string(cfg.DefaultLocale)
}

// colorSchemeQuery answers render-time appearance queries for dynamic icons.
func colorSchemeQuery() manifest.ColorScheme {
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return manifest.ColorSchemeDark
	case config.ColorSchemeLight:
		return manifest.ColorSchemeLight
	default:
		if lipgloss.HasDarkBackground() {
			return manifest.ColorSchemeDark
		}
		return manifest.ColorSchemeLight
	}
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle() string {
	if colorSchemeQuery() == manifest.ColorSchemeDark {
		return "dark"
	}
	return "light"
}
