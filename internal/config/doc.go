// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/webextc/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/webextc/config.cue on macOS, %APPDATA%\webextc\config.cue
// on Windows). The package provides type-safe configuration access and covers the resolver
// inputs the CLI passes through: host platform profile, display scale set, default locale,
// output format, and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
