// SPDX-License-Identifier: MPL-2.0

// Package extension provides the production implementations of the
// collaborator contracts declared in pkg/manifest: a directory-backed
// resource provider, a stdlib image decoder, a match-pattern engine, and a
// _locales message-catalog localizer.
//
// pkg/manifest consumes these through interfaces only; this package is the
// CLI-side wiring for resolving real unpacked extensions on disk.
package extension
