// SPDX-License-Identifier: MPL-2.0

// Package manifest resolves a browser-extension manifest (manifest.json plus
// its bundled resources) into a validated, normalized, queryable descriptor.
//
// Resolution never hard-fails: each field resolver records structured errors
// in the descriptor's ledger and falls back to a safe default, so callers
// always get the best-effort descriptor they can act on. Field resolvers run
// lazily, once, on first access; see Descriptor for the concurrency contract.
//
// Raw byte retrieval, match-pattern compilation, localization, and image
// decoding are external collaborators consumed through the PatternEngine,
// ResourceProvider, ImageProvider, and Localizer interfaces.
package manifest
