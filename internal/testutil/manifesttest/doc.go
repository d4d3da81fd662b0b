// SPDX-License-Identifier: MPL-2.0

// Package manifesttest provides in-memory fakes for the manifest package's
// external collaborators: the match-pattern engine, the resource provider,
// and the image provider. The fakes implement just enough of each contract
// for resolver tests to exercise precedence and validation paths.
package manifesttest
